package service

import (
	"context"
	"time"

	"accessly/internal/models"
	"accessly/internal/repository"
)

// FeatureEvidence is one feature line of a verification report with its
// display photo. At most one photo is shown per feature, even when the
// Wheeler uploaded several.
type FeatureEvidence struct {
	FeatureID uint   `json:"feature_id"`
	Name      string `json:"name"`
	// Confirmed distinguishes attested claimed features from additional
	// ones the Wheeler discovered.
	Confirmed bool   `json:"confirmed"`
	PhotoKey  string `json:"photo_key,omitempty"`
}

// Report is the rendered view of a verification. WheelerUsername is empty
// when the viewer is the business owner (identity redaction).
type Report struct {
	VerificationID  uint              `json:"verification_id"`
	BusinessID      uint              `json:"business_id"`
	BusinessName    string            `json:"business_name"`
	WheelerUsername string            `json:"wheeler_username,omitempty"`
	SubmittedAt     time.Time         `json:"submitted_at"`
	Comments        string            `json:"comments"`
	MobilityDevice  string            `json:"mobility_device,omitempty"`
	Approved        bool              `json:"approved"`
	Features        []FeatureEvidence `json:"features"`
	GeneralPhotos   []string          `json:"general_photos,omitempty"`
	SelfieKey       string            `json:"selfie_key,omitempty"`
}

// VerificationListItem is one entry of the public per-business verification
// listing. It carries no Wheeler identity and no evidence; those live in the
// access-controlled report.
type VerificationListItem struct {
	VerificationID uint      `json:"verification_id"`
	SubmittedAt    time.Time `json:"submitted_at"`
	MobilityDevice string    `json:"mobility_device,omitempty"`
	Approved       bool      `json:"approved"`
}

// BusinessVerifications is the public verification history of a business.
type BusinessVerifications struct {
	BusinessID    uint                   `json:"business_id"`
	Total         int64                  `json:"total"`
	Verifications []VerificationListItem `json:"verifications"`
}

// ReportService renders verification reports with access control.
type ReportService struct {
	verificationRepo repository.VerificationRepository
	businessRepo     repository.BusinessRepository
}

// NewReportService returns a new ReportService.
func NewReportService(verificationRepo repository.VerificationRepository, businessRepo repository.BusinessRepository) *ReportService {
	return &ReportService{
		verificationRepo: verificationRepo,
		businessRepo:     businessRepo,
	}
}

// ListBusinessVerifications returns the verification history of a business
// in submission order: the evidence behind a "verified by N Wheelers" badge,
// stripped of anything the report restricts.
func (s *ReportService) ListBusinessVerifications(ctx context.Context, businessID uint) (*BusinessVerifications, error) {
	if _, err := s.businessRepo.GetByID(ctx, businessID); err != nil {
		return nil, err
	}

	total, err := s.verificationRepo.CountForBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}
	verifications, err := s.verificationRepo.ListForBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}

	listing := &BusinessVerifications{
		BusinessID:    businessID,
		Total:         total,
		Verifications: make([]VerificationListItem, 0, len(verifications)),
	}
	for _, v := range verifications {
		item := VerificationListItem{
			VerificationID: v.ID,
			SubmittedAt:    v.CreatedAt,
			Approved:       v.Approved,
		}
		if v.MobilityDevice != nil {
			item.MobilityDevice = v.MobilityDevice.Name
		}
		listing.Verifications = append(listing.Verifications, item)
	}
	return listing, nil
}

// ViewReport returns the report for a verification. Only the business owner,
// the verifying Wheeler, and administrators may view it; the owner sees the
// report with the Wheeler's identity withheld unless they are also the
// verifying Wheeler.
func (s *ReportService) ViewReport(ctx context.Context, verificationID uint, actor models.Actor) (*Report, error) {
	verification, err := s.verificationRepo.GetByID(ctx, verificationID)
	if err != nil {
		return nil, err
	}

	isWheeler := actor.UserID == verification.WheelerID
	isOwner := verification.Business != nil && verification.Business.OwnerID == actor.UserID
	if !isWheeler && !isOwner && !actor.Admin {
		return nil, models.NewForbiddenError("You are not allowed to view this report")
	}

	report := &Report{
		VerificationID: verification.ID,
		BusinessID:     verification.BusinessID,
		SubmittedAt:    verification.CreatedAt,
		Comments:       verification.Comments,
		Approved:       verification.Approved,
		SelfieKey:      verification.SelfieKey,
	}
	if verification.Business != nil {
		report.BusinessName = verification.Business.Name
	}
	if verification.MobilityDevice != nil {
		report.MobilityDevice = verification.MobilityDevice.Name
	}
	if !isOwner || isWheeler {
		if verification.Wheeler != nil {
			report.WheelerUsername = verification.Wheeler.Username
		}
	}

	// Photos are loaded in upload order; the first photo per feature wins.
	firstPhoto := map[uint]string{}
	for _, photo := range verification.Photos {
		if photo.FeatureID == nil {
			report.GeneralPhotos = append(report.GeneralPhotos, photo.ImageKey)
			continue
		}
		if _, ok := firstPhoto[*photo.FeatureID]; !ok {
			firstPhoto[*photo.FeatureID] = photo.ImageKey
		}
	}

	for _, feature := range verification.ConfirmedFeatures {
		report.Features = append(report.Features, FeatureEvidence{
			FeatureID: feature.ID,
			Name:      feature.Name,
			Confirmed: true,
			PhotoKey:  firstPhoto[feature.ID],
		})
	}
	for _, feature := range verification.AdditionalFeatures {
		report.Features = append(report.Features, FeatureEvidence{
			FeatureID: feature.ID,
			Name:      feature.Name,
			PhotoKey:  firstPhoto[feature.ID],
		})
	}

	return report, nil
}
