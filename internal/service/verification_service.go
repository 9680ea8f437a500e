package service

import (
	"context"
	"strings"
	"time"

	"accessly/internal/models"
	"accessly/internal/notifications"
	"accessly/internal/observability"
	"accessly/internal/repository"
)

// SubmissionInput is the payload of a verification submission. Image values
// are storage keys; upload plumbing happens before the workflow is invoked.
type SubmissionInput struct {
	Comments             string `json:"comments"`
	MobilityDeviceID     *uint  `json:"mobility_device_id"`
	SelfieKey            string `json:"selfie_key"`
	ConfirmedFeatureIDs  []uint `json:"confirmed_feature_ids"`
	AdditionalFeatureIDs []uint `json:"additional_feature_ids"`
	// FeaturePhotos maps a feature ID to the evidence photo keys for it.
	FeaturePhotos map[uint][]string `json:"feature_photos"`
	// GeneralPhotos are evidence photos not tied to one feature.
	GeneralPhotos []string `json:"general_photos"`
}

// VerificationService validates and commits full verification submissions
// and handles the administrative approval override.
type VerificationService struct {
	verificationRepo repository.VerificationRepository
	businessRepo     repository.BusinessRepository
	catalogRepo      repository.CatalogRepository
	notifier         WorkflowNotifier
	threshold        int
}

// NewVerificationService returns a new VerificationService. threshold is the
// verification count at which a business is marked verified.
func NewVerificationService(
	verificationRepo repository.VerificationRepository,
	businessRepo repository.BusinessRepository,
	catalogRepo repository.CatalogRepository,
	notifier WorkflowNotifier,
	threshold int,
) *VerificationService {
	return &VerificationService{
		verificationRepo: verificationRepo,
		businessRepo:     businessRepo,
		catalogRepo:      catalogRepo,
		notifier:         notifier,
		threshold:        threshold,
	}
}

// SubmitVerification validates the payload and commits the verification as a
// single all-or-nothing transaction: verification row, feature links, photo
// rows, and the auto-approval trust flip when the business's verification
// count reaches the threshold.
func (s *VerificationService) SubmitVerification(ctx context.Context, businessID uint, actor models.Actor, input SubmissionInput) (*models.WheelerVerification, error) {
	start := time.Now()

	if !actor.Wheeler {
		return nil, models.NewNotWheelerError()
	}

	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return nil, err
	}

	existing, err := s.verificationRepo.GetByPair(ctx, businessID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		observability.VerificationsSubmitted.WithLabelValues("duplicate").Inc()
		return nil, models.NewAlreadyVerifiedError()
	}

	if strings.TrimSpace(input.Comments) == "" {
		return nil, models.NewValidationError("Comments are required")
	}

	// An unrecognized device (deleted from the catalog since the form was
	// rendered) degrades to null rather than failing the submission.
	var deviceID *uint
	if input.MobilityDeviceID != nil {
		device, err := s.catalogRepo.GetDevice(ctx, *input.MobilityDeviceID)
		if err != nil {
			return nil, err
		}
		if device != nil {
			deviceID = &device.ID
		}
	}

	catalog, err := s.catalogRepo.ListFeatures(ctx)
	if err != nil {
		return nil, err
	}
	confirmed, additional := scopeFeatures(business, catalog, input.ConfirmedFeatureIDs, input.AdditionalFeatureIDs)

	// Every selected feature needs at least one evidence photo keyed to it.
	for _, feature := range append(append([]models.AccessibilityFeature{}, confirmed...), additional...) {
		if len(input.FeaturePhotos[feature.ID]) == 0 {
			return nil, models.NewMissingEvidenceError(feature.Name)
		}
	}

	if strings.TrimSpace(input.SelfieKey) == "" {
		return nil, models.NewMissingSelfieError()
	}

	allowed := make(map[uint]bool, len(confirmed)+len(additional))
	for _, f := range confirmed {
		allowed[f.ID] = true
	}
	for _, f := range additional {
		allowed[f.ID] = true
	}

	var photos []models.WheelerVerificationPhoto
	for featureID, keys := range input.FeaturePhotos {
		if !allowed[featureID] {
			// Out-of-scope feature keys are ignored, mirroring the
			// server-enforced feature scoping above.
			continue
		}
		fid := featureID
		for _, key := range keys {
			photos = append(photos, models.WheelerVerificationPhoto{ImageKey: key, FeatureID: &fid})
		}
	}
	for _, key := range input.GeneralPhotos {
		photos = append(photos, models.WheelerVerificationPhoto{ImageKey: key})
	}

	verification := &models.WheelerVerification{
		BusinessID:         businessID,
		WheelerID:          actor.UserID,
		Comments:           input.Comments,
		MobilityDeviceID:   deviceID,
		SelfieKey:          input.SelfieKey,
		ConfirmedFeatures:  confirmed,
		AdditionalFeatures: additional,
		Photos:             photos,
	}

	wasVerified := business.Verified
	thresholdMet, err := s.verificationRepo.Submit(ctx, verification, s.threshold)
	if err != nil {
		observability.VerificationsSubmitted.WithLabelValues("failed").Inc()
		return nil, err
	}
	observability.VerificationsSubmitted.WithLabelValues("created").Inc()
	observability.SubmissionLatency.Observe(time.Since(start).Seconds())

	notifications.BestEffort(ctx, notifications.TemplateVerificationReceived,
		s.notifier.Notify(ctx, actor.UserID, notifications.TemplateVerificationReceived, map[string]any{
			"verification_id": verification.ID,
			"business_id":     businessID,
			"business_name":   business.Name,
		}))

	// The flag is re-asserted on every submission past the threshold; the
	// owner only hears about the first flip.
	if thresholdMet && !wasVerified {
		observability.BusinessesVerified.Inc()
		notifications.BestEffort(ctx, notifications.TemplateBusinessVerified,
			s.notifier.Notify(ctx, business.OwnerID, notifications.TemplateBusinessVerified, map[string]any{
				"business_id":   businessID,
				"business_name": business.Name,
			}))
	}

	return verification, nil
}

// scopeFeatures restricts the submitted selections to what the server allows:
// confirmed features must be currently claimed by the business, additional
// features must come from the catalog complement of that claim set. Anything
// outside scope is dropped, which also keeps the two sets disjoint.
func scopeFeatures(business *models.Business, catalog []models.AccessibilityFeature, confirmedIDs, additionalIDs []uint) (confirmed, additional []models.AccessibilityFeature) {
	claimed := business.ClaimedFeatureIDs()
	byID := make(map[uint]models.AccessibilityFeature, len(catalog))
	for _, f := range catalog {
		byID[f.ID] = f
	}

	seen := map[uint]bool{}
	for _, id := range confirmedIDs {
		f, inCatalog := byID[id]
		if !inCatalog || !claimed[id] || seen[id] {
			continue
		}
		seen[id] = true
		confirmed = append(confirmed, f)
	}
	for _, id := range additionalIDs {
		f, inCatalog := byID[id]
		if !inCatalog || claimed[id] || seen[id] {
			continue
		}
		seen[id] = true
		additional = append(additional, f)
	}
	return confirmed, additional
}

// ApproveVerification is the administrative override on a submitted
// verification. The Wheeler is notified exactly once, on the false->true
// transition; repeated saves of the same value never re-fire the email.
func (s *VerificationService) ApproveVerification(ctx context.Context, verificationID uint, actor models.Actor) (*models.WheelerVerification, error) {
	if !actor.Admin {
		return nil, models.NewForbiddenError("Only administrators can approve verifications")
	}

	verification, err := s.verificationRepo.GetByID(ctx, verificationID)
	if err != nil {
		return nil, err
	}
	if verification.Approved {
		return verification, nil
	}

	verification.Approved = true
	if err := s.verificationRepo.Save(ctx, verification); err != nil {
		return nil, err
	}

	notifications.BestEffort(ctx, notifications.TemplateVerificationApproved,
		s.notifier.Notify(ctx, verification.WheelerID, notifications.TemplateVerificationApproved, map[string]any{
			"verification_id": verification.ID,
			"business_id":     verification.BusinessID,
		}))

	return verification, nil
}
