package service

import (
	"context"
	"strconv"
	"time"

	"accessly/internal/models"
	"accessly/internal/notifications"
	"accessly/internal/observability"
	"accessly/internal/repository"
)

// ApplicationService manages the lifecycle of a Wheeler's request to verify a
// business: submit, approve, cancel. Per (business, wheeler) pair the states
// are none -> pending -> approved, with cancellation deleting a pending row,
// and the pair absorbed into verified once a WheelerVerification exists.
type ApplicationService struct {
	applicationRepo  repository.ApplicationRepository
	verificationRepo repository.VerificationRepository
	businessRepo     repository.BusinessRepository
	notifier         WorkflowNotifier
	now              func() time.Time
}

// NewApplicationService returns a new ApplicationService.
func NewApplicationService(
	applicationRepo repository.ApplicationRepository,
	verificationRepo repository.VerificationRepository,
	businessRepo repository.BusinessRepository,
	notifier WorkflowNotifier,
) *ApplicationService {
	return &ApplicationService{
		applicationRepo:  applicationRepo,
		verificationRepo: verificationRepo,
		businessRepo:     businessRepo,
		notifier:         notifier,
		now:              time.Now,
	}
}

// Apply creates a pending application for the (business, wheeler) pair.
// The storage-level unique index is the authoritative duplicate guard; the
// existence pre-checks here only produce friendlier errors.
func (s *ApplicationService) Apply(ctx context.Context, businessID uint, actor models.Actor) (*models.WheelerVerificationApplication, error) {
	if !actor.Wheeler {
		return nil, models.NewNotWheelerError()
	}

	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if !business.Approved {
		return nil, models.NewNotFoundError("Business", businessID)
	}

	verification, err := s.verificationRepo.GetByPair(ctx, businessID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if verification != nil {
		return nil, models.NewAlreadyVerifiedError()
	}

	existing, err := s.applicationRepo.GetByPair(ctx, businessID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		observability.ApplicationsCreated.WithLabelValues("duplicate").Inc()
		return nil, models.NewDuplicatePendingError()
	}

	application := &models.WheelerVerificationApplication{
		BusinessID: businessID,
		WheelerID:  actor.UserID,
	}
	if err := s.applicationRepo.Create(ctx, application); err != nil {
		return nil, err
	}
	observability.ApplicationsCreated.WithLabelValues("created").Inc()

	// Admins hear about the new application, but a mailer outage never
	// rolls the application back.
	notifications.BestEffort(ctx, notifications.TemplateApplicationReceived,
		s.notifier.NotifyAdmins(ctx, notifications.TemplateApplicationReceived, map[string]any{
			"application_id": application.ID,
			"business_id":    businessID,
			"business_name":  business.Name,
			"wheeler_id":     actor.UserID,
		}))

	return application, nil
}

// Approve marks an application approved. Idempotent: approving an
// already-approved application is a no-op and sends no second notification.
// ApprovedAt is set exactly once, on the false->true transition.
func (s *ApplicationService) Approve(ctx context.Context, applicationID uint, actor models.Actor) (*models.WheelerVerificationApplication, error) {
	if !actor.Admin {
		return nil, models.NewForbiddenError("Only administrators can approve applications")
	}

	// Read-old, write-new: the prior state decides whether the one-time
	// notification fires.
	application, err := s.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if application.Approved {
		return application, nil
	}

	approvedAt := s.now()
	application.Approved = true
	application.ApprovedAt = &approvedAt
	if err := s.applicationRepo.Save(ctx, application); err != nil {
		return nil, err
	}
	observability.ApplicationsApproved.Inc()

	notifications.BestEffort(ctx, notifications.TemplateApplicationApproved,
		s.notifier.Notify(ctx, application.WheelerID, notifications.TemplateApplicationApproved, map[string]any{
			"application_id": application.ID,
			"business_id":    application.BusinessID,
			"submit_url":     submitURL(application.BusinessID),
		}))

	return application, nil
}

// Cancel deletes the caller's pending application for the business. Removing
// nothing is informational, not an error: the returned bool reports whether a
// pending application actually existed.
func (s *ApplicationService) Cancel(ctx context.Context, businessID uint, actor models.Actor) (bool, error) {
	if !actor.Wheeler {
		return false, models.NewNotWheelerError()
	}
	return s.applicationRepo.DeletePending(ctx, businessID, actor.UserID)
}

// ListPending returns applications awaiting review, for administrators.
func (s *ApplicationService) ListPending(ctx context.Context, actor models.Actor) ([]models.WheelerVerificationApplication, error) {
	if !actor.Admin {
		return nil, models.NewForbiddenError("Only administrators can list pending applications")
	}
	return s.applicationRepo.ListPending(ctx)
}

func submitURL(businessID uint) string {
	return "/businesses/" + strconv.FormatUint(uint64(businessID), 10) + "/verifications/new"
}
