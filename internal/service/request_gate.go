package service

import (
	"context"
	"strconv"

	"accessly/internal/models"
	"accessly/internal/observability"
	"accessly/internal/payments"
	"accessly/internal/repository"
)

// intentBusinessIDKey is the metadata key binding a payment intent to the
// business it was created for.
const intentBusinessIDKey = "business_id"

// RequestState is the routing outcome of a verification request.
type RequestState string

const (
	// RequestCompleted means the request was free and is recorded.
	RequestCompleted RequestState = "completed"
	// RequestPaymentRequired routes the owner to the payment checkout; no
	// ledger state has changed yet.
	RequestPaymentRequired RequestState = "payment_required"
)

// RequestOutcome is the tagged result of RequestVerification.
type RequestOutcome struct {
	State        RequestState `json:"state"`
	AmountCents  int64        `json:"amount_cents,omitempty"`
	Currency     string       `json:"currency,omitempty"`
	IntentID     string       `json:"intent_id,omitempty"`
	ClientSecret string       `json:"client_secret,omitempty"`
}

// RequestGateService decides, per verification request, whether payment is
// required and routes accordingly.
type RequestGateService struct {
	businessRepo repository.BusinessRepository
	gateway      payments.Gateway
	currency     string
}

// NewRequestGateService returns a new RequestGateService.
func NewRequestGateService(businessRepo repository.BusinessRepository, gateway payments.Gateway, currency string) *RequestGateService {
	return &RequestGateService{
		businessRepo: businessRepo,
		gateway:      gateway,
		currency:     currency,
	}
}

// RequestVerification records a verification request for a business. Free
// tiers complete immediately; paid tiers get a payment intent and no ledger
// change until the payment confirmation arrives. Idempotent for free tiers:
// re-requesting just re-asserts the flag.
func (s *RequestGateService) RequestVerification(ctx context.Context, businessID uint, actor models.Actor) (*RequestOutcome, error) {
	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if business.OwnerID != actor.UserID {
		return nil, models.NewForbiddenError("Only the business owner can request verification")
	}

	priceCents := ResolveVerificationPriceCents(business.MembershipTier)
	if priceCents == 0 {
		if err := s.businessRepo.MarkVerificationRequested(ctx, businessID); err != nil {
			return nil, err
		}
		observability.VerificationRequests.WithLabelValues(string(RequestCompleted)).Inc()
		return &RequestOutcome{State: RequestCompleted}, nil
	}

	intent, err := s.gateway.CreatePaymentIntent(ctx, priceCents, s.currency, map[string]string{
		intentBusinessIDKey: strconv.FormatUint(uint64(businessID), 10),
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	observability.VerificationRequests.WithLabelValues(string(RequestPaymentRequired)).Inc()
	return &RequestOutcome{
		State:        RequestPaymentRequired,
		AmountCents:  priceCents,
		Currency:     s.currency,
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
	}, nil
}

// ConfirmVerificationPayment is the payment-success callback path: it is the
// only other way verification_requested is set for a paid request. The
// gateway must report the intent as succeeded, the intent must have been
// created for this business, its amount must cover the price re-resolved at
// confirmation time, and it must not have been redeemed before. Payment
// genuinely gates this transition, unlike best-effort notifications.
func (s *RequestGateService) ConfirmVerificationPayment(ctx context.Context, businessID uint, intentID string) error {
	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return err
	}

	intent, err := s.gateway.RetrievePaymentIntent(ctx, intentID)
	if err != nil {
		return models.NewInternalError(err)
	}
	if intent.Status != payments.StatusSucceeded {
		return models.NewValidationError("Payment has not completed")
	}
	if intent.Metadata[intentBusinessIDKey] != strconv.FormatUint(uint64(businessID), 10) {
		return models.NewValidationError("Payment does not belong to this business")
	}
	if intent.AmountCents < ResolveVerificationPriceCents(business.MembershipTier) {
		return models.NewValidationError("Payment amount does not cover the verification price")
	}

	return s.businessRepo.ConfirmPaidVerificationRequest(ctx, businessID, intent.ID, intent.AmountCents)
}
