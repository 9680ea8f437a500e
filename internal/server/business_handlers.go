package server

import (
	"strings"

	"accessly/internal/models"
	"accessly/internal/service"

	"github.com/gofiber/fiber/v2"
)

// RequestVerification handles POST /api/businesses/:id/verification-request.
// Only the business owner can request verification. Depending on the
// business's membership tier the request either completes immediately (free)
// or returns a payment intent the client must settle first.
func (s *Server) RequestVerification(c *fiber.Ctx) error {
	businessID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	actor, err := s.actor(c)
	if err != nil {
		return respondError(c, err)
	}

	outcome, err := s.requestGate.RequestVerification(c.UserContext(), businessID, actor)
	if err != nil {
		return respondError(c, err)
	}

	status := fiber.StatusOK
	if outcome.State == service.RequestPaymentRequired {
		// 402 signals the client to run the payment flow before retrying.
		status = fiber.StatusPaymentRequired
	}
	return c.Status(status).JSON(outcome)
}

// ConfirmVerificationPaymentRequest is the payment callback payload.
type ConfirmVerificationPaymentRequest struct {
	BusinessID uint   `json:"business_id"`
	IntentID   string `json:"intent_id"`
}

// ConfirmVerificationPayment handles POST /api/payments/verification/callback.
// The gateway must report the referenced intent as succeeded, issued for this
// business, and covering the current price; an intent is redeemable once.
func (s *Server) ConfirmVerificationPayment(c *fiber.Ctx) error {
	var req ConfirmVerificationPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.BusinessID == 0 || strings.TrimSpace(req.IntentID) == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("business_id and intent_id are required"))
	}

	if err := s.requestGate.ConfirmVerificationPayment(c.UserContext(), req.BusinessID, req.IntentID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Verification request recorded",
	})
}
