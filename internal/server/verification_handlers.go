package server

import (
	"accessly/internal/models"
	"accessly/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SubmitVerification handles POST /api/businesses/:id/verifications.
// The whole submission commits atomically; a validation failure leaves no
// trace in the ledger.
func (s *Server) SubmitVerification(c *fiber.Ctx) error {
	businessID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	actor, err := s.actor(c)
	if err != nil {
		return respondError(c, err)
	}

	var input service.SubmissionInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	verification, err := s.verificationService.SubmitVerification(c.UserContext(), businessID, actor, input)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(verification)
}

// ApproveVerification handles POST /api/verifications/:id/approve.
// Admin override; the Wheeler is notified only on the first false->true flip.
func (s *Server) ApproveVerification(c *fiber.Ctx) error {
	verificationID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	actor, err := s.actor(c)
	if err != nil {
		return respondError(c, err)
	}

	verification, err := s.verificationService.ApproveVerification(c.UserContext(), verificationID, actor)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(verification)
}

// ListBusinessVerifications handles GET /api/businesses/:id/verifications.
// Public: the verification history behind a business's verified badge,
// without Wheeler identities or evidence.
func (s *Server) ListBusinessVerifications(c *fiber.Ctx) error {
	businessID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	listing, err := s.reportService.ListBusinessVerifications(c.UserContext(), businessID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(listing)
}

// GetVerificationReport handles GET /api/verifications/:id/report.
// Visible to the submitting Wheeler, the business owner (with the Wheeler's
// identity redacted), and admins.
func (s *Server) GetVerificationReport(c *fiber.Ctx) error {
	verificationID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	actor, err := s.actor(c)
	if err != nil {
		return respondError(c, err)
	}

	report, err := s.reportService.ViewReport(c.UserContext(), verificationID, actor)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(report)
}
