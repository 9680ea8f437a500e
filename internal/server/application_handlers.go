package server

import (
	"github.com/gofiber/fiber/v2"
)

// CreateApplication handles POST /api/businesses/:id/applications.
// The authenticated Wheeler asks for permission to verify the business.
func (s *Server) CreateApplication(c *fiber.Ctx) error {
	businessID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	actor, err := s.actor(c)
	if err != nil {
		return respondError(c, err)
	}

	application, err := s.applicationService.Apply(c.UserContext(), businessID, actor)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(application)
}

// CancelApplication handles DELETE /api/businesses/:id/applications.
// Cancelling is informational: the response reports whether a pending
// application was actually removed.
func (s *Server) CancelApplication(c *fiber.Ctx) error {
	businessID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	actor, err := s.actor(c)
	if err != nil {
		return respondError(c, err)
	}

	removed, err := s.applicationService.Cancel(c.UserContext(), businessID, actor)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"removed": removed,
	})
}

// ApproveApplication handles POST /api/applications/:id/approve.
// Admin only; approving an already-approved application is a no-op.
func (s *Server) ApproveApplication(c *fiber.Ctx) error {
	applicationID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	actor, err := s.actor(c)
	if err != nil {
		return respondError(c, err)
	}

	application, err := s.applicationService.Approve(c.UserContext(), applicationID, actor)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(application)
}

// ListPendingApplications handles GET /api/applications/pending. Admin only.
func (s *Server) ListPendingApplications(c *fiber.Ctx) error {
	actor, err := s.actor(c)
	if err != nil {
		return respondError(c, err)
	}

	applications, err := s.applicationService.ListPending(c.UserContext(), actor)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(applications)
}
