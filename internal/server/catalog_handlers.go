package server

import (
	"github.com/gofiber/fiber/v2"
)

// ListAccessibilityFeatures handles GET /api/catalog/features.
func (s *Server) ListAccessibilityFeatures(c *fiber.Ctx) error {
	features, err := s.catalogRepo.ListFeatures(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(features)
}

// ListMobilityDevices handles GET /api/catalog/devices.
func (s *Server) ListMobilityDevices(c *fiber.Ctx) error {
	devices, err := s.catalogRepo.ListDevices(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(devices)
}
