package handlers

import (
	"tienda/internal/services"

	"github.com/gofiber/fiber/v2"
)

// SeedHandler exposes the bulk-reset endpoint.
type SeedHandler struct {
	seedService *services.SeedService
}

// NewSeedHandler creates a new SeedHandler.
func NewSeedHandler(seedService *services.SeedService) *SeedHandler {
	return &SeedHandler{
		seedService: seedService,
	}
}

// RegisterRoutes registers the seed route with the Fiber app.
func (h *SeedHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/seed", h.HandleSeed)
}

// HandleSeed wipes the catalog and repopulates it with the seed dataset.
func (h *SeedHandler) HandleSeed(c *fiber.Ctx) error {
	if err := h.seedService.Run(); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Seed executed successfully",
	})
}
