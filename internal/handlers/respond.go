package handlers

import (
	"log"

	"tienda/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

// statusForKind maps stable error kinds to HTTP statuses.
func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindForbidden:
		return fiber.StatusForbidden
	case apperr.KindConflict:
		return fiber.StatusConflict
	case apperr.KindInvalid:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes a structured error response with a stable kind and a
// human-readable message. Internal causes are logged, not leaked.
func respondError(c *fiber.Ctx, err error) error {
	kind := apperr.KindOf(err)
	message := err.Error()
	if kind == apperr.KindInternal {
		log.Printf("Internal error on %s %s: %v", c.Method(), c.Path(), err)
		message = "something went wrong"
	}
	return c.Status(statusForKind(kind)).JSON(fiber.Map{
		"message": message,
		"error":   string(kind),
	})
}
