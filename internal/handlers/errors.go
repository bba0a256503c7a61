package handlers

import (
	"errors"

	"gerai/internal/repositories"
	"gerai/internal/services"

	"github.com/gofiber/fiber/v2"
)

// statusForError maps service and repository errors onto HTTP statuses.
// Handlers never match on error strings; the error types carry the intent.
func statusForError(err error) (int, string) {
	var validationErr *services.ValidationError
	var stockErr *services.InsufficientStockError

	switch {
	case errors.As(err, &validationErr):
		return fiber.StatusBadRequest, validationErr.Message
	case errors.As(err, &stockErr):
		return fiber.StatusBadRequest, stockErr.Error()
	case errors.Is(err, services.ErrInvalidAddress):
		return fiber.StatusBadRequest, "Invalid shipping address"
	case errors.Is(err, services.ErrInvalidTransition):
		return fiber.StatusConflict, "Requested status change is not allowed"
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden, "Not allowed"
	case errors.Is(err, repositories.ErrNotFound):
		return fiber.StatusNotFound, "Resource not found"
	default:
		return fiber.StatusInternalServerError, "Internal server error"
	}
}

// respondError writes the standard error envelope for a service error.
func respondError(c *fiber.Ctx, err error) error {
	status, message := statusForError(err)
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

// currentUserID returns the authenticated user ID set by the JWT middleware.
func currentUserID(c *fiber.Ctx) string {
	if id, ok := c.Locals("user_id").(string); ok {
		return id
	}
	return ""
}
