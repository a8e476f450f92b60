package handlers

import (
	"errors"

	"fit-competition-system/services"

	"github.com/gofiber/fiber/v2"
)

// serviceError maps engine sentinels to HTTP responses. Anything unmapped is
// a 500 with the cause attached, matching the service's existing JSON shape.
func serviceError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case services.IsNotFound(err):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrInvalidRange):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrChallengeInactive),
		errors.Is(err, services.ErrConcurrencyConflict),
		errors.Is(err, services.ErrConstraintViolation),
		errors.Is(err, services.ErrDuplicateSubmission):
		status = fiber.StatusConflict
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
