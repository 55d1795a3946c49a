package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/pixbooth/pixbooth-backend/internal/models"
)

// statusFromError maps the service error taxonomy to HTTP status codes.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, models.ErrPermission):
		return fiber.StatusForbidden
	case errors.Is(err, models.ErrPrecondition):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, models.ErrConflict):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

// fail writes the error response. Internal failures get a generic message
// so storage and database details never leak to clients.
func fail(c *fiber.Ctx, err error) error {
	status := statusFromError(err)
	message := err.Error()
	if status == fiber.StatusInternalServerError {
		message = "something went wrong"
	}
	return c.Status(status).JSON(models.ErrorResponse(message))
}
