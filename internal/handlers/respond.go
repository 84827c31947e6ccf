package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/clinicore/clinic-backend/internal/apperr"
	"github.com/clinicore/clinic-backend/internal/dto"
)

// respondError serializes an error in the taxonomy as {error, kind, message}.
// Errors outside the taxonomy are logged and hidden behind a generic 500.
func respondError(c *fiber.Ctx, err error) error {
	kind, ok := apperr.KindOf(err)
	if !ok {
		slog.Error("unhandled service error",
			"method", c.Method(),
			"path", c.Path(),
			"request_id", requestID(c),
			"error", err.Error(),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error:   true,
			Message: "internal server error",
		})
	}

	return c.Status(apperr.HTTPStatus(err)).JSON(dto.ErrorResponse{
		Error:   true,
		Kind:    string(kind),
		Message: err.Error(),
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error:   true,
		Kind:    string(apperr.KindValidation),
		Message: msg,
	})
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}
