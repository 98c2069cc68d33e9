package api

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/flowbit/internal/services"
)

func (handler *Handler) respondAuthError(c *fiber.Ctx, err error) error {
	var validation *services.ValidationError
	var locked *services.LockedOutError

	switch {
	case errors.As(err, &validation):
		return apiErrorWith(c, fiber.StatusBadRequest, "error.validation", fiber.Map{
			"fields": localizedFieldErrors(c, validation.Fields),
		})
	case errors.Is(err, services.ErrConflict):
		return apiError(c, fiber.StatusConflict, "error.conflict")
	case errors.As(err, &locked):
		c.Set("Retry-After", strconv.FormatInt(locked.RemainingSeconds(), 10))
		return c.Status(fiber.StatusLocked).JSON(fiber.Map{
			"ok":                false,
			"code":              "locked_out",
			"error":             localized(c, "error.locked_out", locked.RemainingSeconds()),
			"remaining_ms":      locked.RemainingMillis(),
			"remaining_seconds": locked.RemainingSeconds(),
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		return apiError(c, fiber.StatusUnauthorized, "error.invalid_credentials")
	case errors.Is(err, services.ErrAccountNotFound):
		return apiError(c, fiber.StatusNotFound, "error.account_not_found")
	default:
		handler.logger.ErrorContext(c.UserContext(), "request failed",
			"path", c.Path(),
			"request_id", requestID(c),
			"error", err,
		)
		return apiError(c, fiber.StatusInternalServerError, "error.store")
	}
}

func localizedFieldErrors(c *fiber.Ctx, fields []services.FieldError) []services.FieldError {
	result := make([]services.FieldError, 0, len(fields))
	for _, field := range fields {
		key := "validation." + field.Code
		if message := localized(c, key); message != key {
			field.Message = message
		}
		result = append(result, field)
	}
	return result
}
