package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"ok":        true,
		"status":    "ok",
		"timestamp": handler.now().UTC().Format(time.RFC3339),
	})
}

func (handler *Handler) NotFound(c *fiber.Ctx) error {
	return apiError(c, fiber.StatusNotFound, "error.route_not_found")
}

// requestID returns the id assigned by the requestid middleware, if any.
func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}

// ErrorHandler renders errors that escape the handlers, including recovered
// panics, as JSON.
func (handler *Handler) ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		if fiberErr.Code == fiber.StatusNotFound {
			return apiError(c, fiber.StatusNotFound, "error.route_not_found")
		}
		return c.Status(fiberErr.Code).JSON(fiber.Map{"ok": false, "error": fiberErr.Message})
	}

	handler.logger.ErrorContext(c.UserContext(), "unhandled request error",
		"path", c.Path(),
		"request_id", requestID(c),
		"error", err,
	)
	return apiError(c, fiber.StatusInternalServerError, "error.store")
}
