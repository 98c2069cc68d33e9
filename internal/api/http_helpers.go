package api

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

func translateMessage(messages map[string]string, key string) string {
	if value, ok := messages[key]; ok && strings.TrimSpace(value) != "" {
		return value
	}
	return key
}

func localized(c *fiber.Ctx, key string, args ...any) string {
	message := translateMessage(currentMessages(c), key)
	if len(args) == 0 {
		return message
	}
	return fmt.Sprintf(message, args...)
}

func apiError(c *fiber.Ctx, status int, key string, args ...any) error {
	return c.Status(status).JSON(fiber.Map{
		"ok":    false,
		"code":  strings.TrimPrefix(key, "error."),
		"error": localized(c, key, args...),
	})
}

func apiErrorWith(c *fiber.Ctx, status int, key string, extra fiber.Map) error {
	payload := fiber.Map{
		"ok":    false,
		"code":  strings.TrimPrefix(key, "error."),
		"error": localized(c, key),
	}
	for field, value := range extra {
		payload[field] = value
	}
	return c.Status(status).JSON(payload)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
