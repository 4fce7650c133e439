package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// DatabaseRequired answers 503 for every request while ready reports false,
// so data routes fail fast when the store could not be opened.
func DatabaseRequired(ready func() bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !ready() {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"message": "Database unavailable",
				"alert":   false,
			})
		}
		return c.Next()
	}
}
