package middleware

import (
	"time"

	"storefront/pkg/logger"
	"storefront/pkg/metrics"

	"github.com/gofiber/fiber/v2"
)

// RequestIDKey is the fiber.Locals key the requestid middleware stores under.
const RequestIDKey = "requestid"

// RequestLogger binds a logger carrying the request id to the request's user
// context. It must run after the requestid middleware.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		if id, ok := c.Locals(RequestIDKey).(string); ok && id != "" {
			ctx = log.WithRequestID(ctx, id)
		}
		ctx = log.WithField(ctx, "route", c.Method()+" "+c.Path())
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// Metrics records the count and latency of every request by matched route.
func Metrics(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		m.ObserveRequest(c.Method(), c.Route().Path, status, time.Since(start))
		return err
	}
}
