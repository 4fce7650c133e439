package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness and readiness endpoints.
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler creates a new HealthHandler. db may be nil when the store
// could not be opened.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// RegisterRoutes registers the liveness routes.
func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleRoot)
	router.Get("/health", h.HandleHealth)
}

// HandleRoot answers with a plain-text liveness message.
func (h *HealthHandler) HandleRoot(c *fiber.Ctx) error {
	return c.SendString("Server is running")
}

// HandleHealth pings the store with a two second budget.
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	database := "connected"
	status := fiber.StatusOK
	if h.db == nil {
		database = "unavailable"
		status = fiber.StatusServiceUnavailable
	} else {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			database = "unreachable"
			status = fiber.StatusServiceUnavailable
		}
	}

	message := "healthy"
	if status != fiber.StatusOK {
		message = "unhealthy"
	}
	return respond(c, status, message, fiber.Map{
		"status":   message,
		"time":     time.Now().Format(time.RFC3339),
		"database": database,
	})
}
