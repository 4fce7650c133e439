package handlers

import (
	"storefront/internal/services"
	"storefront/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ContactHandler handles contact form submissions.
type ContactHandler struct {
	service *services.ContactService
	log     *logger.Logger
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(service *services.ContactService, log *logger.Logger) *ContactHandler {
	return &ContactHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the contact form route.
func (h *ContactHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/message", h.HandleMessage)
}

// ContactRequest is the body of a contact form submission.
type ContactRequest struct {
	Email   string `json:"email"`
	Message string `json:"message"`
}

// HandleMessage stores a contact message; one per email.
func (h *ContactHandler) HandleMessage(c *fiber.Ctx) error {
	var req ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	if _, err := h.service.SubmitMessage(c.UserContext(), req.Email, req.Message); err != nil {
		return respondError(c, h.log, err, "Failed to send message")
	}
	return respond(c, fiber.StatusOK, "Message Sent successfully", nil)
}
