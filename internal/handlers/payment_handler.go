package handlers

import (
	"errors"

	"storefront/internal/services"
	"storefront/pkg/logger"
	"storefront/pkg/metrics"

	"github.com/gofiber/fiber/v2"
)

// PaymentHandler exposes the processor configuration and intent creation.
type PaymentHandler struct {
	service *services.PaymentService
	metrics *metrics.Metrics
	log     *logger.Logger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(service *services.PaymentService, m *metrics.Metrics, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		metrics: m,
		log:     log,
	}
}

// RegisterRoutes registers the payment routes with the Fiber app.
func (h *PaymentHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/config", h.HandleConfig)
	router.Post("/create-payment-intent", h.HandleCreatePaymentIntent)
}

// HandleConfig returns the publishable key for the client.
func (h *PaymentHandler) HandleConfig(c *fiber.Ctx) error {
	cfg := h.service.PublicConfig()
	return respond(c, fiber.StatusOK, "Payment configuration", fiber.Map{
		"publishableKey": cfg.PublishableKey,
	})
}

// PaymentIntentRequest carries the amount in minor units, as a number or a
// numeric string.
type PaymentIntentRequest struct {
	Amount any `json:"amount"`
}

// HandleCreatePaymentIntent returns the client secret of a new intent. Every
// failure is a 400 whose error.message is safe to show to the shopper.
func (h *PaymentHandler) HandleCreatePaymentIntent(c *fiber.Ctx) error {
	var req PaymentIntentRequest
	if err := c.BodyParser(&req); err != nil {
		return h.paymentError(c, "Invalid request body")
	}

	secret, err := h.service.CreatePaymentIntent(c.UserContext(), req.Amount)
	if err != nil {
		var procErr *services.ProcessorError
		switch {
		case errors.Is(err, services.ErrInvalidAmount):
			h.metrics.PaymentIntent("invalid_amount")
			return h.paymentError(c, "Amount must be a positive number")
		case errors.As(err, &procErr):
			h.metrics.PaymentIntent("rejected")
			h.log.Warn(c.UserContext(), "payment intent rejected", err)
			return h.paymentError(c, procErr.Message)
		}
		h.metrics.PaymentIntent("error")
		h.log.Error(c.UserContext(), "payment intent failed", err)
		return h.paymentError(c, "Payment could not be processed")
	}

	h.metrics.PaymentIntent("created")
	return respond(c, fiber.StatusOK, "Payment intent created", fiber.Map{
		"clientSecret": secret,
	})
}

func (h *PaymentHandler) paymentError(c *fiber.Ctx, message string) error {
	return respond(c, fiber.StatusBadRequest, message, fiber.Map{
		"error": fiber.Map{"message": message},
	})
}
