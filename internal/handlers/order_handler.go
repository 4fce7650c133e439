package handlers

import (
	"storefront/internal/models"
	"storefront/internal/services"
	"storefront/pkg/logger"
	"storefront/pkg/metrics"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service *services.OrderService
	metrics *metrics.Metrics
	log     *logger.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, m *metrics.Metrics, log *logger.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		metrics: m,
		log:     log,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/orders", h.HandleCreateOrder)
	router.Get("/orders/:userId", h.HandleListOrders)
}

// HandleCreateOrder creates a new order.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var orderRequest models.Order
	if err := c.BodyParser(&orderRequest); err != nil {
		return badBody(c)
	}

	order, err := h.service.CreateOrder(c.UserContext(), orderRequest)
	if err != nil {
		return respondError(c, h.log, err, "Failed to place order")
	}

	h.metrics.OrderCreated()
	return respond(c, fiber.StatusOK, "Order placed successfully", fiber.Map{"order": order})
}

// HandleListOrders returns the user's orders as a bare JSON array.
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListOrdersForUser(c.UserContext(), c.Params("userId"))
	if err != nil {
		h.log.Error(c.UserContext(), "failed to fetch orders", err)
		return respond(c, fiber.StatusInternalServerError, "Failed to fetch orders", nil)
	}
	return c.JSON(orders)
}
