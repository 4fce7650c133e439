package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// PricingMode decides who is trusted with order prices.
type PricingMode string

const (
	// PricingClient stores the prices and total the caller sent.
	PricingClient PricingMode = "client"
	// PricingCatalog reprices every item from the product catalog and
	// recomputes the total.
	PricingCatalog PricingMode = "catalog"
)

// OrderCreatedRoutingKey is published after an order is stored.
const OrderCreatedRoutingKey = "order.created"

// OrderCreatedEvent is the payload of an order.created event.
type OrderCreatedEvent struct {
	OrderID    string    `json:"orderId"`
	User       string    `json:"user"`
	Items      int       `json:"items"`
	TotalPrice float64   `json:"totalPrice"`
	CreatedAt  time.Time `json:"createdAt"`
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	publisher   EventPublisher
	pricing     PricingMode
	validate    *validator.Validate
	log         *logger.Logger
	now         func() time.Time
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, publisher EventPublisher, pricing PricingMode, log *logger.Logger) *OrderService {
	if pricing == "" {
		pricing = PricingClient
	}
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		publisher:   publisher,
		pricing:     pricing,
		validate:    newValidator(),
		log:         log,
		now:         time.Now,
	}
}

// CreateOrder validates and stores a new order. Payment and delivery state
// always start cleared, whatever the caller sent.
func (s *OrderService) CreateOrder(ctx context.Context, req models.Order) (*models.Order, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	order := req
	order.ID = ""
	order.OrderItems = append([]models.OrderItem{}, req.OrderItems...)
	if order.PaymentMethod == "" {
		order.PaymentMethod = models.DefaultPaymentMethod
	}
	if order.OrderStatus == "" {
		order.OrderStatus = models.DefaultOrderStatus
	}
	order.IsPaid = false
	order.PaidAt = nil
	order.IsDelivered = false
	order.DeliveredAt = nil
	order.PaymentResult = nil

	if s.pricing == PricingCatalog {
		if err := s.priceFromCatalog(ctx, &order); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now

	if err := s.orderRepo.Create(ctx, &order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	ctx = s.log.WithField(ctx, "order_id", order.ID)
	s.log.Info(ctx, "order placed")
	s.publish(ctx, OrderCreatedRoutingKey, OrderCreatedEvent{
		OrderID:    order.ID,
		User:       order.User,
		Items:      len(order.OrderItems),
		TotalPrice: order.TotalPrice,
		CreatedAt:  order.CreatedAt,
	})
	return &order, nil
}

// ListOrdersForUser returns every order placed with userID. The user is not
// required to exist.
func (s *OrderService) ListOrdersForUser(ctx context.Context, userID string) ([]models.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for user %s: %w", userID, err)
	}
	return orders, nil
}

// priceFromCatalog replaces item prices with the catalog price and sets the
// total to the item sum plus shipping, rounded to two places.
func (s *OrderService) priceFromCatalog(ctx context.Context, order *models.Order) error {
	total := decimal.NewFromFloat(order.ShippingPrice)
	for i := range order.OrderItems {
		item := &order.OrderItems[i]
		if item.Qty <= 0 {
			return fmt.Errorf("%w: item %q has quantity %d", ErrPricing, item.Product, item.Qty)
		}

		product, err := s.productRepo.GetByID(ctx, item.Product)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return fmt.Errorf("%w: product %q not in catalog", ErrPricing, item.Product)
			}
			return fmt.Errorf("failed to load product %s: %w", item.Product, err)
		}

		price, err := ParsePrice(product.PricePound)
		if err != nil {
			return fmt.Errorf("%w: product %q: %v", ErrPricing, item.Product, err)
		}
		item.Price = price.InexactFloat64()
		total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Qty))))
	}
	order.TotalPrice = total.Round(2).InexactFloat64()
	return nil
}

// ParsePrice reads a catalog price such as "12.50", "£12.50" or "$ 3".
func ParsePrice(text string) (decimal.Decimal, error) {
	cleaned := strings.Trim(strings.TrimSpace(text), "£$ ")
	if cleaned == "" {
		return decimal.Zero, errors.New("price is empty")
	}
	price, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q", text)
	}
	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative price %q", text)
	}
	return price, nil
}

func (s *OrderService) publish(ctx context.Context, routingKey string, payload any) {
	publishEvent(ctx, s.log, s.publisher, routingKey, payload)
}

// publishEvent never fails the caller; delivery errors are logged.
func publishEvent(ctx context.Context, log *logger.Logger, publisher EventPublisher, routingKey string, payload any) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, routingKey, payload); err != nil {
		log.Warn(log.WithField(ctx, "routing_key", routingKey), "failed to publish event", err)
	}
}
