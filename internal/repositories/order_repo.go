package repositories

import (
	"context"

	"storefront/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	// ListByUser returns the orders placed with the given user id, in storage order.
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
}
