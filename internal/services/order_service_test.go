package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validOrder() models.Order {
	return models.Order{
		User:     "user-1",
		Username: "Ada",
		OrderItems: []models.OrderItem{
			{Name: "Oak table", Qty: 2, Image: "table.png", Price: 100, Product: "prod-1"},
			{Name: "Chair", Qty: 1, Image: "chair.png", Price: 40.5, Product: "prod-2"},
		},
		ShippingAddress: models.ShippingAddress{
			Name:                "Ada",
			PhoneNumber:         "0123",
			Address:             "1 Loom St",
			City:                "Leeds",
			PostalCode:          "LS1",
			Country:             "UK",
			SpecialInstructions: "Leave at door",
		},
		ShippingPrice: 9.5,
		TotalPrice:    250,
	}
}

func TestOrderService_CreateOrderForcesUnpaidUndelivered(t *testing.T) {
	ctx := context.Background()
	orderRepo := new(MockOrderRepository)
	publisher := new(MockPublisher)
	service := services.NewOrderService(orderRepo, new(MockProductRepository), publisher, services.PricingClient, logger.Nop())

	paidAt := time.Now()
	req := validOrder()
	req.ID = "client-chosen"
	req.IsPaid = true
	req.PaidAt = &paidAt
	req.IsDelivered = true
	req.DeliveredAt = &paidAt
	req.PaymentResult = &models.PaymentResult{ID: "pay-1", Status: "COMPLETED"}

	orderRepo.On("Create", ctx, mock.AnythingOfType("*models.Order")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.Order).ID = "order-1"
		}).
		Return(nil).Once()
	publisher.On("Publish", mock.Anything, services.OrderCreatedRoutingKey, mock.AnythingOfType("services.OrderCreatedEvent")).
		Return(nil).Once()

	order, err := service.CreateOrder(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, "order-1", order.ID)
	assert.False(t, order.IsPaid)
	assert.Nil(t, order.PaidAt)
	assert.False(t, order.IsDelivered)
	assert.Nil(t, order.DeliveredAt)
	assert.Nil(t, order.PaymentResult)
	assert.Equal(t, models.DefaultPaymentMethod, order.PaymentMethod)
	assert.Equal(t, models.DefaultOrderStatus, order.OrderStatus)
	assert.Equal(t, 250.0, order.TotalPrice)
	assert.False(t, order.CreatedAt.IsZero())
	assert.Equal(t, order.CreatedAt, order.UpdatedAt)

	orderRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestOrderService_CreateOrderKeepsSuppliedMethodAndStatus(t *testing.T) {
	ctx := context.Background()
	orderRepo := new(MockOrderRepository)
	service := services.NewOrderService(orderRepo, nil, nil, services.PricingClient, logger.Nop())

	req := validOrder()
	req.PaymentMethod = "Stripe"
	req.OrderStatus = "Processing"
	orderRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

	order, err := service.CreateOrder(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "Stripe", order.PaymentMethod)
	assert.Equal(t, "Processing", order.OrderStatus)
}

func TestOrderService_CreateOrderValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(o *models.Order)
		field  string
	}{
		{name: "missing user", mutate: func(o *models.Order) { o.User = "" }, field: "user"},
		{name: "missing username", mutate: func(o *models.Order) { o.Username = "" }, field: "username"},
		{name: "item without image", mutate: func(o *models.Order) { o.OrderItems[1].Image = "" }, field: "orderItems[1].image"},
		{name: "item without product", mutate: func(o *models.Order) { o.OrderItems[0].Product = "" }, field: "orderItems[0].product"},
		{name: "missing city", mutate: func(o *models.Order) { o.ShippingAddress.City = "" }, field: "shippingAddress.city"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orderRepo := new(MockOrderRepository)
			service := services.NewOrderService(orderRepo, nil, nil, services.PricingClient, logger.Nop())

			req := validOrder()
			tt.mutate(&req)
			_, err := service.CreateOrder(context.Background(), req)

			var validationErr *services.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Contains(t, validationErr.Fields, tt.field)
			orderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestOrderService_PublishFailureDoesNotFailOrder(t *testing.T) {
	ctx := context.Background()
	orderRepo := new(MockOrderRepository)
	publisher := new(MockPublisher)
	service := services.NewOrderService(orderRepo, nil, publisher, services.PricingClient, logger.Nop())

	orderRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
	publisher.On("Publish", mock.Anything, services.OrderCreatedRoutingKey, mock.Anything).
		Return(errors.New("broker down")).Once()

	_, err := service.CreateOrder(ctx, validOrder())
	assert.NoError(t, err)
}

func TestOrderService_CatalogPricing(t *testing.T) {
	ctx := context.Background()
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	service := services.NewOrderService(orderRepo, productRepo, nil, services.PricingCatalog, logger.Nop())

	productRepo.On("GetByID", ctx, "prod-1").Return(&models.Product{ID: "prod-1", PricePound: "£12.25"}, nil).Once()
	productRepo.On("GetByID", ctx, "prod-2").Return(&models.Product{ID: "prod-2", PricePound: "3.10"}, nil).Once()
	orderRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

	order, err := service.CreateOrder(ctx, validOrder())
	require.NoError(t, err)

	assert.Equal(t, 12.25, order.OrderItems[0].Price)
	assert.Equal(t, 3.10, order.OrderItems[1].Price)
	// 2*12.25 + 1*3.10 + 9.5 shipping
	assert.Equal(t, 37.1, order.TotalPrice)
}

func TestOrderService_CatalogPricingFailures(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		setup func(p *MockProductRepository)
	}{
		{
			name: "unknown product",
			setup: func(p *MockProductRepository) {
				p.On("GetByID", ctx, "prod-1").Return(nil, repositories.ErrNotFound).Once()
			},
		},
		{
			name: "unparsable price",
			setup: func(p *MockProductRepository) {
				p.On("GetByID", ctx, "prod-1").Return(&models.Product{PricePound: "call us"}, nil).Once()
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orderRepo := new(MockOrderRepository)
			productRepo := new(MockProductRepository)
			tt.setup(productRepo)
			service := services.NewOrderService(orderRepo, productRepo, nil, services.PricingCatalog, logger.Nop())

			_, err := service.CreateOrder(ctx, validOrder())
			assert.ErrorIs(t, err, services.ErrPricing)
			orderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestOrderService_ListOrdersForUser(t *testing.T) {
	ctx := context.Background()
	orderRepo := new(MockOrderRepository)
	service := services.NewOrderService(orderRepo, nil, nil, services.PricingClient, logger.Nop())

	expected := []models.Order{{ID: "o1", User: "user-1"}, {ID: "o2", User: "user-1"}}
	orderRepo.On("ListByUser", ctx, "user-1").Return(expected, nil).Once()

	orders, err := service.ListOrdersForUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, expected, orders)
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "12.50", want: "12.5"},
		{in: "£ 7", want: "7"},
		{in: "$3.99 ", want: "3.99"},
		{in: "", wantErr: true},
		{in: "twelve", wantErr: true},
		{in: "-1", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := services.ParsePrice(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}
