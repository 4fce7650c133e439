package models

import "time"

const (
	DefaultPaymentMethod = "Paypal"
	DefaultOrderStatus   = "Pending"
)

// OrderItem is a denormalized snapshot of a cart line at checkout time.
type OrderItem struct {
	Name    string  `json:"name" bson:"name" validate:"required"`
	Qty     int     `json:"qty" bson:"qty"`
	Image   string  `json:"image" bson:"image" validate:"required"`
	Price   float64 `json:"price" bson:"price"`
	Product string  `json:"product" bson:"product" validate:"required"` // product id
}

// ShippingAddress is where an order is delivered.
type ShippingAddress struct {
	Name                string `json:"name" bson:"name" validate:"required"`
	PhoneNumber         string `json:"phoneNumber" bson:"phoneNumber" validate:"required"`
	Address             string `json:"address" bson:"address" validate:"required"`
	City                string `json:"city" bson:"city" validate:"required"`
	PostalCode          string `json:"postalCode" bson:"postalCode" validate:"required"`
	Country             string `json:"country" bson:"country" validate:"required"`
	SpecialInstructions string `json:"specialInstructions" bson:"specialInstructions" validate:"required"`
}

// PaymentResult records what the payment provider reported for an order.
type PaymentResult struct {
	ID           string `json:"id,omitempty" bson:"id,omitempty"`
	Status       string `json:"status,omitempty" bson:"status,omitempty"`
	UpdateTime   string `json:"update_time,omitempty" bson:"update_time,omitempty"`
	EmailAddress string `json:"email_address,omitempty" bson:"email_address,omitempty"`
}

// Order represents a placed customer order.
type Order struct {
	ID              string          `json:"_id" bson:"_id" gorm:"primaryKey;type:varchar(36)"`
	User            string          `json:"user" bson:"user" gorm:"column:user_id;index;not null" validate:"required"`
	Username        string          `json:"username" bson:"username" gorm:"not null" validate:"required"`
	OrderItems      []OrderItem     `json:"orderItems" bson:"orderItems" gorm:"type:text;serializer:json" validate:"dive"`
	ShippingAddress ShippingAddress `json:"shippingAddress" bson:"shippingAddress" gorm:"type:text;serializer:json"`
	PaymentMethod   string          `json:"paymentMethod" bson:"paymentMethod" gorm:"not null"`
	PaymentResult   *PaymentResult  `json:"paymentResult,omitempty" bson:"paymentResult,omitempty" gorm:"type:text;serializer:json"`
	ShippingPrice   float64         `json:"shippingPrice" bson:"shippingPrice"`
	TotalPrice      float64         `json:"totalPrice" bson:"totalPrice"`
	OrderStatus     string          `json:"orderStatus" bson:"orderStatus" gorm:"not null"`
	IsPaid          bool            `json:"isPaid" bson:"isPaid"`
	PaidAt          *time.Time      `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
	IsDelivered     bool            `json:"isDelivered" bson:"isDelivered"`
	DeliveredAt     *time.Time      `json:"deliveredAt,omitempty" bson:"deliveredAt,omitempty"`
	CreatedAt       time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt" bson:"updatedAt"`
}
