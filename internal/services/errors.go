package services

import (
	"context"
	"errors"
	"strings"
)

// Errors returned by the services. Handlers map them to HTTP statuses.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidAmount      = errors.New("amount must be a positive number")
	ErrDuplicateMessage   = errors.New("a message from this email already exists")
	ErrProductNotFound    = errors.New("product not found")
	ErrPricing            = errors.New("order could not be priced from the catalog")
)

// ValidationError lists the request fields that are missing or malformed.
type ValidationError struct {
	Fields []string
}

// Error lists the offending fields.
func (e *ValidationError) Error() string {
	return "invalid fields: " + strings.Join(e.Fields, ", ")
}

// ProcessorError is a rejection reported by the payment processor. Message is
// safe to show to the client.
type ProcessorError struct {
	Message string
	Err     error
}

// Error implements error.
func (e *ProcessorError) Error() string {
	return "payment processor: " + e.Message
}

// Unwrap returns the underlying processor error.
func (e *ProcessorError) Unwrap() error {
	return e.Err
}

// EventPublisher delivers domain events to a message broker.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// PaymentGateway creates payment intents with an external processor and
// returns the client secret.
type PaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, amount int64, currency string) (string, error)
}
