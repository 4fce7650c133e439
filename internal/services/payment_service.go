package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"storefront/pkg/logger"

	"github.com/shopspring/decimal"
)

// PublicConfig is what the storefront needs to initialise the payment form.
type PublicConfig struct {
	PublishableKey string `json:"publishableKey"`
}

// PaymentService creates payment intents with the configured processor.
type PaymentService struct {
	gateway        PaymentGateway
	publishableKey string
	currency       string
	log            *logger.Logger
}

// NewPaymentService creates a new PaymentService. A nil gateway makes every
// intent fail with a ProcessorError.
func NewPaymentService(gateway PaymentGateway, publishableKey, currency string, log *logger.Logger) *PaymentService {
	if currency == "" {
		currency = "usd"
	}
	return &PaymentService{
		gateway:        gateway,
		publishableKey: publishableKey,
		currency:       strings.ToLower(currency),
		log:            log,
	}
}

// PublicConfig returns the publishable key.
func (s *PaymentService) PublicConfig() PublicConfig {
	return PublicConfig{PublishableKey: s.publishableKey}
}

// CreatePaymentIntent asks the processor for an intent of the given amount in
// minor units and returns its client secret.
func (s *PaymentService) CreatePaymentIntent(ctx context.Context, rawAmount any) (string, error) {
	amount, err := ParseAmount(rawAmount)
	if err != nil {
		return "", err
	}
	if s.gateway == nil {
		return "", &ProcessorError{Message: "payment processor is not configured"}
	}

	secret, err := s.gateway.CreatePaymentIntent(ctx, amount, s.currency)
	if err != nil {
		var procErr *ProcessorError
		if errors.As(err, &procErr) {
			return "", procErr
		}
		return "", &ProcessorError{Message: err.Error(), Err: err}
	}

	s.log.Info(s.log.WithField(ctx, "amount", amount), "payment intent created")
	return secret, nil
}

// ParseAmount accepts a JSON number or a numeric string and rounds it half
// away from zero to whole minor units. Zero, negative and non-numeric values
// are rejected with ErrInvalidAmount.
func ParseAmount(raw any) (int64, error) {
	var (
		value decimal.Decimal
		err   error
	)
	switch v := raw.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, ErrInvalidAmount
		}
		value = decimal.NewFromFloat(v)
	case int:
		value = decimal.NewFromInt(int64(v))
	case int64:
		value = decimal.NewFromInt(v)
	case json.Number:
		value, err = decimal.NewFromString(v.String())
	case string:
		value, err = decimal.NewFromString(strings.TrimSpace(v))
	default:
		return 0, ErrInvalidAmount
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, raw)
	}

	rounded := value.Round(0)
	if !rounded.IsPositive() || !rounded.LessThanOrEqual(decimal.NewFromInt(math.MaxInt64)) {
		return 0, ErrInvalidAmount
	}
	return rounded.IntPart(), nil
}
