// Package payments adapts the Stripe API to the services.PaymentGateway
// interface.
package payments

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/services"

	"github.com/stripe/stripe-go/v84"
)

var errSecretKeyRequired = errors.New("stripe secret key is required")

// StripeGateway creates PaymentIntents through Stripe's v1 API.
type StripeGateway struct {
	api *stripe.Client
}

// NewStripeGateway builds a gateway for secretKey. backends may be nil to use
// Stripe's production endpoints.
func NewStripeGateway(secretKey string, backends *stripe.Backends) (*StripeGateway, error) {
	secretKey = strings.TrimSpace(secretKey)
	if secretKey == "" {
		return nil, errSecretKeyRequired
	}

	var opts []stripe.ClientOption
	if backends != nil {
		opts = append(opts, stripe.WithBackends(backends))
	}
	return &StripeGateway{api: stripe.NewClient(secretKey, opts...)}, nil
}

// CreatePaymentIntent creates an intent with automatic payment methods and
// returns its client secret. Stripe rejections become *services.ProcessorError
// carrying Stripe's human readable message.
func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, amount int64, currency string) (string, error) {
	params := &stripe.PaymentIntentCreateParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentCreateAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}

	intent, err := g.api.V1PaymentIntents.Create(ctx, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
			return "", &services.ProcessorError{Message: stripeErr.Msg, Err: err}
		}
		return "", &services.ProcessorError{Message: "payment processor request failed", Err: err}
	}
	return intent.ClientSecret, nil
}
