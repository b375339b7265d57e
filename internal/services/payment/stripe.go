package payment

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"
)

// StripeGateway creates a PaymentIntent per card payment.
type StripeGateway struct {
	api      *client.API
	currency string
}

func NewStripeGateway(secretKey, currency string) *StripeGateway {
	return &StripeGateway{
		api:      client.New(secretKey, nil),
		currency: currency,
	}
}

// NewGateway returns a Stripe gateway when a key is configured, otherwise
// a Noop gateway.
func NewGateway(secretKey, currency string) Gateway {
	if secretKey == "" {
		log.Println("STRIPE_SECRET_KEY not set, card payments are verified manually")
		return Noop{}
	}
	return NewStripeGateway(secretKey, currency)
}

func (g *StripeGateway) Charge(ctx context.Context, req ChargeRequest) (*Charge, error) {
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(MinorUnits(req.Amount, g.currency)),
		Currency:    stripe.String(g.currency),
		Description: stripe.String(req.Description),
	}
	params.Context = ctx
	params.AddMetadata("transaction_id", strconv.FormatUint(uint64(req.TransactionID), 10))

	intent, err := g.api.PaymentIntents.New(params)
	if err != nil {
		log.Printf("Stripe payment intent failed for transaction %d: %v", req.TransactionID, err)
		return nil, fmt.Errorf("stripe payment intent failed: %w", err)
	}
	return &Charge{Reference: intent.ID, Status: string(intent.Status)}, nil
}

func (g *StripeGateway) Cancel(ctx context.Context, reference string) error {
	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx
	if _, err := g.api.PaymentIntents.Cancel(reference, params); err != nil {
		return fmt.Errorf("stripe cancel %s failed: %w", reference, err)
	}
	log.Printf("Stripe payment intent %s cancelled", reference)
	return nil
}
