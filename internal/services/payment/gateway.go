// Package payment creates gateway-side payment records for card payments.
package payment

import (
	"context"
	"strings"
)

// ChargeRequest describes the amount a recycler owes for one booking.
type ChargeRequest struct {
	TransactionID uint
	Amount        float64
	Description   string
}

// Charge is the gateway's record of a payment attempt.
type Charge struct {
	Reference string
	Status    string
}

// Gateway registers card payments with an external processor.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*Charge, error)
	// Cancel voids a charge whose transaction was never recorded.
	Cancel(ctx context.Context, reference string) error
}

// Noop accepts every charge without contacting a processor. The producer
// verifies such payments by hand.
type Noop struct{}

func (Noop) Charge(ctx context.Context, req ChargeRequest) (*Charge, error) {
	return &Charge{Status: "manual"}, nil
}

func (Noop) Cancel(ctx context.Context, reference string) error { return nil }

// zeroDecimal lists currencies Stripe expects in whole units.
var zeroDecimal = map[string]bool{
	"bif": true, "clp": true, "djf": true, "gnf": true, "jpy": true,
	"kmf": true, "krw": true, "mga": true, "pyg": true, "rwf": true,
	"ugx": true, "vnd": true, "vuv": true, "xaf": true, "xof": true,
	"xpf": true,
}

// MinorUnits converts amount into the smallest unit of currency.
func MinorUnits(amount float64, currency string) int64 {
	if zeroDecimal[strings.ToLower(currency)] {
		return int64(amount + 0.5)
	}
	return int64(amount*100 + 0.5)
}
