package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(1500000), MinorUnits(15000, "idr"))
	assert.Equal(t, int64(1999), MinorUnits(19.99, "USD"))
	assert.Equal(t, int64(500), MinorUnits(500, "jpy"))
}

func TestNewGatewayWithoutKeyIsNoop(t *testing.T) {
	gw := NewGateway("", "idr")
	assert.IsType(t, Noop{}, gw)

	charge, err := gw.Charge(context.Background(), ChargeRequest{TransactionID: 1, Amount: 1000})
	require.NoError(t, err)
	assert.Empty(t, charge.Reference)
	assert.Equal(t, "manual", charge.Status)
	assert.NoError(t, gw.Cancel(context.Background(), charge.Reference))
}

func TestNewGatewayWithKeyIsStripe(t *testing.T) {
	gw := NewGateway("sk_test_123", "idr")
	assert.IsType(t, &StripeGateway{}, gw)
}
