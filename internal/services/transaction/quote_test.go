package transaction

import (
	"testing"

	"lumbung/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coord(v float64) *float64 { return &v }

func TestQuotePickup(t *testing.T) {
	w := &models.Waste{Weight: 10, Price: 25000}
	tx := &models.Transaction{TransportMethod: models.TransportPickup, EstimatedQuantity: coord(4)}

	q := Quote(w, tx)
	assert.Equal(t, 10000.0, q.WasteCost)
	assert.Zero(t, q.ShippingCost)
	assert.Equal(t, 10000.0, q.TotalAmount)
	assert.Nil(t, q.DistanceKm)
}

func TestQuoteFreeWaste(t *testing.T) {
	q := Quote(&models.Waste{Weight: 10}, &models.Transaction{})
	assert.Zero(t, q.TotalAmount)
}

func TestQuoteDeliveryMinimum(t *testing.T) {
	w := &models.Waste{Weight: 1, Price: 1000, Latitude: coord(-5.1477), Longitude: coord(119.4327)}
	tx := &models.Transaction{
		TransportMethod:   models.TransportDelivery,
		DeliveryLatitude:  coord(-5.1477),
		DeliveryLongitude: coord(119.4337),
	}

	q := Quote(w, tx)
	require.NotNil(t, q.DistanceKm)
	assert.Less(t, *q.DistanceKm, 1.0)
	assert.Equal(t, float64(MinimumShipping), q.ShippingCost)
	assert.Equal(t, 11000.0, q.TotalAmount)
}

func TestQuoteDeliveryByDistance(t *testing.T) {
	// One degree of latitude is about 111.19 km.
	w := &models.Waste{Weight: 1, Price: 0, Latitude: coord(0), Longitude: coord(0)}
	tx := &models.Transaction{
		TransportMethod:   models.TransportDelivery,
		DeliveryLatitude:  coord(1),
		DeliveryLongitude: coord(0),
	}

	q := Quote(w, tx)
	require.NotNil(t, q.DistanceKm)
	assert.InDelta(t, 111.19, *q.DistanceKm, 0.01)
	assert.InDelta(t, 555975, q.ShippingCost, 50)
}

func TestQuoteDeliveryWithoutCoordinates(t *testing.T) {
	w := &models.Waste{Weight: 1, Price: 1000}
	tx := &models.Transaction{TransportMethod: models.TransportDelivery}

	q := Quote(w, tx)
	assert.Zero(t, q.ShippingCost)
	assert.Equal(t, 1000.0, q.TotalAmount)
}
