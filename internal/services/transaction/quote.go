package transaction

import (
	"math"

	"lumbung/internal/models"

	"github.com/shopspring/decimal"
)

// Quote prices a booking: the pro-rated listing price plus shipping for
// deliveries whose both endpoints are known.
func Quote(waste *models.Waste, tx *models.Transaction) models.CostQuote {
	var quote models.CostQuote

	qty := waste.Weight
	if tx.EstimatedQuantity != nil && *tx.EstimatedQuantity > 0 {
		qty = *tx.EstimatedQuantity
	}
	if waste.Price > 0 && waste.Weight > 0 {
		quote.WasteCost = decimal.NewFromFloat(waste.Price).
			Div(decimal.NewFromFloat(waste.Weight)).
			Mul(decimal.NewFromFloat(qty)).
			Round(0).InexactFloat64()
	}

	if tx.TransportMethod == models.TransportDelivery &&
		waste.Latitude != nil && waste.Longitude != nil &&
		tx.DeliveryLatitude != nil && tx.DeliveryLongitude != nil {
		km := haversineKm(*waste.Latitude, *waste.Longitude, *tx.DeliveryLatitude, *tx.DeliveryLongitude)
		quote.DistanceKm = &km
		quote.ShippingCost = math.Max(MinimumShipping, math.Round(km*ShippingRatePerKm))
	}

	quote.TotalAmount = quote.WasteCost + quote.ShippingCost
	return quote
}

// haversineKm is the great-circle distance between two coordinates.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
