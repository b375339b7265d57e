package transaction

import (
	"lumbung/internal/models"

	"github.com/shopspring/decimal"
)

// split carves qty kg off parent. It returns the parent's remaining weight
// and price and the booked child listing. Prices are rounded to cents and
// the parent keeps the remainder so the two prices sum to the original.
func split(parent *models.Waste, qty float64) (float64, float64, *models.Waste) {
	weight := decimal.NewFromFloat(parent.Weight)
	price := decimal.NewFromFloat(parent.Price)
	booked := decimal.NewFromFloat(qty)

	childPrice := decimal.Zero
	if !weight.IsZero() {
		childPrice = price.Mul(booked).Div(weight).Round(2)
	}

	parentID := parent.ID
	child := &models.Waste{
		ProducerID:  parent.ProducerID,
		ParentID:    &parentID,
		Title:       parent.Title,
		Category:    parent.Category,
		Weight:      booked.InexactFloat64(),
		Price:       childPrice.InexactFloat64(),
		Description: parent.Description,
		ImageURL:    parent.ImageURL,
		Latitude:    parent.Latitude,
		Longitude:   parent.Longitude,
		Address:     parent.Address,
		Status:      models.WasteStatusBooked,
	}
	return weight.Sub(booked).InexactFloat64(), price.Sub(childPrice).InexactFloat64(), child
}
