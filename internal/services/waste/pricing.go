package waste

import (
	"strings"

	apperrors "lumbung/internal/errors"

	"github.com/shopspring/decimal"
)

// DefaultPricePerKg applies to categories missing from the table.
const DefaultPricePerKg = 1500

// priceBand is the spread either side of the recommended price.
var priceBand = decimal.NewFromFloat(0.2)

var pricePerKg = map[string]int64{
	"minyak":     4000,
	"plastik":    3000,
	"kertas":     2000,
	"logam":      8000,
	"organik":    500,
	"kaca":       1000,
	"elektronik": 10000,
}

type PriceRecommendation struct {
	Category         string  `json:"category"`
	Weight           float64 `json:"weight"`
	PricePerKg       float64 `json:"price_per_kg"`
	MinPrice         float64 `json:"min_price"`
	MaxPrice         float64 `json:"max_price"`
	RecommendedPrice float64 `json:"recommended_price"`
}

// PricePerKg returns the reference price for category, matched
// case-insensitively.
func PricePerKg(category string) int64 {
	if p, ok := pricePerKg[strings.ToLower(strings.TrimSpace(category))]; ok {
		return p
	}
	return DefaultPricePerKg
}

// RecommendPrice suggests a listing price for weight kg of category.
func RecommendPrice(category string, weight float64) (*PriceRecommendation, error) {
	if weight <= 0 {
		return nil, apperrors.Validation("invalid_weight", "weight must be greater than 0")
	}

	perKg := decimal.NewFromInt(PricePerKg(category))
	mid := perKg.Mul(decimal.NewFromFloat(weight))
	spread := mid.Mul(priceBand)

	return &PriceRecommendation{
		Category:         category,
		Weight:           weight,
		PricePerKg:       perKg.InexactFloat64(),
		MinPrice:         mid.Sub(spread).Round(2).InexactFloat64(),
		MaxPrice:         mid.Add(spread).Round(2).InexactFloat64(),
		RecommendedPrice: mid.Round(2).InexactFloat64(),
	}, nil
}
