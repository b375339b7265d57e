package waste

import (
	"testing"

	apperrors "lumbung/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendPrice(t *testing.T) {
	tests := []struct {
		name        string
		category    string
		weight      float64
		perKg       float64
		recommended float64
		min, max    float64
	}{
		{"known category", "Minyak", 10, 4000, 40000, 32000, 48000},
		{"case insensitive", "pLaStIk", 2.5, 3000, 7500, 6000, 9000},
		{"unknown category uses default", "Tekstil", 4, 1500, 6000, 4800, 7200},
		{"fractional weight", "Organik", 0.3, 500, 150, 120, 180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := RecommendPrice(tt.category, tt.weight)
			require.NoError(t, err)
			assert.Equal(t, tt.category, rec.Category)
			assert.Equal(t, tt.perKg, rec.PricePerKg)
			assert.InDelta(t, tt.recommended, rec.RecommendedPrice, 0.001)
			assert.InDelta(t, tt.min, rec.MinPrice, 0.001)
			assert.InDelta(t, tt.max, rec.MaxPrice, 0.001)
		})
	}
}

func TestRecommendPriceRejectsNonPositiveWeight(t *testing.T) {
	for _, w := range []float64{0, -1} {
		_, err := RecommendPrice("Logam", w)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	}
}
