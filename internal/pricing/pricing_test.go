package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFinalPrice(t *testing.T) {
	tests := []struct {
		name        string
		basePrice   float64
		discountPct float64
		want        float64
	}{
		{"quarter discount", 100, 25, 75},
		{"zero discount", 50, 0, 50},
		{"full discount", 80, 100, 0},
		{"discount above 100 clamps to zero", 10, 150, 0},
		{"zero base price", 0, 30, 0},
		{"fractional discount", 200, 12.5, 175},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, FinalPrice(tt.basePrice, tt.discountPct), 1e-9)
		})
	}
}

func TestFinalPriceNeverExceedsBase(t *testing.T) {
	for _, base := range []float64{0, 1, 9.99, 100, 12345.67} {
		for _, pct := range []float64{0, 1, 25, 50, 99, 99.9} {
			got := FinalPrice(base, pct)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, base)
		}
	}
}

func TestFinalPriceNeverNegative(t *testing.T) {
	for _, pct := range []float64{101, 150, 1000} {
		assert.Equal(t, 0.0, FinalPrice(42, pct))
	}
}
