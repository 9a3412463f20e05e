package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAmountMatchesPrice(t *testing.T) {
	tests := []struct {
		amount string
		price  int64
		want   bool
	}{
		{"499", 499, true},
		{"499.00", 499, true},
		{"499.01", 499, true},
		{"498.99", 499, true},
		{"499.02", 499, false},
		{"498.98", 499, false},
		{"499.015", 499, false},
		{"-499", 499, false},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, AmountMatchesPrice(decimal.RequireFromString(tt.amount), tt.price))
		})
	}
}

func TestGrowthRate(t *testing.T) {
	assert.Equal(t, 0.0, GrowthRate(0, 0))
	assert.Equal(t, 100.0, GrowthRate(0, 7))
	assert.Equal(t, 25.0, GrowthRate(4, 5))
	assert.Equal(t, -100.0, GrowthRate(3, 0))
	assert.Equal(t, 33.33, GrowthRate(3, 4))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0.0, Percent(5, 0))
	assert.Equal(t, 50.0, Percent(1, 2))
	assert.Equal(t, 66.67, Percent(2, 3))
}
