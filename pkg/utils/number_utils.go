package utils

import (
	"math"

	"github.com/shopspring/decimal"
)

// PriceTolerance is the largest accepted gap between a paid amount and the plan price.
var PriceTolerance = decimal.New(1, -2)

func AmountMatchesPrice(amount decimal.Decimal, price int64) bool {
	return amount.Sub(decimal.NewFromInt(price)).Abs().LessThanOrEqual(PriceTolerance)
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Percent returns part/whole*100 rounded to two decimals, or 0 for an empty whole.
func Percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return Round2(part / whole * 100)
}

// GrowthRate compares two window counts. An empty previous window yields
// 100 when the current one has data and 0 otherwise.
func GrowthRate(previous, current int64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return Round2(float64(current-previous) / float64(previous) * 100)
}
