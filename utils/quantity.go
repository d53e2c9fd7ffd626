package utils

import (
	"strconv"

	"github.com/shopspring/decimal"

	"ghuman-groceries/models"
)

// FormatQuantity renders a stock or line quantity for display. Kilogram
// amounts below one kilo are shown in grams.
func FormatQuantity(quantity float64, unit models.UnitType) string {
	if unit == models.UnitUnits {
		return strconv.FormatFloat(quantity, 'f', -1, 64) + " units"
	}
	if quantity >= 1 {
		return strconv.FormatFloat(quantity, 'f', -1, 64) + "kg"
	}
	return decimal.NewFromFloat(quantity).Mul(decimal.NewFromInt(1000)).String() + "g"
}
