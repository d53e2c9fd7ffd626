// Package pricing converts between loose-weight quantities and prices for
// products sold by the kilo.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Conversion is a named quantity customers ask for at the counter
type Conversion struct {
	Name        string  `json:"name"`
	Grams       float64 `json:"grams"`
	DisplayName string  `json:"displayName"`
}

// Conversions lists the customary measures, smallest first
var Conversions = []Conversion{
	{Name: "paiya", Grams: 120, DisplayName: "Paiya (120g)"},
	{Name: "adhPa", Grams: 250, DisplayName: "Adh Pa (250g)"},
	{Name: "adhaKilo", Grams: 500, DisplayName: "Adha Kilo (500g)"},
	{Name: "kilo", Grams: 1000, DisplayName: "Kilo (1000g)"},
}

// Lookup finds a conversion by name, ignoring case
func Lookup(name string) (Conversion, bool) {
	for _, c := range Conversions {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Conversion{}, false
}

var thousand = decimal.NewFromInt(1000)

// PriceForGrams is the price of grams at pricePerKg, rounded to paise
func PriceForGrams(pricePerKg, grams float64) float64 {
	v, _ := decimal.NewFromFloat(pricePerKg).
		Mul(decimal.NewFromFloat(grams)).
		Div(thousand).
		Round(2).
		Float64()
	return v
}

// QuantityForPrice is how many kilograms targetPrice buys at pricePerKg,
// rounded to the gram. A non-positive price buys nothing.
func QuantityForPrice(pricePerKg, targetPrice float64) float64 {
	if pricePerKg <= 0 {
		return 0
	}
	v, _ := decimal.NewFromFloat(targetPrice).
		Div(decimal.NewFromFloat(pricePerKg)).
		Round(3).
		Float64()
	return v
}

// LineTotal is quantity × pricePerUnit rounded to paise
func LineTotal(pricePerUnit, quantity float64) float64 {
	v, _ := decimal.NewFromFloat(pricePerUnit).
		Mul(decimal.NewFromFloat(quantity)).
		Round(2).
		Float64()
	return v
}

// Quote is the price of one conversion
type Quote struct {
	Conversion
	Price float64 `json:"price"`
}

// Quotes prices every conversion at pricePerKg
func Quotes(pricePerKg float64) []Quote {
	quotes := make([]Quote, len(Conversions))
	for i, c := range Conversions {
		quotes[i] = Quote{Conversion: c, Price: PriceForGrams(pricePerKg, c.Grams)}
	}
	return quotes
}
