package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriceForGrams(t *testing.T) {
	assert.Equal(t, 14.4, PriceForGrams(120, 120))
	assert.Equal(t, 37.5, PriceForGrams(150, 250))
	assert.Equal(t, 60.0, PriceForGrams(120, 500))
	assert.Equal(t, 0.33, PriceForGrams(1, 333))
}

func TestQuantityForPrice(t *testing.T) {
	assert.Equal(t, 0.333, QuantityForPrice(150, 50))
	assert.Equal(t, 2.0, QuantityForPrice(50, 100))
	assert.Zero(t, QuantityForPrice(0, 100))
}

func TestLineTotal(t *testing.T) {
	assert.Equal(t, 100.0, LineTotal(50, 2))
	assert.Equal(t, 36.45, LineTotal(120.5, 0.3025))
}

func TestLookupAndQuotes(t *testing.T) {
	c, ok := Lookup("ADHAKILO")
	assert.True(t, ok)
	assert.Equal(t, 500.0, c.Grams)

	_, ok = Lookup("seer")
	assert.False(t, ok)

	quotes := Quotes(200)
	if assert.Len(t, quotes, 4) {
		assert.Equal(t, 24.0, quotes[0].Price)
		assert.Equal(t, 200.0, quotes[3].Price)
	}
}
