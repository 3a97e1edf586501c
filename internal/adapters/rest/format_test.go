package rest

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "200 ₽", FormatPrice(decimal.NewFromInt(200)))
	assert.Equal(t, "0 ₽", FormatPrice(decimal.Zero))
	assert.Contains(t, FormatPrice(decimal.RequireFromString("12.5")), "12,5")
}

func TestCounterText(t *testing.T) {
	assert.Equal(t, "", CounterText(0, 0, false))
	assert.Equal(t, allLoadedText, CounterText(35, 35, false))
	assert.Equal(t, "Показано 20 из 35 товаров", CounterText(20, 35, true))
}
