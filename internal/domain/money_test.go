package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/RishithaRamesh/wolfcafeplus/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSubtotal(t *testing.T) {
	lines := []domain.OrderLine{
		{Name: "Latte", UnitPrice: dec("4.50"), Quantity: 2},
	}
	assert.True(t, domain.Subtotal(lines).Equal(dec("9.00")))

	lines = append(lines, domain.OrderLine{Name: "Muffin", UnitPrice: dec("3.25"), Quantity: 3})
	assert.True(t, domain.Subtotal(lines).Equal(dec("18.75")))

	assert.True(t, domain.Subtotal(nil).Equal(decimal.Zero))
}

func TestTotals(t *testing.T) {
	tax, total := domain.Totals(dec("9.00"), dec("0.08"), dec("1.00"))
	assert.True(t, tax.Equal(dec("0.72")), "tax was %s", tax)
	assert.True(t, total.Equal(dec("10.72")), "total was %s", total)
}

func TestTotalsRounding(t *testing.T) {
	// 3.33 * 0.0825 = 0.274725, rounds to 0.27
	tax, total := domain.Totals(dec("3.33"), dec("0.0825"), decimal.Zero)
	assert.True(t, tax.Equal(dec("0.27")), "tax was %s", tax)
	assert.True(t, total.Equal(dec("3.60")), "total was %s", total)
}

func TestTotalsZeroRateAndTip(t *testing.T) {
	tax, total := domain.Totals(dec("5.00"), decimal.Zero, decimal.Zero)
	assert.True(t, tax.Equal(decimal.Zero))
	assert.True(t, total.Equal(dec("5.00")))
}
