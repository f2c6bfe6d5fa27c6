package domain

import "github.com/shopspring/decimal"

// Subtotal is the sum of unit price times quantity over the order lines.
func Subtotal(lines []OrderLine) decimal.Decimal {
	sum := decimal.Zero
	for _, ln := range lines {
		sum = sum.Add(ln.UnitPrice.Mul(decimal.NewFromInt(int64(ln.Quantity))))
	}
	return sum.Round(2)
}

// Totals applies the caller-supplied tax rate and tip to a subtotal. Tax and
// tip are inputs at creation time and are never recomputed afterwards.
func Totals(subtotal, taxRate, tip decimal.Decimal) (tax, total decimal.Decimal) {
	tax = subtotal.Mul(taxRate).Round(2)
	total = subtotal.Add(tax).Add(tip).Round(2)
	return tax, total
}
