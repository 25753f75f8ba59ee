// Package totals computes invoice totals. All functions are pure and cheap
// enough to call on every edit; rounding is left to the display layer.
package totals

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/clicklabs/facturas/internal/models"
)

// DefaultTaxRate is the fixed rate applied when items carry no per-item rate.
var DefaultTaxRate = decimal.NewFromFloat(0.21)

type Totals struct {
	Subtotal decimal.Decimal
	TaxTotal decimal.Decimal
	Total    decimal.Decimal
}

// Compute applies the fixed-rate policy with DefaultTaxRate.
func Compute(items []models.LineItem) Totals {
	return ComputeWithRate(items, DefaultTaxRate)
}

// ComputeWithRate sums item amounts and taxes the subtotal at a single rate.
// Negative or non-finite quantities and prices contribute zero to the sum.
func ComputeWithRate(items []models.LineItem, rate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Amount())
	}
	tax := subtotal.Mul(rate)
	return Totals{Subtotal: subtotal, TaxTotal: tax, Total: subtotal.Add(tax)}
}

// ComputeItemized taxes each line at its own rate. Items without a rate, or
// with a negative or non-finite one, are taxed at zero. An invoice uses
// either this policy or the fixed-rate one, never both.
func ComputeItemized(items []models.LineItem) Totals {
	subtotal := decimal.Zero
	tax := decimal.Zero
	for _, it := range items {
		amount := it.Amount()
		subtotal = subtotal.Add(amount)
		if it.TaxRate == nil {
			continue
		}
		r := *it.TaxRate
		if math.IsNaN(r) || math.IsInf(r, 0) || r < 0 {
			continue
		}
		tax = tax.Add(amount.Mul(decimal.NewFromFloat(r)))
	}
	return Totals{Subtotal: subtotal, TaxTotal: tax, Total: subtotal.Add(tax)}
}
