package models

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Invoicing models. Invoices are owned by exactly one account and persist
// inside the account's collection in the state document.
type Invoice struct {
	ID         string          `json:"id"`
	Number     string          `json:"number"`
	IssueDate  string          `json:"date"` // YYYY-MM-DD
	Seller     Party           `json:"seller"`
	Buyer      Party           `json:"buyer"`
	Items      []LineItem      `json:"items"`
	Notes      string          `json:"notes,omitempty"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	TaxTotal   decimal.Decimal `json:"taxTotal"`
	Total      decimal.Decimal `json:"total"`
	Paid       bool            `json:"paid"`
	TemplateID string          `json:"templateId"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// LineItem is one billable row. Quantity and UnitPrice arrive from free-form
// user input, so they stay float64 here; Amount applies the coercion rules.
type LineItem struct {
	Description string   `json:"description"`
	Quantity    float64  `json:"qty"`
	UnitPrice   float64  `json:"price"`
	TaxRate     *float64 `json:"tax,omitempty"` // per-item rate, itemized policy only
}

// Amount returns quantity × unit price as an exact decimal. Negative or
// non-finite inputs count as zero so a bad row never corrupts the sum.
func (it LineItem) Amount() decimal.Decimal {
	qty := coerce(it.Quantity)
	price := coerce(it.UnitPrice)
	return qty.Mul(price)
}

func coerce(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// Clone deep-copies the invoice, items included.
func (inv Invoice) Clone() Invoice {
	out := inv
	out.Items = CloneItems(inv.Items)
	return out
}

// CloneItems deep-copies a line-item slice.
func CloneItems(items []LineItem) []LineItem {
	if items == nil {
		return nil
	}
	out := make([]LineItem, len(items))
	for i, it := range items {
		out[i] = it
		if it.TaxRate != nil {
			rate := *it.TaxRate
			out[i].TaxRate = &rate
		}
	}
	return out
}
