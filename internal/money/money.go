// Package money renders amounts as locale-aware currency strings. This is
// the only place amounts are rounded; everything upstream keeps exact
// decimals.
package money

import (
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	DefaultLocale   = "es-ES"
	DefaultCurrency = "EUR"
)

type Formatter struct {
	printer *message.Printer
	symbol  string
	prefix  bool
}

// NewFormatter builds a formatter for the given BCP 47 locale and ISO 4217
// currency code. Unknown values fall back to es-ES / EUR.
func NewFormatter(locale, code string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.MustParse(DefaultLocale)
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		unit = currency.EUR
	}
	p := message.NewPrinter(tag)
	base, _ := tag.Base()
	return &Formatter{
		printer: p,
		symbol:  p.Sprint(currency.Symbol(unit)),
		// English locales lead with the symbol; most others trail it.
		prefix: base.String() == "en",
	}
}

// Format rounds to 2 decimal places and renders with the locale's separators
// and currency symbol, e.g. "1.234,50 €" for es-ES or "€1,234.50" for en.
func (f *Formatter) Format(amount decimal.Decimal) string {
	v, _ := amount.Round(2).Float64()
	num := f.printer.Sprint(number.Decimal(v, number.Scale(2)))
	if f.prefix {
		return f.symbol + num
	}
	return num + " " + f.symbol
}

// FormatFloat is Format for callers that only have a float. Non-finite
// values render as zero, mirroring the totals coercion rules.
func (f *Formatter) FormatFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return f.Format(decimal.Zero)
	}
	return f.Format(decimal.NewFromFloat(v))
}

// Percent renders a fractional rate as a percentage label, e.g. 0.21 → "21%".
func Percent(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).String() + "%"
}
