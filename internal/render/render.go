// Package render produces the standalone printable HTML document for a
// finished invoice. The output is a complete page with A4 print styles,
// suitable for download or the browser's print-to-PDF dialog.
package render

import (
	"bytes"
	"html/template"
	"math"

	"github.com/shopspring/decimal"

	"github.com/clicklabs/facturas/internal/models"
	"github.com/clicklabs/facturas/internal/money"
	"github.com/clicklabs/facturas/internal/totals"
)

const invoiceDocTemplate = `<!doctype html>
<html lang="es">
<head>
  <meta charset="utf-8" />
  <title>Factura {{.Invoice.Number}}</title>
  <style>
    @page { size: A4; margin: 24mm; }
    body { font-family: ui-sans-serif, system-ui, -apple-system, "Segoe UI", Roboto, Helvetica, Arial; color: #0f172a; margin: 0; padding: 24px; }
    h1, h2, h3 { margin: 0; }
    .doc { max-width: 720px; margin: 0 auto; border: 1px solid #e2e8f0; border-radius: 16px; padding: 24px; }
    .row { display: flex; justify-content: space-between; align-items: flex-start; gap: 24px; }
    .muted { color: #64748b; font-size: 13px; }
    .badge { display: inline-block; padding: 2px 8px; border-radius: 9999px; background: #0f172a; color: white; font-size: 12px; }
    .badge-paid { background: #059669; }
    table { width: 100%; border-collapse: collapse; margin-top: 16px; }
    th, td { text-align: left; padding: 8px; border-bottom: 1px solid #e2e8f0; font-size: 14px; }
    .num { text-align: right; }
    .totals { margin-top: 16px; max-width: 320px; margin-left: auto; font-size: 14px; }
    .totals .line { display: flex; justify-content: space-between; padding: 4px 0; }
    .totals .final { border-top: 1px solid #e2e8f0; font-weight: 600; font-size: 16px; }
    .notes { margin-top: 24px; white-space: pre-wrap; font-size: 14px; }
  </style>
</head>
<body>
  <div class="doc">
    <div class="row">
      <div>
        <span class="badge">Factura</span>
        {{if .Invoice.Paid}}<span class="badge badge-paid">Pagada</span>{{end}}
        <h2 style="margin-top:12px;">#{{.Invoice.Number}}</h2>
        <p class="muted">Fecha: {{.Invoice.IssueDate}}</p>
      </div>
      <div style="text-align:right;">
        {{if .Invoice.Seller.Logo}}<img src="{{.Invoice.Seller.Logo}}" style="max-height:40px;" alt="{{.Invoice.Seller.Name}}">{{end}}
        <h3>{{.Invoice.Seller.Name}}</h3>
        <p class="muted">{{.Invoice.Seller.TaxID}}</p>
        <p class="muted">{{.Invoice.Seller.Address}}</p>
        {{if .Invoice.Seller.Email}}<p class="muted">{{.Invoice.Seller.Email}}</p>{{end}}
        {{if .Invoice.Seller.IBAN}}<p class="muted">{{.Invoice.Seller.IBAN}}</p>{{end}}
      </div>
    </div>

    <div class="row" style="margin-top:24px;">
      <div>
        <strong>Facturar a</strong>
        <p style="margin:4px 0 0;">{{.Invoice.Buyer.Name}}</p>
        <p class="muted">{{.Invoice.Buyer.TaxID}}</p>
        <p class="muted">{{.Invoice.Buyer.Address}}</p>
      </div>
    </div>

    <table>
      <thead>
        <tr class="muted">
          <th style="width:55%;">Descripción</th>
          <th class="num">Cant.</th>
          <th class="num">Precio</th>
          <th class="num">Importe</th>
        </tr>
      </thead>
      <tbody>
        {{range .Invoice.Items}}
        <tr>
          <td>{{.Description}}</td>
          <td class="num">{{qty .Quantity}}</td>
          <td class="num">{{moneyf .UnitPrice}}</td>
          <td class="num">{{amount .}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>

    <div class="totals">
      <div class="line"><span class="muted">Subtotal</span><span>{{dec .Invoice.Subtotal}}</span></div>
      <div class="line"><span class="muted">{{.TaxLabel}}</span><span>{{dec .Invoice.TaxTotal}}</span></div>
      <div class="line final"><span>Total</span><span>{{dec .Invoice.Total}}</span></div>
    </div>

    {{if .Invoice.Notes}}<div class="notes">{{.Invoice.Notes}}</div>{{end}}
  </div>
</body>
</html>
`

type Renderer struct {
	tpl *template.Template
	fmt *money.Formatter
}

type docData struct {
	Invoice  models.Invoice
	TaxLabel string
}

// NewRenderer builds a renderer formatting amounts for the given locale and
// currency.
func NewRenderer(locale, code string) *Renderer {
	f := money.NewFormatter(locale, code)
	funcs := template.FuncMap{
		"moneyf": f.FormatFloat,
		"dec":    f.Format,
		"amount": func(it models.LineItem) string { return f.Format(it.Amount()) },
		"qty":    formatQuantity,
	}
	return &Renderer{
		tpl: template.Must(template.New("invoice").Funcs(funcs).Parse(invoiceDocTemplate)),
		fmt: f,
	}
}

// Render returns the complete HTML document for the invoice.
func (r *Renderer) Render(inv models.Invoice) (string, error) {
	var buf bytes.Buffer
	data := docData{Invoice: inv, TaxLabel: taxLabel(inv)}
	if err := r.tpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// taxLabel names the tax line: the fixed rate when it applies, a generic
// label for itemized invoices.
func taxLabel(inv models.Invoice) string {
	for _, it := range inv.Items {
		if it.TaxRate != nil {
			return "Impuestos"
		}
	}
	return "IVA (" + money.Percent(totals.DefaultTaxRate) + ")"
}

func formatQuantity(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return "0"
	}
	return decimal.NewFromFloat(v).String()
}
