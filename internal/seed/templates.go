// Package seed holds the built-in invoice templates. A template seeds the
// first version of a new invoice; all seed data is deep-copied on use so an
// edit never writes back into a template.
package seed

import "github.com/clicklabs/facturas/internal/models"

type Template struct {
	ID     string
	Name   string
	Seller models.Party
	Buyer  models.Party
	Items  []models.LineItem
	Notes  string
}

const DefaultTemplateID = "minimal"

var templates = []Template{
	{
		ID:   "minimal",
		Name: "Minimal",
		Seller: models.Party{
			Name:    "ClickLabs Digital Ventures S.L.",
			TaxID:   "B12345678",
			Address: "Av. Can Fontanals s/n, 08190 Sant Cugat del Vallès",
		},
		Buyer: models.Party{
			Name:    "ACME Corp.",
			TaxID:   "X1234567Y",
			Address: "Calle Falsa 123, Madrid",
		},
		Items: []models.LineItem{
			{Description: "Servicio de diseño web", Quantity: 1, UnitPrice: 950},
			{Description: "Mantenimiento mensual", Quantity: 1, UnitPrice: 49.9},
		},
		Notes: "Gracias por su confianza.",
	},
	{
		ID:   "classic",
		Name: "Clásica",
		Seller: models.Party{
			Name:    "SaaS Facturas",
			TaxID:   "B76543210",
			Address: "C. Mayor 45, Barcelona",
		},
		Buyer: models.Party{
			Name:    "Cliente de Ejemplo",
			TaxID:   "00000000A",
			Address: "Passeig de Gràcia 1, Barcelona",
		},
		Items: []models.LineItem{
			{Description: "Consultoría SEM", Quantity: 5, UnitPrice: 60},
			{Description: "Diseño banners", Quantity: 10, UnitPrice: 15},
		},
		Notes: "Pago por transferencia a ES12 3456 7890 1234 5678 9012.",
	},
	{
		ID:   "modern",
		Name: "Moderna",
		Seller: models.Party{
			Name:    "Geosignal.mobi",
			TaxID:   "B99887766",
			Address: "Valencia Tech Park",
		},
		Buyer: models.Party{
			Name:    "StartUp XYZ",
			TaxID:   "Y7654321Z",
			Address: "Remote",
		},
		Items: []models.LineItem{
			{Description: "Suscripción anual", Quantity: 1, UnitPrice: 399},
			{Description: "Onboarding", Quantity: 1, UnitPrice: 99},
		},
		Notes: "Incluye soporte prioritario 24/7.",
	},
}

// All returns deep copies of every template, in gallery order.
func All() []Template {
	out := make([]Template, len(templates))
	for i, t := range templates {
		out[i] = t.clone()
	}
	return out
}

// ByID returns a deep copy of the named template.
func ByID(id string) (Template, bool) {
	for _, t := range templates {
		if t.ID == id {
			return t.clone(), true
		}
	}
	return Template{}, false
}

// ByIDOrDefault falls back to the default template for unknown ids, the
// behavior the creation flow relies on.
func ByIDOrDefault(id string) Template {
	if t, ok := ByID(id); ok {
		return t
	}
	t, _ := ByID(DefaultTemplateID)
	return t
}

func (t Template) clone() Template {
	out := t
	out.Items = models.CloneItems(t.Items)
	return out
}
