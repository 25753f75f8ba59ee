package handlers

import (
	"net/http"

	"github.com/samber/lo"

	"github.com/clicklabs/facturas/internal/httpx"
	"github.com/clicklabs/facturas/internal/models"
	"github.com/clicklabs/facturas/internal/seed"
	"github.com/clicklabs/facturas/internal/totals"
)

type TemplateHandler struct{}

func NewTemplateHandler() *TemplateHandler { return &TemplateHandler{} }

func (h *TemplateHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/templates", h.list)
}

type templateView struct {
	ID     string            `json:"id"`
	Name   string            `json:"name"`
	Seller models.Party      `json:"seller"`
	Buyer  models.Party      `json:"buyer"`
	Items  []models.LineItem `json:"items"`
	Notes  string            `json:"notes,omitempty"`
	Total  string            `json:"sampleTotal"`
}

// list returns the template gallery with sample totals for previews.
func (h *TemplateHandler) list(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	views := lo.Map(seed.All(), func(t seed.Template, _ int) templateView {
		return templateView{
			ID:     t.ID,
			Name:   t.Name,
			Seller: t.Seller,
			Buyer:  t.Buyer,
			Items:  t.Items,
			Notes:  t.Notes,
			Total:  totals.Compute(t.Items).Total.StringFixed(2),
		}
	})
	httpx.JSON(w, http.StatusOK, map[string]any{"items": views})
}
