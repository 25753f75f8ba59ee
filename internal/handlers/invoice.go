package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/clicklabs/facturas/internal/auth"
	"github.com/clicklabs/facturas/internal/httpx"
	"github.com/clicklabs/facturas/internal/models"
	"github.com/clicklabs/facturas/internal/render"
	"github.com/clicklabs/facturas/internal/store"
)

type InvoiceHandler struct {
	Store    *store.Store
	Renderer *render.Renderer
}

func NewInvoiceHandler(st *store.Store, r *render.Renderer) *InvoiceHandler {
	return &InvoiceHandler{Store: st, Renderer: r}
}

func (h *InvoiceHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/invoices", h.invoices)
	mux.HandleFunc("/invoices/pay", h.pay)
	mux.HandleFunc("/invoices/export", h.export)
}

// session resolves the request's cookie token to a live store session.
func (h *InvoiceHandler) session(r *http.Request) (store.Session, error) {
	token, ok := auth.TokenFromContext(r.Context())
	if !ok {
		return store.Session{}, store.ErrNoSession
	}
	return h.Store.Resolve(token)
}

func (h *InvoiceHandler) invoices(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(r)
	if err != nil {
		httpx.StoreError(w, err)
		return
	}
	switch r.Method {
	case http.MethodGet:
		if id := r.URL.Query().Get("id"); id != "" {
			h.get(w, sess, id)
			return
		}
		h.list(w, sess)
	case http.MethodPost:
		h.create(w, r, sess)
	case http.MethodPut:
		h.update(w, r, sess)
	case http.MethodDelete:
		h.delete(w, r, sess)
	default:
		w.Header().Set("Allow", "GET,POST,PUT,DELETE")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	}
}

func (h *InvoiceHandler) list(w http.ResponseWriter, sess store.Session) {
	items, err := h.Store.ListInvoices(sess)
	if err != nil {
		httpx.StoreError(w, err)
		return
	}
	used, limit, err := h.Store.Usage(sess)
	if err != nil {
		httpx.StoreError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items, "used": used, "limit": limit})
}

func (h *InvoiceHandler) get(w http.ResponseWriter, sess store.Session, id string) {
	inv, err := h.Store.GetInvoice(sess, id)
	if err != nil {
		httpx.StoreError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *InvoiceHandler) create(w http.ResponseWriter, r *http.Request, sess store.Session) {
	inv, err := h.Store.CreateInvoice(sess, r.URL.Query().Get("template"))
	if err != nil {
		httpx.StoreError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, inv)
}

func (h *InvoiceHandler) update(w http.ResponseWriter, r *http.Request, sess store.Session) {
	var inv models.Invoice
	if err := json.NewDecoder(r.Body).Decode(&inv); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_body", nil)
		return
	}
	if inv.ID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "id_required", nil)
		return
	}
	updated, err := h.Store.UpdateInvoice(sess, inv)
	if err != nil {
		httpx.StoreError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *InvoiceHandler) delete(w http.ResponseWriter, r *http.Request, sess store.Session) {
	id := r.URL.Query().Get("id")
	if id == "" {
		httpx.JSONError(w, http.StatusBadRequest, "id_required", nil)
		return
	}
	if err := h.Store.DeleteInvoice(sess, id); err != nil {
		httpx.StoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *InvoiceHandler) pay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	sess, err := h.session(r)
	if err != nil {
		httpx.StoreError(w, err)
		return
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		httpx.JSONError(w, http.StatusBadRequest, "id_required", nil)
		return
	}
	if err := h.Store.MarkPaid(sess, id); err != nil {
		httpx.StoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// export serves the standalone printable HTML document. With ?download=1 the
// response carries an attachment disposition named after the invoice number.
func (h *InvoiceHandler) export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	sess, err := h.session(r)
	if err != nil {
		httpx.StoreError(w, err)
		return
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		httpx.JSONError(w, http.StatusBadRequest, "id_required", nil)
		return
	}
	inv, err := h.Store.GetInvoice(sess, id)
	if err != nil {
		httpx.StoreError(w, err)
		return
	}
	doc, err := h.Renderer.Render(inv)
	if err != nil {
		httpx.StoreError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if r.URL.Query().Get("download") == "1" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "factura-"+inv.Number+".html"))
	}
	_, _ = w.Write([]byte(doc))
}
