package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/clicklabs/facturas/internal/auth"
	"github.com/clicklabs/facturas/internal/models"
	"github.com/clicklabs/facturas/internal/render"
	"github.com/clicklabs/facturas/internal/store"
)

func newInvoiceHandler(t *testing.T) (*InvoiceHandler, *store.Store, store.Session) {
	t.Helper()
	s := newTestStore(t)
	sess, err := s.CreateAccount("inv@test.com", "p")
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}
	return NewInvoiceHandler(s, render.NewRenderer("es-ES", "EUR")), s, sess
}

func withSession(r *http.Request, sess store.Session) *http.Request {
	return r.WithContext(auth.WithToken(r.Context(), sess.Token))
}

func TestInvoiceCreateAndList(t *testing.T) {
	h, _, sess := newInvoiceHandler(t)

	req := withSession(httptest.NewRequest(http.MethodPost, "/invoices?template=classic", nil), sess)
	w := httptest.NewRecorder()
	h.invoices(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var created models.Invoice
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == "" || created.Number != "0001" || created.TemplateID != "classic" {
		t.Fatalf("unexpected invoice: %+v", created)
	}

	listReq := withSession(httptest.NewRequest(http.MethodGet, "/invoices", nil), sess)
	listW := httptest.NewRecorder()
	h.invoices(listW, listReq)
	if listW.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", listW.Code)
	}
	var list struct {
		Items []models.Invoice `json:"items"`
		Used  int              `json:"used"`
		Limit int              `json:"limit"`
	}
	if err := json.Unmarshal(listW.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Items) != 1 || list.Used != 1 || list.Limit != store.DefaultQuota {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestInvoiceCreate_QuotaExceeded(t *testing.T) {
	h, _, sess := newInvoiceHandler(t)
	for i := 0; i < store.DefaultQuota; i++ {
		req := withSession(httptest.NewRequest(http.MethodPost, "/invoices", nil), sess)
		w := httptest.NewRecorder()
		h.invoices(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("create %d: expected 201 got %d", i+1, w.Code)
		}
	}
	req := withSession(httptest.NewRequest(http.MethodPost, "/invoices", nil), sess)
	w := httptest.NewRecorder()
	h.invoices(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestInvoices_RequireSession(t *testing.T) {
	h, _, _ := newInvoiceHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/invoices", nil)
	w := httptest.NewRecorder()
	h.invoices(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", w.Code)
	}
}

func TestInvoiceUpdate(t *testing.T) {
	h, s, sess := newInvoiceHandler(t)
	created, err := s.CreateInvoice(sess, "minimal")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	created.Items = []models.LineItem{{Description: "x", Quantity: 2, UnitPrice: 50}}
	body, _ := json.Marshal(created)
	req := withSession(httptest.NewRequest(http.MethodPut, "/invoices", strings.NewReader(string(body))), sess)
	w := httptest.NewRecorder()
	h.invoices(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var updated models.Invoice
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Subtotal.String() != "100" {
		t.Fatalf("subtotal = %s, want 100", updated.Subtotal)
	}
}

func TestInvoiceUpdate_UnknownID(t *testing.T) {
	h, _, sess := newInvoiceHandler(t)
	req := withSession(httptest.NewRequest(http.MethodPut, "/invoices", strings.NewReader(`{"id":"ghost"}`)), sess)
	w := httptest.NewRecorder()
	h.invoices(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
}

func TestInvoiceDelete_Idempotent(t *testing.T) {
	h, s, sess := newInvoiceHandler(t)
	created, _ := s.CreateInvoice(sess, "minimal")

	for i := 0; i < 2; i++ {
		req := withSession(httptest.NewRequest(http.MethodDelete, "/invoices?id="+created.ID, nil), sess)
		w := httptest.NewRecorder()
		h.invoices(w, req)
		if w.Code != http.StatusNoContent {
			t.Fatalf("delete %d: expected 204 got %d", i+1, w.Code)
		}
	}
}

func TestInvoicePay(t *testing.T) {
	h, s, sess := newInvoiceHandler(t)
	created, _ := s.CreateInvoice(sess, "minimal")

	req := withSession(httptest.NewRequest(http.MethodPost, "/invoices/pay?id="+created.ID, nil), sess)
	w := httptest.NewRecorder()
	h.pay(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", w.Code)
	}
	got, err := s.GetInvoice(sess, created.ID)
	if err != nil || !got.Paid {
		t.Fatalf("invoice not marked paid: %+v, %v", got, err)
	}
}

func TestInvoiceExport(t *testing.T) {
	h, s, sess := newInvoiceHandler(t)
	created, _ := s.CreateInvoice(sess, "minimal")

	req := withSession(httptest.NewRequest(http.MethodGet, "/invoices/export?id="+created.ID, nil), sess)
	w := httptest.NewRecorder()
	h.export(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Fatalf("expected html content-type got %s", ct)
	}
	if !strings.Contains(w.Body.String(), "#"+created.Number) {
		t.Fatalf("export missing invoice number")
	}
	if w.Header().Get("Content-Disposition") != "" {
		t.Fatalf("inline export should not set disposition")
	}
}

func TestInvoiceExport_Download(t *testing.T) {
	h, s, sess := newInvoiceHandler(t)
	created, _ := s.CreateInvoice(sess, "minimal")

	req := withSession(httptest.NewRequest(http.MethodGet, "/invoices/export?id="+created.ID+"&download=1", nil), sess)
	w := httptest.NewRecorder()
	h.export(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	want := `attachment; filename="factura-0001.html"`
	if got := w.Header().Get("Content-Disposition"); got != want {
		t.Fatalf("disposition = %q, want %q", got, want)
	}
}

func TestTemplateList(t *testing.T) {
	h := NewTemplateHandler()
	req := httptest.NewRequest(http.MethodGet, "/templates", nil)
	w := httptest.NewRecorder()
	h.list(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var resp struct {
		Items []templateView `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Items) != 3 {
		t.Fatalf("expected 3 templates, got %d", len(resp.Items))
	}
	if resp.Items[0].ID != "minimal" || resp.Items[0].Total == "" {
		t.Fatalf("unexpected first template: %+v", resp.Items[0])
	}
}
