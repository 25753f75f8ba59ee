package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clicklabs/facturas/internal/store"
)

func TestJSON_WritesPayload(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusCreated, map[string]any{"email": "a@x.com"})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content-type = %q", ct)
	}
	var got map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["email"] != "a@x.com" {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestJSONError_Envelope(t *testing.T) {
	w := httptest.NewRecorder()
	JSONError(w, http.StatusBadRequest, "id_required", nil)
	var got ErrorBody
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if w.Code != http.StatusBadRequest || got.Error != "id_required" {
		t.Fatalf("got %d %+v", w.Code, got)
	}
}

func TestStoreError_Mapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{store.ErrDuplicateAccount, http.StatusConflict, "account_exists"},
		{store.ErrNotFound, http.StatusNotFound, "not_found"},
		{store.ErrInvalidCredential, http.StatusUnauthorized, "invalid_credentials"},
		{store.ErrNoSession, http.StatusUnauthorized, "unauthorized"},
		{store.ErrQuotaExceeded, http.StatusForbidden, "quota_exceeded"},
		{errors.New("disk full"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		StoreError(w, tt.err)
		var got ErrorBody
		if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
			t.Fatalf("%v: decode: %v", tt.err, err)
		}
		if w.Code != tt.status || got.Error != tt.code {
			t.Errorf("%v: got %d %q, want %d %q", tt.err, w.Code, got.Error, tt.status, tt.code)
		}
	}
}
