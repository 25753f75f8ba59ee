// Package httpx writes the JSON bodies shared by every endpoint: payloads
// on success, {"error": <code>} envelopes on failure, and the mapping from
// store sentinels onto HTTP statuses.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/clicklabs/facturas/internal/store"
)

// ErrorBody is the failure envelope. Error carries a stable machine-readable
// code such as "quota_exceeded"; Details is optional field-level context.
type ErrorBody struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// JSON marshals payload and writes it with the given status.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	body, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"encode_error"}`))
		return
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// JSONError writes the failure envelope.
func JSONError(w http.ResponseWriter, status int, code string, details any) {
	JSON(w, status, ErrorBody{Error: code, Details: details})
}

// StoreError maps store sentinels onto statuses and codes. Unknown errors
// are logged and reported as a bare 500 so internals never leak.
func StoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrDuplicateAccount):
		JSONError(w, http.StatusConflict, "account_exists", nil)
	case errors.Is(err, store.ErrNotFound):
		JSONError(w, http.StatusNotFound, "not_found", nil)
	case errors.Is(err, store.ErrInvalidCredential):
		JSONError(w, http.StatusUnauthorized, "invalid_credentials", nil)
	case errors.Is(err, store.ErrNoSession):
		JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
	case errors.Is(err, store.ErrQuotaExceeded):
		JSONError(w, http.StatusForbidden, "quota_exceeded", nil)
	default:
		zap.L().Error("store operation failed", zap.Error(err))
		JSONError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}
