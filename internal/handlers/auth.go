package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/clicklabs/facturas/internal/auth"
	"github.com/clicklabs/facturas/internal/httpx"
	"github.com/clicklabs/facturas/internal/store"
)

type AuthHandler struct {
	Store  *store.Store
	Secret string
}

func NewAuthHandler(st *store.Store, secret string) *AuthHandler {
	return &AuthHandler{Store: st, Secret: secret}
}

func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/signup", h.signup)
	mux.HandleFunc("/login", h.login)
	mux.HandleFunc("/logout", h.logout)
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (credentials, bool) {
	var c credentials
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_body", nil)
		return c, false
	}
	c.Email = strings.TrimSpace(c.Email)
	if c.Email == "" || c.Password == "" {
		httpx.JSONError(w, http.StatusBadRequest, "email_and_password_required", nil)
		return c, false
	}
	return c, true
}

func (h *AuthHandler) signup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	c, ok := decodeCredentials(w, r)
	if !ok {
		return
	}
	sess, err := h.Store.CreateAccount(c.Email, c.Password)
	if err != nil {
		httpx.StoreError(w, err)
		return
	}
	auth.CreateSession(w, sess.Token, h.Secret)
	httpx.JSON(w, http.StatusCreated, map[string]any{"email": sess.Email})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	c, ok := decodeCredentials(w, r)
	if !ok {
		return
	}
	sess, err := h.Store.Authenticate(c.Email, c.Password)
	if err != nil {
		httpx.StoreError(w, err)
		return
	}
	auth.CreateSession(w, sess.Token, h.Secret)
	httpx.JSON(w, http.StatusOK, map[string]any{"email": sess.Email})
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	if token, ok := auth.TokenFromContext(r.Context()); ok {
		if sess, err := h.Store.Resolve(token); err == nil {
			_ = h.Store.EndSession(sess)
		}
	}
	auth.ClearSession(w)
	w.WriteHeader(http.StatusNoContent)
}
