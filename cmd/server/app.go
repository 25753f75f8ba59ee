package main

import (
	"net/http"

	"github.com/clicklabs/facturas/internal/auth"
	"github.com/clicklabs/facturas/internal/config"
	"github.com/clicklabs/facturas/internal/handlers"
	"github.com/clicklabs/facturas/internal/render"
	"github.com/clicklabs/facturas/internal/store"
)

// NewApp bundles all routes behind the session middleware.
func NewApp(st *store.Store, cfg config.Config) http.Handler {
	renderer := render.NewRenderer(cfg.Locale, cfg.Currency)

	mux := http.NewServeMux()
	handlers.NewAuthHandler(st, cfg.SessionSecret).Register(mux)
	handlers.NewInvoiceHandler(st, renderer).Register(mux)
	handlers.NewTemplateHandler().Register(mux)

	return auth.Middleware(cfg.SessionSecret)(mux)
}
