package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/clicklabs/facturas/internal/config"
	"github.com/clicklabs/facturas/internal/logger"
	"github.com/clicklabs/facturas/internal/storage"
	"github.com/clicklabs/facturas/internal/store"
)

func withLogging(log *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)))
	})
}

func openStorage(cfg config.Config) (storage.Storage, error) {
	switch cfg.StorageBackend {
	case "file":
		return storage.NewFileStorage(cfg.DataPath), nil
	case "sqlite":
		return storage.OpenSQLite(cfg.DataPath)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	backend, err := openStorage(cfg)
	if err != nil {
		log.Fatal("open storage", zap.Error(err))
	}
	st, err := store.Open(backend,
		store.WithQuota(cfg.InvoiceQuota),
		store.WithTaxRate(decimal.NewFromFloat(cfg.TaxRate)))
	if err != nil {
		log.Fatal("open store", zap.Error(err))
	}

	log.Info("starting server",
		zap.String("env", cfg.Env),
		zap.String("port", cfg.Port),
		zap.String("backend", cfg.StorageBackend))

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: withLogging(log, NewApp(st, cfg))}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("error during shutdown", zap.Error(err))
	}
	log.Info("server gracefully stopped")
}
