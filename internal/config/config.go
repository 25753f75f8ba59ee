package config

import (
	"log"
	"math"
	"os"
	"strconv"
)

type Config struct {
	Port           string
	Env            string
	StorageBackend string // "file" or "sqlite"
	DataPath       string
	SessionSecret  string
	InvoiceQuota   int
	TaxRate        float64 // fixed rate for invoices without per-item rates
	Locale         string
	Currency       string
	LogLevel       string
}

// Load loads configuration from environment with sensible defaults.
// Precedence: explicit env var > .env file (if loaded by caller) > default.
func Load() Config {
	cfg := Config{}
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("APP_ENV", "development")
	cfg.StorageBackend = getEnv("STORAGE_BACKEND", "file")
	cfg.DataPath = getEnv("DATA_PATH", "data/state.json")
	cfg.SessionSecret = getEnv("SESSION_SECRET", "devsessionsecret")
	cfg.InvoiceQuota = ParseInt("INVOICE_QUOTA", 3)
	cfg.TaxRate = ParseFloat("TAX_RATE", 0.21)
	cfg.Locale = getEnv("LOCALE", "es-ES")
	cfg.Currency = getEnv("CURRENCY", "EUR")
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// ParseInt reads an env var as int with default.
func ParseInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid integer for %s: %s", key, v)
			return def
		}
		return n
	}
	return def
}

// ParseFloat reads an env var as float64 with default.
func ParseFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			log.Printf("invalid number for %s: %s", key, v)
			return def
		}
		return f
	}
	return def
}
