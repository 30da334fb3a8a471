// Package config loads runtime configuration from the environment.
// Every tunable ends up as an explicit value passed into a constructor;
// nothing in the core packages reads the environment directly.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.
type Config struct {
	Addr                   string        // HTTP listen address
	DataDir                string        // directory for the SQLite database
	DefaultSyncIntervalMin int           // sync cadence for properties without their own
	FetchTimeout           time.Duration // per-feed-request timeout
	MaxStayNights          int           // longest bookable stay; 0 disables the cap
	ExportCacheTTL         time.Duration // TTL for export token/label lookups
}

// Load reads configuration from a .env file (if present) and the
// process environment, falling back to defaults suitable for local
// development.
func Load() Config {
	// A missing .env file is fine; real deployments set env directly.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	return Config{
		Addr:                   getEnv("ADDR", ":8080"),
		DataDir:                getEnv("DATA_DIR", "./data"),
		DefaultSyncIntervalMin: getEnvInt("SYNC_INTERVAL_MIN", 180),
		FetchTimeout:           time.Duration(getEnvInt("FETCH_TIMEOUT_SEC", 20)) * time.Second,
		MaxStayNights:          getEnvInt("MAX_STAY_NIGHTS", 90),
		ExportCacheTTL:         time.Duration(getEnvInt("EXPORT_CACHE_TTL_MIN", 5)) * time.Minute,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}
