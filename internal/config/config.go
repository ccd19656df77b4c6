// Package config loads process-wide configuration from the environment.
package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config carries every startup input. The signing secret has no default:
// a process without one refuses to start.
type Config struct {
	HTTPAddr    string
	DatabaseURL string

	AuthSecret string
	TokenTTL   time.Duration

	UploadDir      string
	UploadMaxBytes int64

	PublicDir    string
	ProtectedDir string

	RateBurst  int
	RatePerSec int
}

// Load reads configuration from THESIS_* environment variables.
func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:       getenv("THESIS_HTTP_ADDR", ":3000"),
		DatabaseURL:    getenv("THESIS_PG_DSN", ""),
		AuthSecret:     os.Getenv("THESIS_AUTH_SECRET"),
		TokenTTL:       getenvDuration("THESIS_TOKEN_TTL", time.Hour),
		UploadDir:      getenv("THESIS_UPLOAD_DIR", "uploads"),
		UploadMaxBytes: getenvInt64("THESIS_UPLOAD_MAX_BYTES", 25<<20),
		PublicDir:      getenv("THESIS_PUBLIC_DIR", "web/public"),
		ProtectedDir:   getenv("THESIS_PROTECTED_DIR", "web/protected"),
		RateBurst:      getenvInt("THESIS_RATE_BURST", 20),
		RatePerSec:     getenvInt("THESIS_RATE_PER_SEC", 10),
	}
	if cfg.AuthSecret == "" {
		return Config{}, errors.New("config: THESIS_AUTH_SECRET is required")
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvInt64(key string, fallback int64) int64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseInt(val, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
