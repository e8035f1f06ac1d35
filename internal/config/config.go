package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

const devSecret = "dev-secret-change-in-production"

// Config holds all process configuration. It is loaded once at startup
// and passed explicitly to the components that need it; nothing reads
// the environment after Load returns.
type Config struct {
	Port        string
	Env         string
	DatabaseDSN string
	TokenSecret string
	TokenIssuer string
	TokenTTL    time.Duration
}

// Load reads configuration from environment variables, applying
// development defaults.
func Load() Config {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		DatabaseDSN: getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/skillswap?parseTime=true"),
		TokenSecret: getEnv("JWT_SECRET", devSecret),
		TokenIssuer: getEnv("JWT_ISSUER", "skillswap"),
		TokenTTL:    getEnvDuration("JWT_TTL_MINUTES", 30) * time.Minute,
	}

	if cfg.Env == "production" && cfg.TokenSecret == devSecret {
		slog.Error("JWT_SECRET must be set in production environment")
		os.Exit(1)
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback int64) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return time.Duration(n)
		}
		slog.Warn("invalid duration value, using default", "key", key, "value", v)
	}
	return time.Duration(fallback)
}
