package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort            = "8080"
	defaultDatabaseURL     = "stadium.db"
	defaultJWTSecret       = "change-me-jwt-secret"
	defaultJWTTTL          = "12h"
	defaultAuthEnabled     = "true"
	defaultColorCacheTTL   = "10m"
	defaultBatchAllocation = "incremental"
	defaultExportRateLimit = "2"
	defaultExportBurst     = "4"
)

type Config struct {
	AppEnv               string
	Port                 string
	DatabaseURL          string
	JWTSecret            string
	JWTTTL               time.Duration
	OperatorPasswordHash string
	AuthEnabled          bool
	RedisURL             string
	ColorCacheTTL        time.Duration
	BatchAllocation      string
	ExportRateLimit      float64
	ExportBurst          int
	CORSAllowedOrigins   []string
}

// Load reads configuration from the environment, after merging a .env file
// when one exists. Variables already set win over .env entries.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return fromEnv()
}

func fromEnv() (*Config, error) {
	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.OperatorPasswordHash = strings.TrimSpace(os.Getenv("OPERATOR_PASSWORD_HASH"))
	cfg.AuthEnabled = parseBoolEnv("AUTH_ENABLED", defaultAuthEnabled)
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.BatchAllocation = strings.ToLower(strings.TrimSpace(getEnv("BATCH_ALLOCATION", defaultBatchAllocation)))
	cfg.CORSAllowedOrigins = splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))

	var err error
	cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL)
	if err != nil {
		return nil, err
	}

	cfg.ColorCacheTTL, err = parseDurationEnv("COLOR_CACHE_TTL", defaultColorCacheTTL)
	if err != nil {
		return nil, err
	}

	cfg.ExportRateLimit, err = parseFloatEnv("EXPORT_RATE_LIMIT", defaultExportRateLimit)
	if err != nil {
		return nil, err
	}

	burst, err := parseFloatEnv("EXPORT_RATE_BURST", defaultExportBurst)
	if err != nil {
		return nil, err
	}
	cfg.ExportBurst = int(burst)

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	log.Printf("config loaded: env=%s port=%s auth=%t redis=%t allocation=%s", cfg.AppEnv, cfg.Port, cfg.AuthEnabled, cfg.RedisURL != "", cfg.BatchAllocation)

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.ColorCacheTTL <= 0 {
		return fmt.Errorf("COLOR_CACHE_TTL must be > 0")
	}
	if cfg.ExportRateLimit <= 0 {
		return fmt.Errorf("EXPORT_RATE_LIMIT must be > 0")
	}
	if cfg.ExportBurst < 1 {
		return fmt.Errorf("EXPORT_RATE_BURST must be >= 1")
	}
	if cfg.BatchAllocation != "incremental" && cfg.BatchAllocation != "snapshot" {
		return fmt.Errorf("BATCH_ALLOCATION must be one of: incremental, snapshot")
	}
	if cfg.AuthEnabled && cfg.OperatorPasswordHash == "" {
		return fmt.Errorf("OPERATOR_PASSWORD_HASH must be set when AUTH_ENABLED=true")
	}

	if isProdLike(cfg.AppEnv) {
		if !cfg.AuthEnabled {
			return fmt.Errorf("in prod/release AUTH_ENABLED must be true")
		}
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseFloatEnv(name, fallback string) (float64, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return f, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
