package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"APP_ENV", "ENV", "PORT", "DATABASE_URL", "JWT_SECRET", "JWT_TTL", "OPERATOR_PASSWORD_HASH",
		"AUTH_ENABLED", "REDIS_URL", "COLOR_CACHE_TTL", "BATCH_ALLOCATION", "EXPORT_RATE_LIMIT",
		"EXPORT_RATE_BURST", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("AUTH_ENABLED", "false")

	cfg, err := fromEnv()
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "stadium.db", cfg.DatabaseURL)
	assert.Equal(t, 12*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 10*time.Minute, cfg.ColorCacheTTL)
	assert.Equal(t, "incremental", cfg.BatchAllocation)
	assert.Equal(t, 2.0, cfg.ExportRateLimit)
	assert.Equal(t, 4, cfg.ExportBurst)
	assert.False(t, cfg.AuthEnabled)
	assert.Empty(t, cfg.CORSAllowedOrigins)
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPERATOR_PASSWORD_HASH", "$2a$10$hash")
	t.Setenv("BATCH_ALLOCATION", "Snapshot")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, ,https://b.example.com")

	cfg, err := fromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.AuthEnabled)
	assert.Equal(t, "snapshot", cfg.BatchAllocation)
	assert.Equal(t, 30*time.Minute, cfg.JWTTTL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
}

func TestFromEnv_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"bad duration":       {"AUTH_ENABLED": "false", "JWT_TTL": "soon"},
		"bad allocation":     {"AUTH_ENABLED": "false", "BATCH_ALLOCATION": "greedy"},
		"zero rate":          {"AUTH_ENABLED": "false", "EXPORT_RATE_LIMIT": "0"},
		"auth without hash":  {"AUTH_ENABLED": "true"},
		"prod default jwt":   {"APP_ENV": "production", "OPERATOR_PASSWORD_HASH": "x"},
		"prod auth disabled": {"APP_ENV": "prod", "AUTH_ENABLED": "false", "JWT_SECRET": "real"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := fromEnv()
			assert.Error(t, err)
		})
	}
}
