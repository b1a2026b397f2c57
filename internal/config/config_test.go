package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		old, existed := os.LookupEnv(k)
		os.Unsetenv(k)
		t.Cleanup(func() {
			if existed {
				os.Setenv(k, old)
			}
		})
	}
}

var allKeys = []string{
	"NODE_ENV", "SERVER_PORT", "SERVER_SHUTDOWN_TIMEOUT",
	"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_MAX_CONNS", "DB_MIN_CONNS",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	"JWT_SECRET", "ADMIN_API_TOKEN",
	"STRIPE_SECRET_KEY", "STRIPE_WEBHOOK_SECRET", "DEV_WEBHOOK_FALLBACK_SECRET",
}

func TestLoad_DevelopmentDefaults(t *testing.T) {
	clearEnv(t, allKeys...)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.True(t, cfg.Security.DevFallbackOK)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoad_ProductionRequiresSecrets(t *testing.T) {
	clearEnv(t, allKeys...)
	os.Setenv("NODE_ENV", "production")

	_, err := Load()
	require.Error(t, err, "production must fail fast without DB_PASSWORD/JWT_SECRET/ADMIN_API_TOKEN/STRIPE_WEBHOOK_SECRET")
}

func TestLoad_ProductionSucceedsWithAllSecretsSet(t *testing.T) {
	clearEnv(t, allKeys...)
	os.Setenv("NODE_ENV", "production")
	os.Setenv("DB_PASSWORD", "s3cret")
	os.Setenv("JWT_SECRET", "jwt-secret")
	os.Setenv("ADMIN_API_TOKEN", "admin-token")
	os.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_live")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.Security.DevFallbackOK)
}

func TestLoad_OverridesFromEnv(t *testing.T) {
	clearEnv(t, allKeys...)
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("DB_MAX_CONNS", "50")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, int32(50), cfg.Database.MaxConns)
}
