package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvDefaults(t *testing.T) {
	cfg := LoadEnv()

	assert.Equal(t, ":8082", cfg.Server.GRPCPort)
	assert.Equal(t, ":8083", cfg.Server.HTTPPort)
	assert.Equal(t, 10, cfg.Postgres.MaxOpenConns)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.Server.TrustGatewayHeaders)
}

func TestValidateNeedsAnAuthSource(t *testing.T) {
	cfg := LoadEnv()
	cfg.JWT.SecretKey = ""
	assert.Error(t, cfg.Validate())

	cfg.Server.TrustGatewayHeaders = true
	assert.NoError(t, cfg.Validate())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("POSTGRES_MAX_OPEN_CONNS", "25")
	t.Setenv("POSTGRES_MIGRATE_ON_START", "true")
	t.Setenv("REDIS_CACHE_TTL_SECONDS", "30")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("LOGGER_DISABLE_CALLER", "not-a-bool")

	cfg := LoadEnv()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 25, cfg.Postgres.MaxOpenConns)
	assert.True(t, cfg.Postgres.MigrateOnStart)
	assert.Equal(t, 30*time.Second, cfg.Redis.CacheTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.False(t, cfg.Logger.DisableCaller)
}

func TestValidate(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	cfg := LoadEnv()
	require.Error(t, cfg.Validate())

	cfg.JWT.SecretKey = "s3cret"
	assert.NoError(t, cfg.Validate())

	cfg.Server.GRPCPort = ""
	cfg.Server.HTTPPort = ""
	assert.Error(t, cfg.Validate())
}
