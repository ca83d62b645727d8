package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	env := map[string]string{
		"DASHBOARD_PRIMARY.ENV":                 "development",
		"DASHBOARD_SERVER.PORT":                 "8080",
		"DASHBOARD_SERVER.READ_TIMEOUT":         "30",
		"DASHBOARD_SERVER.WRITE_TIMEOUT":        "30",
		"DASHBOARD_SERVER.IDLE_TIMEOUT":         "60",
		"DASHBOARD_SERVER.CORS_ALLOWED_ORIGINS": "http://localhost:3000, https://dashboard.example.com",
		"DASHBOARD_DATABASE.HOST":               "db.example.supabase.co",
		"DASHBOARD_DATABASE.PORT":               "5432",
		"DASHBOARD_DATABASE.USER":               "postgres",
		"DASHBOARD_DATABASE.PASSWORD":           "p@ss,word",
		"DASHBOARD_DATABASE.NAME":               "postgres",
		"DASHBOARD_DATABASE.SSL_MODE":           "require",
		"DASHBOARD_DATABASE.MAX_OPEN_CONNS":     "10",
		"DASHBOARD_DATABASE.MAX_IDLE_CONNS":     "5",
		"DASHBOARD_DATABASE.CONN_MAX_LIFETIME":  "300",
		"DASHBOARD_DATABASE.CONN_MAX_IDLE_TIME": "60",
		"DASHBOARD_REDIS.ADDRESS":               "localhost:6379",
	}
	for k, v := range env {
		t.Setenv(k, v)
	}
}

func TestLoadConfig(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Primary.Env)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000", "https://dashboard.example.com"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, 5432, cfg.Database.Port)
	// Commas outside list keys are left alone.
	assert.Equal(t, "p@ss,word", cfg.Database.Password)
}

func TestLoadConfig_SeedDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Seed.BcryptCost)
	assert.Equal(t, 8, cfg.Seed.Concurrency)
	assert.Equal(t, 666, cfg.Seed.QueryAmount)
	assert.InDelta(t, 1.0, cfg.Seed.RateLimit, 0.0001)
	assert.False(t, cfg.Seed.RequireAuth)
	assert.Empty(t, cfg.Seed.NotifyEmail)
}

func TestLoadConfig_SeedOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DASHBOARD_SEED.BCRYPT_COST", "4")
	t.Setenv("DASHBOARD_SEED.QUERY_AMOUNT", "1250")
	t.Setenv("DASHBOARD_SEED.NOTIFY_EMAIL", "ops@example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Seed.BcryptCost)
	assert.Equal(t, 1250, cfg.Seed.QueryAmount)
	assert.Equal(t, "ops@example.com", cfg.Seed.NotifyEmail)
}

func TestLoadConfig_DefaultObservability(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg.Observability)

	assert.Equal(t, ServiceName, cfg.Observability.ServiceName)
	assert.Equal(t, "development", cfg.Observability.Environment)
	assert.Equal(t, "info", cfg.Observability.Logging.Level)
	assert.Equal(t, 5*time.Second, cfg.Observability.HealthChecks.Timeout)
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DASHBOARD_DATABASE.HOST", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Host")
}

func TestLoadConfig_InvalidBcryptCost(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DASHBOARD_SEED.BCRYPT_COST", "2")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BcryptCost")
}

func TestLoadConfig_RequireAuthWithoutKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DASHBOARD_SEED.REQUIRE_AUTH", "true")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth.secret_key")
}

func TestObservabilityConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *ObservabilityConfig)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(c *ObservabilityConfig) {}},
		{
			name:    "unknown level",
			mutate:  func(c *ObservabilityConfig) { c.Logging.Level = "verbose" },
			wantErr: "invalid logging level",
		},
		{
			name:    "unknown format",
			mutate:  func(c *ObservabilityConfig) { c.Logging.Format = "xml" },
			wantErr: "invalid logging format",
		},
		{
			name:    "negative slow query threshold",
			mutate:  func(c *ObservabilityConfig) { c.Logging.SlowQueryThreshold = -time.Second },
			wantErr: "slow_query_threshold",
		},
		{
			name:    "health check timeout too small",
			mutate:  func(c *ObservabilityConfig) { c.HealthChecks.Timeout = 10 * time.Millisecond },
			wantErr: "health_checks timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultObservabilityConfig()
			tt.mutate(c)

			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestObservabilityConfig_HealthCheckEnabled(t *testing.T) {
	c := DefaultObservabilityConfig()
	assert.True(t, c.HealthCheckEnabled("database"))
	assert.True(t, c.HealthCheckEnabled("redis"))
	assert.False(t, c.HealthCheckEnabled("smtp"))

	c.HealthChecks.Enabled = false
	assert.False(t, c.HealthCheckEnabled("database"))
}

func TestObservabilityConfig_GetLogLevel(t *testing.T) {
	c := DefaultObservabilityConfig()
	c.Logging.Level = ""

	c.Environment = "production"
	assert.Equal(t, "info", c.GetLogLevel())

	c.Environment = "development"
	assert.Equal(t, "debug", c.GetLogLevel())

	c.Logging.Level = "warn"
	assert.Equal(t, "warn", c.GetLogLevel())
}
