package main

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/invoice-dashboard/internal/config"
	"github.com/deppfellow/invoice-dashboard/internal/logger"
)

func TestRun_ReturnsErrorWhenDatabaseUnreachable(t *testing.T) {
	cfg := &config.Config{
		Primary: config.Primary{Env: "test"},
		Database: config.DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     1,
			User:     "postgres",
			Password: "postgres",
			Name:     "dashboard",
			SSLMode:  "disable",
		},
		Observability: config.DefaultObservabilityConfig(),
	}
	log := zerolog.Nop()

	err := run(cfg, &log, logger.NewLoggerService(cfg.Observability))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to migrate database")
}
