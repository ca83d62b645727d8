// Command seed writes the demo data set into the configured database and
// prints the per-table counts as JSON. It does the same work as GET /seed
// without starting the HTTP server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/deppfellow/invoice-dashboard/internal/config"
	"github.com/deppfellow/invoice-dashboard/internal/database"
	"github.com/deppfellow/invoice-dashboard/internal/lib/utils"
	"github.com/deppfellow/invoice-dashboard/internal/logger"
	"github.com/deppfellow/invoice-dashboard/internal/repository"
	"github.com/deppfellow/invoice-dashboard/internal/server"
	"github.com/deppfellow/invoice-dashboard/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	err = run(cfg, &log, loggerService)
	loggerService.Shutdown()

	if err != nil {
		log.Error().Err(err).Msg("seed failed")
		os.Exit(1)
	}
}

// run returns instead of exiting so the pool is always closed.
func run(cfg *config.Config, log *zerolog.Logger, loggerService *logger.LoggerService) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(ctx, log, cfg); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	db, err := database.New(cfg, log, loggerService)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	repos := repository.NewRepositories(&server.Server{Config: cfg, Logger: log, LoggerService: loggerService, DB: db})
	seeder := service.NewSeedService(cfg, log, repos, nil)

	result, err := seeder.Seed(log.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}

	if err := utils.PrintJSON(os.Stdout, result); err != nil {
		return fmt.Errorf("failed to print seed result: %w", err)
	}
	return nil
}
