package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/deppfellow/invoice-dashboard/internal/config"
	"github.com/deppfellow/invoice-dashboard/internal/lib/email"
)

type reportSender interface {
	SendSeedReportEmail(to string, report email.SeedReport) error
}

// InitHandlers registers the handlers owned by this package.
func (j *JobService) InitHandlers(cfg *config.Config, logger *zerolog.Logger) {
	j.emails = email.NewClient(cfg, logger)
	j.Handle(TaskSeedReport, j.handleSeedReportTask)
}

func (j *JobService) handleSeedReportTask(ctx context.Context, t *asynq.Task) error {
	var p SeedReportPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal seed report payload: %w: %w", err, asynq.SkipRetry)
	}

	log := j.logger.With().
		Str("type", TaskSeedReport).
		Str("to", p.To).
		Logger()

	log.Info().Msg("processing seed report email task")

	err := j.emails.SendSeedReportEmail(p.To, email.SeedReport{
		Environment: p.Environment,
		Users:       p.Users,
		Customers:   p.Customers,
		Invoices:    p.Invoices,
		Revenue:     p.Revenue,
		Duration:    p.Duration,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to send seed report email")
		return err
	}

	log.Info().Msg("sent seed report email")
	return nil
}
