package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/deppfellow/invoice-dashboard/internal/config"
	"github.com/deppfellow/invoice-dashboard/internal/lib/job"
	"github.com/deppfellow/invoice-dashboard/internal/model"
	"github.com/deppfellow/invoice-dashboard/internal/model/placeholder"
	"github.com/deppfellow/invoice-dashboard/internal/repository"
)

// ErrJobsUnavailable is returned by Enqueue when no job queue is wired,
// as in the seed CLI.
var ErrJobsUnavailable = errors.New("background jobs are not available")

type (
	userWriter     interface{ Upsert(context.Context, model.User) error }
	customerWriter interface{ Upsert(context.Context, model.Customer) error }
	invoiceWriter  interface{ Upsert(context.Context, model.Invoice) error }
	revenueWriter  interface{ Upsert(context.Context, model.Revenue) error }
)

// TaskEnqueuer is satisfied by *asynq.Client.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// SeedData is the data set a seed run writes.
type SeedData struct {
	Users     []model.User
	Customers []model.Customer
	Invoices  []model.Invoice
	Revenue   []model.Revenue
}

// PlaceholderData returns the demo data set.
func PlaceholderData() SeedData {
	return SeedData{
		Users:     placeholder.Users,
		Customers: placeholder.Customers,
		Invoices:  placeholder.Invoices,
		Revenue:   placeholder.Revenue,
	}
}

// SeedResult counts the rows written per table. Rows that already existed
// are counted too.
type SeedResult struct {
	Users     int `json:"users"`
	Customers int `json:"customers"`
	Invoices  int `json:"invoices"`
	Revenue   int `json:"revenue"`
}

type SeedService struct {
	users     userWriter
	customers customerWriter
	invoices  invoiceWriter
	revenue   revenueWriter
	jobs      TaskEnqueuer
	data      SeedData
	cfg       config.SeedConfig
	env       string
	reports   bool
	logger    *zerolog.Logger
}

// NewSeedService builds the seeder over the placeholder data. jobs may be
// nil, in which case Enqueue fails and no seed report is sent.
func NewSeedService(cfg *config.Config, logger *zerolog.Logger, repos *repository.Repositories, jobs TaskEnqueuer) *SeedService {
	return &SeedService{
		users:     repos.Users,
		customers: repos.Customers,
		invoices:  repos.Invoices,
		revenue:   repos.Revenue,
		jobs:      jobs,
		data:      PlaceholderData(),
		cfg:       cfg.Seed,
		env:       cfg.Primary.Env,
		reports:   cfg.Seed.NotifyEmail != "" && cfg.Integration.ResendAPIKey != "",
		logger:    logger,
	}
}

// Seed writes users, customers, invoices and revenue, in that order. Rows
// within a table are upserted in parallel; the first failure cancels the
// rest of that table and is returned.
func (s *SeedService) Seed(ctx context.Context) (SeedResult, error) {
	start := time.Now()
	var result SeedResult

	phases := []struct {
		table string
		count *int
		run   func(context.Context) (int, error)
	}{
		{"users", &result.Users, s.seedUsers},
		{"customers", &result.Customers, s.seedCustomers},
		{"invoices", &result.Invoices, s.seedInvoices},
		{"revenue", &result.Revenue, s.seedRevenue},
	}

	for _, phase := range phases {
		n, err := phase.run(ctx)
		if err != nil {
			return SeedResult{}, fmt.Errorf("seeding %s: %w", phase.table, err)
		}
		*phase.count = n
		s.log(ctx).Info().Int("count", n).Msgf("seeded %d %s", n, phase.table)
	}

	duration := time.Since(start)
	s.log(ctx).Info().Dur("duration", duration).Msg("database seeded")

	s.enqueueReport(ctx, result, duration)

	return result, nil
}

func (s *SeedService) seedUsers(ctx context.Context) (int, error) {
	return upsertAll(ctx, s.cfg.Concurrency, s.data.Users, func(ctx context.Context, user model.User) error {
		hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), s.cfg.BcryptCost)
		if err != nil {
			s.log(ctx).Error().Err(err).Str("email", user.Email).Msg("failed to hash user password")
			return fmt.Errorf("hashing password for %s: %w", user.Email, err)
		}

		user.Password = string(hash)
		if err := s.users.Upsert(ctx, user); err != nil {
			s.log(ctx).Error().Err(err).Str("email", user.Email).Msg("failed to seed user")
			return err
		}
		return nil
	})
}

func (s *SeedService) seedCustomers(ctx context.Context) (int, error) {
	return upsertAll(ctx, s.cfg.Concurrency, s.data.Customers, func(ctx context.Context, customer model.Customer) error {
		if err := s.customers.Upsert(ctx, customer); err != nil {
			s.log(ctx).Error().Err(err).Str("name", customer.Name).Msg("failed to seed customer")
			return err
		}
		return nil
	})
}

func (s *SeedService) seedInvoices(ctx context.Context) (int, error) {
	return upsertAll(ctx, s.cfg.Concurrency, s.data.Invoices, func(ctx context.Context, invoice model.Invoice) error {
		if err := s.invoices.Upsert(ctx, invoice); err != nil {
			s.log(ctx).Error().Err(err).
				Str("customer_id", invoice.CustomerID).
				Int("amount", invoice.Amount).
				Msg("failed to seed invoice")
			return err
		}
		return nil
	})
}

func (s *SeedService) seedRevenue(ctx context.Context) (int, error) {
	return upsertAll(ctx, s.cfg.Concurrency, s.data.Revenue, func(ctx context.Context, revenue model.Revenue) error {
		if err := s.revenue.Upsert(ctx, revenue); err != nil {
			s.log(ctx).Error().Err(err).Str("month", revenue.Month).Msg("failed to seed revenue")
			return err
		}
		return nil
	})
}

// log prefers the request logger carried by ctx so seed logs share the
// request ID.
func (s *SeedService) log(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return s.logger
}

// upsertAll runs upsert for every row with at most limit calls in flight.
func upsertAll[T any](ctx context.Context, limit int, rows []T, upsert func(context.Context, T) error) (int, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(limit, 1))

	for _, row := range rows {
		g.Go(func() error {
			return upsert(ctx, row)
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// EnqueueResult describes a background seed request.
type EnqueueResult struct {
	TaskID    string
	Duplicate bool
}

// Enqueue schedules a background seed. When a seed is already queued or
// running no new task is created and Duplicate is set.
func (s *SeedService) Enqueue(ctx context.Context) (EnqueueResult, error) {
	if s.jobs == nil {
		return EnqueueResult{}, ErrJobsUnavailable
	}

	info, err := s.jobs.EnqueueContext(ctx, job.NewSeedTask())
	if errors.Is(err, asynq.ErrDuplicateTask) {
		s.log(ctx).Info().Msg("seed task already queued")
		return EnqueueResult{Duplicate: true}, nil
	}
	if err != nil {
		return EnqueueResult{}, fmt.Errorf("enqueueing seed task: %w", err)
	}

	s.log(ctx).Info().Str("task_id", info.ID).Str("queue", info.Queue).Msg("seed task enqueued")
	return EnqueueResult{TaskID: info.ID}, nil
}

// HandleSeedTask is the asynq handler for job.TaskSeed.
func (s *SeedService) HandleSeedTask(ctx context.Context, _ *asynq.Task) error {
	_, err := s.Seed(ctx)
	return err
}

// enqueueReport queues the seed report email. Failing to queue it does not
// fail the seed.
func (s *SeedService) enqueueReport(ctx context.Context, result SeedResult, duration time.Duration) {
	if !s.reports || s.jobs == nil {
		return
	}

	task, err := job.NewSeedReportTask(job.SeedReportPayload{
		To:          s.cfg.NotifyEmail,
		Environment: s.env,
		Users:       result.Users,
		Customers:   result.Customers,
		Invoices:    result.Invoices,
		Revenue:     result.Revenue,
		Duration:    duration,
	})
	if err != nil {
		s.log(ctx).Error().Err(err).Msg("failed to build seed report task")
		return
	}

	if _, err := s.jobs.EnqueueContext(ctx, task); err != nil {
		s.log(ctx).Error().Err(err).Msg("failed to enqueue seed report task")
	}
}
