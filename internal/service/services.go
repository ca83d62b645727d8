// Package service holds the business logic between handlers and
// repositories.
package service

import (
	"github.com/deppfellow/invoice-dashboard/internal/lib/job"
	"github.com/deppfellow/invoice-dashboard/internal/repository"
	"github.com/deppfellow/invoice-dashboard/internal/server"
)

type Services struct {
	Auth    *AuthService
	Job     *job.JobService
	Seed    *SeedService
	Invoice *InvoiceService
}

// NewServices builds every service and registers the seed task handler
// on the job server.
func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	seedService := NewSeedService(s.Config, s.Logger, repos, s.Job.Client)
	s.Job.Handle(job.TaskSeed, seedService.HandleSeedTask)

	return &Services{
		Auth:    NewAuthService(s),
		Job:     s.Job,
		Seed:    seedService,
		Invoice: NewInvoiceService(repos.Invoices, s.Config.Seed.QueryAmount),
	}, nil
}
