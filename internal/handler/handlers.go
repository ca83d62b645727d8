// Package handler is the HTTP layer. Handlers bind and validate requests,
// call the services and shape their results into responses.
package handler

import (
	"github.com/go-playground/validator/v10"

	"github.com/deppfellow/invoice-dashboard/internal/server"
	"github.com/deppfellow/invoice-dashboard/internal/service"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
	Seed    *SeedHandler
	Invoice *InvoiceHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		Seed:    NewSeedHandler(s, services.Seed),
		Invoice: NewInvoiceHandler(s, services.Invoice),
	}
}
