package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/invoice-dashboard/internal/errs"
	"github.com/deppfellow/invoice-dashboard/internal/server"
	"github.com/deppfellow/invoice-dashboard/internal/service"
)

const (
	MessageSeeded        = "Database seeded successfully"
	MessageSeedEnqueued  = "Database seed enqueued"
	MessageSeedDuplicate = "Database seed already in progress"
)

type seeder interface {
	Seed(ctx context.Context) (service.SeedResult, error)
	Enqueue(ctx context.Context) (service.EnqueueResult, error)
}

type SeedHandler struct {
	Handler
	seeder seeder
}

func NewSeedHandler(s *server.Server, seeder seeder) *SeedHandler {
	return &SeedHandler{
		Handler: NewHandler(s),
		seeder:  seeder,
	}
}

type SeedRequest struct {
	Async bool `query:"async"`
}

func (r *SeedRequest) Validate() error {
	return validate.Struct(r)
}

type SeedResponse struct {
	Message string              `json:"message"`
	Seeded  *service.SeedResult `json:"seeded,omitempty"`
	TaskID  string              `json:"task_id,omitempty"`

	status int
}

// StatusCode is 202 for queued seeds and 200 otherwise.
func (r *SeedResponse) StatusCode() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

// Seed serves GET /seed. The seed runs inline and answers 200, or with
// ?async=true is queued as a background job and answers 202.
func (h *SeedHandler) Seed() echo.HandlerFunc {
	return Handle(h.Handler, func(c echo.Context, req *SeedRequest) (*SeedResponse, error) {
		if req.Async {
			return h.enqueue(c)
		}
		return h.seed(c)
	}, http.StatusOK)
}

func (h *SeedHandler) seed(c echo.Context) (*SeedResponse, error) {
	result, err := h.seeder.Seed(c.Request().Context())
	if err != nil {
		return nil, internalError(c, err, "failed to seed database")
	}

	return &SeedResponse{Message: MessageSeeded, Seeded: &result}, nil
}

func (h *SeedHandler) enqueue(c echo.Context) (*SeedResponse, error) {
	res, err := h.seeder.Enqueue(c.Request().Context())
	if errors.Is(err, service.ErrJobsUnavailable) {
		return nil, errs.NewBadRequestError("Background seeding is not available", true, nil, nil, nil)
	}
	if err != nil {
		return nil, internalError(c, err, "failed to enqueue database seed")
	}

	if res.Duplicate {
		return &SeedResponse{Message: MessageSeedDuplicate, status: http.StatusAccepted}, nil
	}
	return &SeedResponse{Message: MessageSeedEnqueued, TaskID: res.TaskID, status: http.StatusAccepted}, nil
}
