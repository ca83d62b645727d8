package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/invoice-dashboard/internal/config"
	"github.com/deppfellow/invoice-dashboard/internal/errs"
	"github.com/deppfellow/invoice-dashboard/internal/middleware"
	"github.com/deppfellow/invoice-dashboard/internal/model"
	"github.com/deppfellow/invoice-dashboard/internal/server"
	"github.com/deppfellow/invoice-dashboard/internal/service"
)

func newTestServer() *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Primary:       config.Primary{Env: "test"},
			Seed:          config.SeedConfig{QueryAmount: 666},
			Observability: config.DefaultObservabilityConfig(),
		},
		Logger: &logger,
	}
}

// serve runs h behind the global error handler the way the router does.
func serve(s *server.Server, path string, h echo.HandlerFunc, target string) *httptest.ResponseRecorder {
	e := echo.New()
	e.HTTPErrorHandler = middleware.NewGlobalMiddlewares(s).GlobalErrorHandler
	e.GET(path, h)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

type fakeSeeder struct {
	result     service.SeedResult
	seedErr    error
	enqueue    service.EnqueueResult
	enqueueErr error
	seeded     int
}

func (f *fakeSeeder) Seed(context.Context) (service.SeedResult, error) {
	f.seeded++
	return f.result, f.seedErr
}

func (f *fakeSeeder) Enqueue(context.Context) (service.EnqueueResult, error) {
	return f.enqueue, f.enqueueErr
}

func TestSeedHandler_Inline(t *testing.T) {
	s := newTestServer()
	seeder := &fakeSeeder{result: service.SeedResult{Users: 1, Customers: 6, Invoices: 13, Revenue: 12}}

	rec := serve(s, "/seed", NewSeedHandler(s, seeder).Seed(), "/seed")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"message": "Database seeded successfully",
		"seeded": {"users": 1, "customers": 6, "invoices": 13, "revenue": 12}
	}`, rec.Body.String())
	assert.Equal(t, 1, seeder.seeded)
}

func TestSeedHandler_FailureIsGeneric500(t *testing.T) {
	s := newTestServer()
	seeder := &fakeSeeder{seedErr: errors.New(`seeding users: duplicate key value violates unique constraint "users_email_key"`)}

	rec := serve(s, "/seed", NewSeedHandler(s, seeder).Seed(), "/seed")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "users_email_key")

	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Internal Server Error", body.Message)
}

func TestSeedHandler_Async(t *testing.T) {
	s := newTestServer()
	seeder := &fakeSeeder{enqueue: service.EnqueueResult{TaskID: "0b5c"}}

	rec := serve(s, "/seed", NewSeedHandler(s, seeder).Seed(), "/seed?async=true")

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"message":"Database seed enqueued","task_id":"0b5c"}`, rec.Body.String())
	assert.Zero(t, seeder.seeded)
}

func TestSeedHandler_AsyncDuplicate(t *testing.T) {
	s := newTestServer()
	seeder := &fakeSeeder{enqueue: service.EnqueueResult{Duplicate: true}}

	rec := serve(s, "/seed", NewSeedHandler(s, seeder).Seed(), "/seed?async=1")

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"message":"Database seed already in progress"}`, rec.Body.String())
}

func TestSeedHandler_AsyncWithoutJobs(t *testing.T) {
	s := newTestServer()
	seeder := &fakeSeeder{enqueueErr: service.ErrJobsUnavailable}

	rec := serve(s, "/seed", NewSeedHandler(s, seeder).Seed(), "/seed?async=true")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSeedHandler_AsyncNotBoolean(t *testing.T) {
	s := newTestServer()
	seeder := &fakeSeeder{}

	rec := serve(s, "/seed", NewSeedHandler(s, seeder).Seed(), "/seed?async=yes")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, seeder.seeded)
}

func TestSeedResponse_StatusCode(t *testing.T) {
	assert.Equal(t, http.StatusOK, (&SeedResponse{}).StatusCode())
	assert.Equal(t, http.StatusAccepted, (&SeedResponse{status: http.StatusAccepted}).StatusCode())
}

func TestSeedHandler_AsyncFalseRunsInline(t *testing.T) {
	s := newTestServer()
	seeder := &fakeSeeder{}

	rec := serve(s, "/seed", NewSeedHandler(s, seeder).Seed(), "/seed?async=false")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, seeder.seeded)
}

type fakeInvoices struct {
	amount   int
	invoices []model.Invoice
	csv      []byte
	err      error
}

func (f *fakeInvoices) ListByAmount(_ context.Context, amount int) ([]model.Invoice, error) {
	f.amount = amount
	return f.invoices, f.err
}

func (f *fakeInvoices) ExportCSV(_ context.Context, amount int) ([]byte, error) {
	f.amount = amount
	return f.csv, f.err
}

func TestInvoiceHandler_Query(t *testing.T) {
	s := newTestServer()
	invoices := &fakeInvoices{invoices: []model.Invoice{{
		ID:         "5c6f2a4e-7d37-4b8d-9d7c-0a8f4c1f2b11",
		CustomerID: "d6e15727-9fe1-4961-8c5b-ea44a9bd81aa",
		Amount:     666,
		Status:     model.InvoiceStatusPending,
		Date:       model.NewDate(2023, time.June, 27),
	}}}

	rec := serve(s, "/query", NewInvoiceHandler(s, invoices).Query(), "/query")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{
		"id": "5c6f2a4e-7d37-4b8d-9d7c-0a8f4c1f2b11",
		"customer_id": "d6e15727-9fe1-4961-8c5b-ea44a9bd81aa",
		"amount": 666,
		"status": "pending",
		"date": "2023-06-27"
	}]`, rec.Body.String())
	assert.Zero(t, invoices.amount, "a missing amount is left to the service default")
}

func TestInvoiceHandler_QueryAmount(t *testing.T) {
	s := newTestServer()
	invoices := &fakeInvoices{invoices: []model.Invoice{}}

	rec := serve(s, "/query", NewInvoiceHandler(s, invoices).Query(), "/query?amount=1250")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
	assert.Equal(t, 1250, invoices.amount)
}

func TestInvoiceHandler_QueryValidation(t *testing.T) {
	s := newTestServer()

	for _, target := range []string{"/query?amount=-3", "/query?amount=abc", "/query?amount=3000000000"} {
		invoices := &fakeInvoices{}
		rec := serve(s, "/query", NewInvoiceHandler(s, invoices).Query(), target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Zero(t, invoices.amount, target)
	}
}

func TestInvoiceQuery_AmountFitsIntColumn(t *testing.T) {
	assert.NoError(t, (&InvoiceQuery{Amount: 2147483647}).Validate())
	assert.Error(t, (&InvoiceQuery{Amount: 2147483648}).Validate())
	assert.NoError(t, (&InvoiceQuery{}).Validate())
}

func TestInvoiceHandler_ExportRejectsOutOfRangeAmount(t *testing.T) {
	s := newTestServer()
	rec := serve(s, "/query/export", NewInvoiceHandler(s, &fakeInvoices{}).Export(), "/query/export?amount=3000000000")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInvoiceHandler_QueryFailureIsGeneric500(t *testing.T) {
	s := newTestServer()
	invoices := &fakeInvoices{err: errors.New("relation \"invoices\" does not exist")}

	rec := serve(s, "/query", NewInvoiceHandler(s, invoices).Query(), "/query")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "relation")
}

func TestInvoiceHandler_Export(t *testing.T) {
	s := newTestServer()
	invoices := &fakeInvoices{csv: []byte("id,customer_id,amount,status,date\n")}

	rec := serve(s, "/query/export", NewInvoiceHandler(s, invoices).Export(), "/query/export?amount=666")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "attachment; filename=invoices.csv", rec.Header().Get(echo.HeaderContentDisposition))
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, "id,customer_id,amount,status,date\n", rec.Body.String())
	assert.Equal(t, 666, invoices.amount)
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name     string
		checks   []healthCheck
		status   int
		overall  string
		failures []string
	}{
		{
			name:    "no checks",
			status:  http.StatusOK,
			overall: StatusHealthy,
		},
		{
			name: "all healthy",
			checks: []healthCheck{
				{name: "database", required: true, ping: func(context.Context) error { return nil }},
				{name: "redis", ping: func(context.Context) error { return nil }},
			},
			status:  http.StatusOK,
			overall: StatusHealthy,
		},
		{
			name: "optional dependency down",
			checks: []healthCheck{
				{name: "database", required: true, ping: func(context.Context) error { return nil }},
				{name: "redis", ping: func(context.Context) error { return errors.New("connection refused") }},
			},
			status:   http.StatusOK,
			overall:  StatusHealthy,
			failures: []string{"redis"},
		},
		{
			name: "database down",
			checks: []healthCheck{
				{name: "database", required: true, ping: func(context.Context) error { return errors.New("timeout") }},
			},
			status:   http.StatusServiceUnavailable,
			overall:  StatusUnhealthy,
			failures: []string{"database"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer()
			h := &HealthHandler{Handler: NewHandler(s), checks: tt.checks, timeout: time.Second}

			rec := serve(s, "/status", h.CheckHealth, "/status")
			require.Equal(t, tt.status, rec.Code)

			var body HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.overall, body.Status)
			assert.Equal(t, "test", body.Environment)
			assert.Len(t, body.Checks, len(tt.checks))

			for _, name := range tt.failures {
				assert.Equal(t, StatusUnhealthy, body.Checks[name].Status)
				assert.NotEmpty(t, body.Checks[name].Error)
			}
		})
	}
}

func TestHealthHandler_CheckTimeout(t *testing.T) {
	s := newTestServer()
	h := &HealthHandler{
		Handler: NewHandler(s),
		timeout: 10 * time.Millisecond,
		checks: []healthCheck{{name: "database", required: true, ping: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}}},
	}

	rec := serve(s, "/status", h.CheckHealth, "/status")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "context deadline exceeded")
}

func TestNewHealthHandler_RespectsConfig(t *testing.T) {
	s := newTestServer()
	s.Config.Observability.HealthChecks.Checks = []string{"redis"}

	h := NewHealthHandler(s)
	assert.Empty(t, h.checks, "nil dependencies are not probed")
	assert.Equal(t, 5*time.Second, h.timeout)
}

func TestOpenAPIHandler(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "openapi.html"), []byte("<html>docs</html>"), 0o600))

	s := newTestServer()
	h := &OpenAPIHandler{Handler: NewHandler(s), dir: dir}

	rec := serve(s, "/docs", h.ServeOpenAPIUI, "/docs")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<html>docs</html>", rec.Body.String())
	assert.Equal(t, "no-cache", rec.Header().Get(echo.HeaderCacheControl))
}

func TestOpenAPIHandler_MissingPage(t *testing.T) {
	s := newTestServer()
	h := &OpenAPIHandler{Handler: NewHandler(s), dir: t.TempDir()}

	rec := serve(s, "/docs", h.ServeOpenAPIUI, "/docs")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
