package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/invoice-dashboard/internal/server"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// healthCheck probes one dependency. Only required checks can turn the
// whole service unhealthy.
type healthCheck struct {
	name     string
	required bool
	ping     func(ctx context.Context) error
}

type HealthHandler struct {
	Handler
	checks  []healthCheck
	timeout time.Duration
}

// NewHealthHandler probes the dependencies enabled in
// observability.health_checks. Postgres is required; Redis only backs
// background seeding, so its failure is reported without failing the check.
func NewHealthHandler(s *server.Server) *HealthHandler {
	obs := s.Config.Observability
	h := &HealthHandler{
		Handler: NewHandler(s),
		timeout: obs.HealthChecks.Timeout,
	}

	if obs.HealthCheckEnabled("database") && s.DB != nil {
		h.checks = append(h.checks, healthCheck{name: "database", required: true, ping: s.DB.Ping})
	}

	if obs.HealthCheckEnabled("redis") && s.Redis != nil {
		h.checks = append(h.checks, healthCheck{
			name: "redis",
			ping: func(ctx context.Context) error { return s.Redis.Ping(ctx).Err() },
		})
	}

	return h
}

type CheckResult struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

type HealthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Checks      map[string]CheckResult `json:"checks"`
}

// CheckHealth serves GET /status: 200 when every required dependency
// answers, 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	logger := requestLogger(c, "health_check")

	response := HealthResponse{
		Status:      StatusHealthy,
		Timestamp:   start.UTC(),
		Environment: h.server.Config.Primary.Env,
		Checks:      make(map[string]CheckResult, len(h.checks)),
	}

	for _, check := range h.checks {
		result, err := h.run(c.Request().Context(), check)
		response.Checks[check.name] = result

		if err == nil {
			logger.Info().Str("check", check.name).Str("response_time", result.ResponseTime).Msg("health check passed")
			continue
		}

		logger.Error().Err(err).Str("check", check.name).Str("response_time", result.ResponseTime).Msg("health check failed")
		h.recordFailure(check.name, err)

		if check.required {
			response.Status = StatusUnhealthy
		}
	}

	if response.Status == StatusUnhealthy {
		logger.Warn().Dur("total_duration", time.Since(start)).Msg("service unhealthy")
		return c.JSON(http.StatusServiceUnavailable, response)
	}

	return c.JSON(http.StatusOK, response)
}

func (h *HealthHandler) run(ctx context.Context, check healthCheck) (CheckResult, error) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	start := time.Now()
	err := check.ping(ctx)
	result := CheckResult{Status: StatusHealthy, ResponseTime: time.Since(start).String()}

	if err != nil {
		result.Status = StatusUnhealthy
		result.Error = err.Error()
	}
	return result, err
}

func (h *HealthHandler) recordFailure(check string, err error) {
	app := h.server.LoggerService.GetApplication()
	if app == nil {
		return
	}

	app.RecordCustomEvent("HealthCheckError", map[string]any{
		"check_type":    check,
		"operation":     "health_check",
		"error_type":    check + "_unhealthy",
		"error_message": err.Error(),
	})
}
