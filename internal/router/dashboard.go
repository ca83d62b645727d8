package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/invoice-dashboard/internal/config"
	"github.com/deppfellow/invoice-dashboard/internal/handler"
	"github.com/deppfellow/invoice-dashboard/internal/middleware"
)

// registerDashboardRoutes mounts GET /seed and GET /query. Seeding is
// rate limited per client and, with seed.require_auth, needs a Clerk
// session.
func registerDashboardRoutes(r *echo.Echo, h *handler.Handlers, m *middleware.Middlewares, cfg config.SeedConfig, authEnabled bool) {
	seedMiddlewares := []echo.MiddlewareFunc{m.RateLimit.Limit("/seed", cfg.RateLimit)}
	if cfg.RequireAuth && authEnabled {
		seedMiddlewares = append(seedMiddlewares, m.Auth.RequireAuth)
	}

	r.GET("/seed", h.Seed.Seed(), seedMiddlewares...)

	r.GET("/query", h.Invoice.Query())
	r.GET("/query/export", h.Invoice.Export())
}
