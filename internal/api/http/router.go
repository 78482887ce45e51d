package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staff-auth/internal/api/http/handlers"
	"github.com/spec-kit/staff-auth/internal/auth"
	"github.com/spec-kit/staff-auth/internal/config"
)

var defaultMetricsDepartments = []string{"Administration"}

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Staff          *handlers.StaffHandler
	AuthMiddleware *auth.AuthMiddleware
	RateLimit      config.RateLimitConfig

	// MetricsDepartments may read /metrics; defaults to Administration.
	MetricsDepartments []string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	metricsDepartments := cfg.MetricsDepartments
	if len(metricsDepartments) == 0 {
		metricsDepartments = defaultMetricsDepartments
	}
	app.Get("/metrics", cfg.AuthMiddleware.Handle, auth.RequireDepartment(metricsDepartments...), cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Get("/departments", cfg.Staff.Departments)
	authGroup.Post("/staff/login", RateLimitMiddleware(cfg.RateLimit), cfg.Staff.Login)
	authGroup.Get("/staff/me", cfg.AuthMiddleware.Handle, cfg.Staff.Me)
}
