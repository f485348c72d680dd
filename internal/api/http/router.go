package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/exam-compliance/internal/api/http/handlers"
	"github.com/spec-kit/exam-compliance/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Dashboard      *handlers.DashboardHandler
	Roles          *handlers.RolesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	app.Post("/auth/login", cfg.Auth.Login)

	api := app.Group("/api", cfg.AuthMiddleware.Handle)
	api.Post("/logout", cfg.Auth.Logout)

	api.Get("/summary", cfg.Dashboard.Summary)
	api.Get("/records", cfg.Dashboard.Records)
	api.Get("/alerts", cfg.Dashboard.Alerts)

	api.Get("/roles", cfg.Roles.List)
	api.Get("/roles/:role", cfg.Roles.Detail)
	api.Post("/refresh", cfg.Roles.Refresh)
	api.Post("/session/role", cfg.Roles.Select)

	api.Post("/authorizations", cfg.Roles.Generate)
	api.Get("/authorizations/current", cfg.Roles.Current)
	api.Delete("/authorizations/current", cfg.Roles.Clear)
}
