package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meudayhegde/sprint-summary-chatbot/internal/api/http/handlers"
	"github.com/meudayhegde/sprint-summary-chatbot/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Token          *handlers.TokenHandler
	Chat           *handlers.ChatHandler
	Query          *handlers.QueryHandler
	Dashboard      *handlers.DashboardHandler
	Report         *handlers.ReportHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/token", cfg.Token.Issue)

	api := app.Group("/api/v1", cfg.AuthMiddleware.Handle)

	api.Post("/chat", cfg.Chat.Ask)
	api.Post("/query", cfg.Query.Evaluate)
	api.Get("/metrics/:name", cfg.Query.Metric)

	api.Get("/summary", cfg.Query.Summary)
	api.Get("/summary/sprints/:id", cfg.Query.SprintSummary)
	api.Get("/team", cfg.Query.Team)
	api.Get("/bugs", cfg.Query.BugAnalysis)

	api.Get("/dashboard/kpis", cfg.Dashboard.KPIs)
	api.Get("/dashboard/states", cfg.Dashboard.States)
	api.Get("/dashboard/velocity", cfg.Dashboard.Velocity)
	api.Get("/dashboard/bugs", cfg.Dashboard.Bugs)
	api.Get("/dashboard/workload", cfg.Dashboard.Workload)
	api.Get("/dashboard/spillover", cfg.Dashboard.Spillover)

	api.Get("/reports/sprints", cfg.Report.Sprints)
	api.Get("/reports/sprints/:id", cfg.Report.Sprint)
	api.Get("/charts/:kind", cfg.Report.Chart)

	api.Get("/snapshot", cfg.Admin.Snapshot)
	api.Post("/snapshot/reload", cfg.Admin.Reload)
	api.Get("/stats", cfg.Health.Stats)
}
