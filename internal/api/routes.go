package api

import (
	"github.com/YahyaMS/sukari/internal/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
)

func RegisterRoutes(app *fiber.App, handler *Handler, gatherer prometheus.Gatherer) {
	app.Get("/healthz", handler.Health)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler(gatherer)))

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/forgot-password", handler.ForgotPassword)
	auth.Post("/reset-password", handler.ResetPassword)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)
	auth.Get("/me", handler.AuthRequired, handler.Me)

	api.Post("/readiness", handler.AuthRequired, handler.CheckReadiness)

	fasting := api.Group("/fasting", handler.AuthRequired)
	fasting.Get("/plans", handler.GetPlans)
	fasting.Post("/sessions", handler.StartSession)
	fasting.Get("/sessions/current", handler.GetCurrentSession)
	fasting.Post("/sessions/:id/guidance", handler.SessionGuidance)
	fasting.Post("/sessions/:id/phase", handler.RefreshSessionPhase)
	fasting.Get("/sessions/:id/symptoms", handler.GetSessionSymptoms)
	fasting.Post("/sessions/:id/symptoms", handler.LogSymptom)
	fasting.Post("/sessions/:id/complete", handler.CompleteSession)
	fasting.Post("/sessions/:id/break", handler.BreakSession)
	fasting.Get("/history", handler.GetHistory)

	stats := api.Group("/stats", handler.AuthRequired)
	stats.Get("/overview", handler.GetStatsOverview)

	export := api.Group("/export", handler.AuthRequired)
	export.Get("/json", handler.ExportJSON)
	export.Get("/csv", handler.ExportCSV)
}
