package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/http/handlers"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/bot"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Complaints *handlers.ComplaintsHandler
	Reports    *handlers.ReportsHandler
	Auth       *handlers.AuthHandler
	Webhook    *bot.WebhookHandler
	AdminGate  *auth.AdminGate
	UploadDir  string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Static("/uploads", cfg.UploadDir)

	api := app.Group("/api")
	api.Get("/complaints", cfg.Complaints.List)
	api.Post("/complaints", cfg.Complaints.Create)
	api.Get("/complaints/:id", cfg.Complaints.Get)
	api.Put("/complaints/:id/status", cfg.AdminGate.Handle, cfg.Complaints.UpdateStatus)
	api.Post("/analyze-image", cfg.Complaints.AnalyzeImage)
	api.Get("/leaderboard", cfg.Reports.Leaderboard)
	api.Get("/stats", cfg.Reports.Stats)
	api.Post("/whatsapp", cfg.Complaints.WhatsAppIntake)
	api.Post("/auth/login", cfg.Auth.Login)

	// chat-provider webhook boundary
	app.Get("/webhook", cfg.Webhook.Verify)
	app.Post("/webhook", cfg.Webhook.Receive)
}
