package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nairacharge/topup-backend/internal/config"
	"github.com/nairacharge/topup-backend/internal/handlers"
	"github.com/nairacharge/topup-backend/internal/middleware"
)

// SetupRoutes configures all API routes.
func SetupRoutes(app *fiber.App, webhook *handlers.WebhookHandler, cfg *config.Config) {

	// Root endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to QuickTopup Backend!",
			"version": "1.0.0",
			"endpoints": fiber.Map{
				"health":  "/health",
				"webhook": "/webhook/whatsapp",
				"metrics": "/metrics",
			},
		})
	})

	app.Get("/health", handlers.HandleHealth)

	// Prometheus metrics
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// ========== WEBHOOK ROUTES ==========
	webhooks := app.Group("/webhook")

	// Meta dashboard verification handshake
	webhooks.Get("/whatsapp", webhook.HandleVerification)

	// Inbound events - ENVIRONMENT-AWARE VALIDATION
	if cfg.Env == "development" || cfg.DisableWebhookValidation {
		// Development: skip signature validation for ngrok
		webhooks.Post("/whatsapp", webhook.HandleWebhook)
		println("⚠️  WhatsApp webhook signature validation DISABLED for development")
	} else {
		// Production: validate X-Hub-Signature-256
		webhooks.Post("/whatsapp", middleware.ValidateWebhookSignature(cfg.WhatsAppAppSecret), webhook.HandleWebhook)
	}
}
