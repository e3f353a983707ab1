package routes

import (
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/admitflow/admitflow-backend/internal/handlers"
	"github.com/admitflow/admitflow-backend/internal/middleware"
	"github.com/admitflow/admitflow-backend/internal/services"
	"github.com/admitflow/admitflow-backend/internal/storage"
)

// SetupRoutes configures all API routes
func SetupRoutes(
	app *fiber.App,
	store storage.Store,
	inquiryService *services.InquiryService,
	campaignService *services.CampaignService,
	reconcileService *services.ReconcileService,
	chatbot *services.ChatbotService,
) {
	inquiryHandler := handlers.NewInquiryHandler(store, inquiryService)
	campaignHandler := handlers.NewCampaignHandler(store, campaignService)
	adminHandler := handlers.NewAdminHandler(reconcileService)
	whatsappHandler := handlers.NewWhatsAppHandler(chatbot)

	// API routes
	api := app.Group("/api")

	inquiries := api.Group("/inquiries")
	inquiries.Post("/", inquiryHandler.Create)
	inquiries.Post("/paper", inquiryHandler.CreatePaper)
	inquiries.Get("/", inquiryHandler.List)
	inquiries.Get("/stats", inquiryHandler.Stats)
	inquiries.Get("/:id", inquiryHandler.Get)
	inquiries.Patch("/:id/status", inquiryHandler.UpdateStatus)

	campaigns := api.Group("/campaigns")
	campaigns.Post("/", campaignHandler.Create)
	campaigns.Post("/:id/send", campaignHandler.Send)
	campaigns.Get("/", campaignHandler.List)

	// ========== WEBHOOK ROUTES ==========
	webhooks := app.Group("/webhook")

	// WhatsApp webhook - signature validation is skipped in development
	// so the bot can be driven through ngrok
	if os.Getenv("ENVIRONMENT") == "development" || os.Getenv("DISABLE_WEBHOOK_VALIDATION") == "true" {
		webhooks.Post("/whatsapp", whatsappHandler.HandleWebhook)
		if os.Getenv("ENVIRONMENT") == "development" {
			println("⚠️  WhatsApp webhook validation DISABLED for development")
		}
	} else {
		webhooks.Post("/whatsapp", middleware.ValidateTwilioSignature(), whatsappHandler.HandleWebhook)
	}
	webhooks.Get("/whatsapp/health", whatsappHandler.Health)

	// ========== TEST ROUTES (Development Only) ==========
	app.Post("/test/whatsapp", whatsappHandler.HandleTestWebhook)

	// ========== ADMIN ROUTES ==========
	admin := app.Group("/admin")
	admin.Post("/reconcile", adminHandler.Reconcile)
}
