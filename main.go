package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/admitflow/admitflow-backend/database"
	"github.com/admitflow/admitflow-backend/internal/jobs"
	"github.com/admitflow/admitflow-backend/internal/models"
	"github.com/admitflow/admitflow-backend/internal/routes"
	"github.com/admitflow/admitflow-backend/internal/services"
	"github.com/admitflow/admitflow-backend/internal/sheets"
	"github.com/admitflow/admitflow-backend/internal/storage"
)

func main() {
	// Load .env file for local development
	if os.Getenv("INSTANCE_CONNECTION_NAME") == "" {
		err := godotenv.Load(".env")
		if err != nil {
			err = godotenv.Load("environments/.env.development")
			if err != nil {
				log.Println("⚠️  No .env file found - checking environment variables")
			}
		}
	}

	twilioAccountSID := os.Getenv("TWILIO_ACCOUNT_SID")
	if twilioAccountSID == "" {
		log.Println("⚠️  Twilio credentials not found - WhatsApp sending will be limited")
	}

	// Initialize storage
	var store storage.Store

	if os.Getenv("USE_MEMORY_STORE") == "true" {
		log.Println("⚠️  Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
	} else {
		log.Println("📦 Connecting to PostgreSQL database...")
		database.Connect()

		log.Println("🔄 Running database migrations...")
		err := database.DB.AutoMigrate(
			&models.Inquiry{},
			&models.Campaign{},
		)
		if err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		log.Println("✅ Database migrations completed!")

		store = storage.NewDatabaseStore(database.DB)
		log.Println("✅ Using PostgreSQL database storage")
	}

	// Initialize the Google Sheets store (the primary inquiry record)
	sheetStore, err := sheets.NewClient(context.Background())
	if err != nil {
		log.Fatal("Failed to initialize Google Sheets client:", err)
	}
	log.Println("✅ Google Sheets client initialized")

	// Initialize Twilio service
	twilioService, err := services.NewTwilioService()
	if err != nil {
		log.Fatal("Failed to initialize Twilio service:", err)
	}
	log.Println("✅ Twilio service initialized")

	// Chat sessions: Redis when configured, process memory otherwise
	var sessionStore services.SessionStore
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		sessionStore = services.NewRedisSessionStore(redisAddr, os.Getenv("REDIS_PASSWORD"), services.SessionTTL)
		log.Println("✅ Using Redis session store")
	} else {
		sessionStore = services.NewMemorySessionStore()
		log.Println("⚠️  Using in-memory session store (single instance only)")
	}

	// Initialize all services
	inquiryService := services.NewInquiryService(store, sheetStore)
	chatbotService := services.NewChatbotService(sessionStore, inquiryService)
	campaignService := services.NewCampaignService(store, twilioService)
	reconcileService := services.NewReconcileService(store, sheetStore)

	// Start the scheduled sheet reconciliation
	reconcileJob := jobs.NewReconcileJob(reconcileService, reconcileInterval())
	reconcileJob.Start()

	log.Println("✅ All services initialized and scheduled jobs started")

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "AdmitFlow Backend v1.0.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	// Root endpoint with service status
	app.Get("/", func(c *fiber.Ctx) error {
		response := fiber.Map{
			"service":     "AdmitFlow Backend API",
			"version":     "1.0.0",
			"status":      "healthy",
			"environment": getEnvironment(),
			"storage":     getStorageType(),
			"whatsapp": fiber.Map{
				"configured": twilioAccountSID != "",
			},
		}

		// Add database status if using database
		if os.Getenv("USE_MEMORY_STORE") != "true" && database.DB != nil {
			sqlDB, err := database.DB.DB()
			dbStatus := "connected"
			if err != nil {
				dbStatus = "error: " + err.Error()
			} else if err := sqlDB.Ping(); err != nil {
				dbStatus = "error: " + err.Error()
			}

			var inquiryCount, campaignCount int64
			database.DB.Model(&models.Inquiry{}).Count(&inquiryCount)
			database.DB.Model(&models.Campaign{}).Count(&campaignCount)

			response["database"] = fiber.Map{
				"status":    dbStatus,
				"inquiries": inquiryCount,
				"campaigns": campaignCount,
			}
		}

		response["services"] = fiber.Map{
			"chat_sessions":  chatbotService.ActiveSessions(),
			"reconciliation": "active",
		}

		return c.JSON(response)
	})

	// Health check endpoint for monitoring
	app.Get("/health", func(c *fiber.Ctx) error {
		status := "healthy"
		statusCode := 200

		if os.Getenv("USE_MEMORY_STORE") != "true" && database.DB != nil {
			sqlDB, err := database.DB.DB()
			if err != nil || sqlDB.Ping() != nil {
				status = "unhealthy"
				statusCode = 503
			}
		}

		return c.Status(statusCode).JSON(fiber.Map{
			"status": status,
			"services": fiber.Map{
				"database": status == "healthy",
				"twilio":   twilioAccountSID != "",
			},
		})
	})

	// Setup routes
	routes.SetupRoutes(app, store, inquiryService, campaignService, reconcileService, chatbotService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("\n🛑 Gracefully shutting down...")
		log.Println("⏹️  Stopping reconcile job...")
		reconcileJob.Stop()
		log.Println("⏹️  Shutting down server...")
		_ = app.Shutdown()
	}()

	log.Println("========================================")
	log.Printf("🚀 AdmitFlow Backend starting on port %s", port)
	log.Printf("📊 Storage: %s", getStorageType())
	log.Printf("🌍 Environment: %s", getEnvironment())
	log.Printf("📱 WhatsApp: %s", getWhatsAppStatus(twilioAccountSID))
	log.Println("========================================")

	log.Fatal(app.Listen(":" + port))
}

// reconcileInterval reads RECONCILE_INTERVAL_HOURS (default 6)
func reconcileInterval() time.Duration {
	if v := os.Getenv("RECONCILE_INTERVAL_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil && hours > 0 {
			return time.Duration(hours) * time.Hour
		}
	}
	return 6 * time.Hour
}

func getEnvironment() string {
	if os.Getenv("INSTANCE_CONNECTION_NAME") != "" {
		return "Production (Cloud Run)"
	}
	return "Development (Local)"
}

func getStorageType() string {
	if os.Getenv("USE_MEMORY_STORE") == "true" {
		return "In-Memory (Testing)"
	}
	return "PostgreSQL Database"
}

func getWhatsAppStatus(twilioSID string) string {
	if twilioSID == "" {
		return "Not configured"
	}
	return "Configured"
}
