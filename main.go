package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/nairacharge/topup-backend/database"
	"github.com/nairacharge/topup-backend/internal/config"
	"github.com/nairacharge/topup-backend/internal/flow"
	"github.com/nairacharge/topup-backend/internal/handlers"
	"github.com/nairacharge/topup-backend/internal/metrics"
	"github.com/nairacharge/topup-backend/internal/models"
	"github.com/nairacharge/topup-backend/internal/routes"
	"github.com/nairacharge/topup-backend/internal/services"
	"github.com/nairacharge/topup-backend/internal/storage"
)

func main() {
	// Load .env file for local development
	if os.Getenv("INSTANCE_CONNECTION_NAME") == "" {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("⚠️  No .env file found - checking environment variables")
		}
	}

	cfg := config.Load()

	if cfg.WhatsAppVerifyToken == "" {
		log.Println("⚠️  WHATSAPP_WEBHOOK_VERIFY_TOKEN not set - webhook verification will fail")
	}

	// Initialize storage: sessions + event dedup + transaction receipts
	var (
		sessions storage.SessionStore
		dedup    storage.EventDedup
		txns     storage.TransactionStore
	)

	if cfg.UseMemoryStore {
		log.Println("⚠️  Using in-memory storage (not for production!)")
		memory := storage.NewMemoryStore()
		sessions = memory
		dedup = memory
		txns = memory
	} else {
		log.Println("📦 Connecting to Redis for sessions...")
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		redisStore := storage.NewRedisStore(redisClient)
		sessions = redisStore
		dedup = redisStore

		log.Println("📦 Connecting to PostgreSQL database...")
		db, err := database.Connect()
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}

		log.Println("🔄 Running database migrations...")
		if err := db.AutoMigrate(&models.TopupTransaction{}); err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		log.Println("✅ Database migrations completed!")

		txns = storage.NewDatabaseStore(db)
	}

	// Outbound sender: Cloud API by default, Twilio sandbox fallback
	var (
		sender services.Sender
		err    error
	)
	if cfg.MessagingProvider == "twilio" {
		sender, err = services.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppFrom)
	} else {
		sender, err = services.NewCloudAPISender(cfg.GraphAPIBaseURL, cfg.WhatsAppToken, cfg.WhatsAppPhoneNumberID)
	}
	if err != nil {
		log.Fatal("Failed to initialize messaging sender:", err)
	}
	log.Printf("✅ Messaging sender initialized (%s)", cfg.MessagingProvider)

	// Flow engine and webhook handler
	botMetrics := metrics.NewBotMetrics(prometheus.DefaultRegisterer)
	topupService := services.NewTopupService(txns)
	engine := flow.NewEngine(sessions, topupService, flow.WithMetrics(botMetrics))
	webhookHandler := handlers.NewWebhookHandler(engine, sender, dedup, cfg.WhatsAppVerifyToken, botMetrics)

	log.Println("✅ All services initialized")

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "QuickTopup Backend v1.0.0",
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
		AllowMethods: "GET, POST, OPTIONS",
	}))

	routes.SetupRoutes(app, webhookHandler, cfg)

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("\n🛑 Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	log.Println("========================================")
	log.Printf("🚀 QuickTopup Backend starting on port %s", cfg.Port)
	log.Printf("📊 Storage: %s", storageType(cfg))
	log.Printf("🌍 Environment: %s", cfg.Env)
	log.Printf("📱 Messaging provider: %s", cfg.MessagingProvider)
	log.Println("========================================")

	log.Fatal(app.Listen(":" + cfg.Port))
}

func storageType(cfg *config.Config) string {
	if cfg.UseMemoryStore {
		return "In-Memory (Testing)"
	}
	return "Redis sessions + PostgreSQL receipts"
}
