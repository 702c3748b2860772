package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"samajhub/internal/adapters/http/middleware"
	"samajhub/internal/adapters/http/routes"
	"samajhub/internal/adapters/persistence/models"
	"samajhub/internal/adapters/persistence/repositories"
	"samajhub/internal/config"
	"samajhub/internal/core/services"
	"samajhub/internal/pkg/ratelimit"

	"github.com/gofiber/fiber/v2"

	_ "samajhub/docs" // Swagger docs
)

// @title SamajHub API
// @version 1.0
// @description Community membership, roles and genealogy management API
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@samajhub.org

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host api.samajhub.org
// @BasePath /api/v1
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed system roles and first admin
	if err := config.NewSeeder(db, cfg).Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to seed database: %v", err)
	}

	// Rate limiter for auth endpoints, Redis-backed when available
	rlConfig := ratelimit.Config{
		Max:    cfg.RateLimit.Max,
		Window: time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute,
	}
	var limiter ratelimit.Limiter
	var memoryLimiter *ratelimit.MemoryLimiter
	if redisClient := config.ConnectRedis(cfg); redisClient != nil {
		limiter = ratelimit.NewRedisLimiter(rlConfig, redisClient, "ratelimit")
	} else {
		memoryLimiter = ratelimit.NewMemoryLimiter(rlConfig)
		limiter = memoryLimiter
	}

	// Scheduled maintenance: expired lockout sweep, limiter pruning
	maintenance := services.NewMaintenanceService(repositories.NewSystemUserRepository(db), memoryLimiter)
	maintenance.Start()
	defer maintenance.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "SamajHub API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, cfg, limiter)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
		os.Exit(1)
	}
	log.Println("✅ Server stopped")
}
