package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"smart-parking/internal/adapters/http/middleware"
	"smart-parking/internal/adapters/http/routes"
	"smart-parking/internal/adapters/messaging"
	"smart-parking/internal/adapters/persistence/models"
	"smart-parking/internal/adapters/persistence/repositories"
	"smart-parking/internal/config"
	"smart-parking/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	_ "smart-parking/docs" // Swagger docs
)

// @title Smart Parking API
// @version 1.0
// @description Parking slot allocation and booking ledger API

// @contact.name API Support

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration (schedules are validated here, before any connection is opened)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}
	if cfg.IsProd() {
		log.SetLevel(log.LevelInfo)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

// run owns every connection so deferred closes happen before main exits
func run(cfg *config.Config) error {
	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer config.CloseDatabase(db)

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}
	log.Info("✅ Database migration completed")

	if err := config.NewSeeder(db, cfg).Run(); err != nil {
		log.Warnf("⚠️ Warning: Failed to seed data: %v", err)
	}

	// Occupancy events
	var publisher services.OccupancyPublisher = services.NopPublisher{}
	redisClient, err := config.ConnectRedis(cfg)
	if err != nil {
		log.Warnf("⚠️ Occupancy events disabled: %v", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		publisher = messaging.NewRedisPublisher(redisClient, cfg.Redis.Channel)
	}

	// Background jobs
	cronService := services.NewCronService(
		repositories.NewSlotRepository(db),
		repositories.NewBookingRepository(db),
		publisher,
		cfg.Parking,
	)
	if err := cronService.Start(); err != nil {
		return fmt.Errorf("failed to start cron: %w", err)
	}
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Smart Parking API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, db, cfg, publisher)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Infof("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Errorf("❌ Failed to start server: %v", err)
	}
	return nil
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Errorf("❌ Error during shutdown: %v", err)
	}
	log.Info("✅ Server stopped gracefully")
}
