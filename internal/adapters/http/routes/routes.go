package routes

import (
	"time"

	"smart-parking/internal/adapters/http/handlers"
	"smart-parking/internal/adapters/http/middleware"
	"smart-parking/internal/adapters/persistence/repositories"
	"smart-parking/internal/config"
	"smart-parking/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, publisher services.OccupancyPublisher) {
	// Initialize repositories
	slotRepo := repositories.NewSlotRepository(db)
	driverRepo := repositories.NewDriverRepository(db)
	bookingRepo := repositories.NewBookingRepository(db)

	// Initialize services
	allocationService := services.NewAllocationService(db, slotRepo, driverRepo, bookingRepo, publisher)
	bookingService := services.NewBookingService(bookingRepo, cfg.Parking.AllBookingsSentinel)
	driverService := services.NewDriverService(driverRepo, slotRepo, cfg)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, cfg)
	authHandler := handlers.NewAuthHandler(driverService, cfg)
	slotHandler := handlers.NewSlotHandler(allocationService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	driverHandler := handlers.NewDriverHandler(driverService, allocationService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	auth := middleware.AuthMiddleware(cfg)
	adminOnly := middleware.AdminOnly()

	// Auth routes (public)
	authGroup := apiV1.Group("/auth")
	authGroup.Post("/register", middleware.AuthRateLimiter(), authHandler.Register)
	authGroup.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	authGroup.Post("/logout", authHandler.Logout)

	// Slot occupancy routes
	slots := apiV1.Group("/slots", auth, middleware.NoCacheHeaders())
	slots.Get("/", slotHandler.ListSlots)
	slots.Get("/:id", slotHandler.GetSlot)
	slots.Post("/:id/reserve", slotHandler.Reserve)
	slots.Post("/:id/exit", slotHandler.Exit)

	// Booking ledger routes (records never change, receipts can be cached)
	bookings := apiV1.Group("/bookings", auth)
	bookings.Get("/", middleware.NoCacheHeaders(), bookingHandler.ListBookings)
	bookings.Get("/:id", middleware.PrivateCacheHeaders(5*time.Minute), bookingHandler.GetBooking)
	bookings.Get("/:id/receipt", middleware.PrivateCacheHeaders(5*time.Minute), bookingHandler.Receipt)

	// Signed in driver
	me := apiV1.Group("/me", auth, middleware.NoCacheHeaders())
	me.Get("/slot", driverHandler.MySlot)
	me.Get("/bookings", bookingHandler.MyBookings)

	profile := apiV1.Group("/profile", auth)
	profile.Get("/", driverHandler.GetProfile)
	profile.Put("/", driverHandler.UpdateProfile)

	drivers := apiV1.Group("/drivers", auth)
	drivers.Get("/:user_id/id", driverHandler.ResolveID)

	// Admin routes
	admin := apiV1.Group("/admin", auth, adminOnly, middleware.NoCacheHeaders())
	admin.Get("/drivers", driverHandler.ListDrivers)
	admin.Post("/slots", slotHandler.AddSlot)
	admin.Put("/slots/:id", slotHandler.EditSlot)
	admin.Delete("/slots/:id", slotHandler.DeleteSlot)
	admin.Post("/slots/:id/release", slotHandler.Release)
}
