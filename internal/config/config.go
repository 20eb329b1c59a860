package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Parking  ParkingConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string // mysql or postgres
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret          string
	AccessTokenMins int
}

// RedisConfig holds the occupancy event broker configuration.
// An empty Addr disables publishing.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Channel  string
}

// ParkingConfig holds facility settings
type ParkingConfig struct {
	AllBookingsSentinel string
	OverstayHours       int
	AuditSchedule       string
	SummarySchedule     string
	SeedSlots           []string
	AdminUserID         string
	AdminPassword       string
}

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Warn("⚠️ .env file not found, using environment variables")
	}

	// trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	database, err := loadDatabaseConfig(appMode)
	if err != nil {
		return nil, err
	}

	parking, err := loadParkingConfig()
	if err != nil {
		return nil, err
	}

	config := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "3000"),
		Database: database,
		JWT:      loadJWTConfig(appMode),
		Redis:    loadRedisConfig(),
		Parking:  parking,
	}

	log.Infof("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) (DatabaseConfig, error) {
	prefix := modePrefix(mode)

	driver := strings.ToLower(strings.TrimSpace(getEnv("DB_DRIVER", "mysql")))
	if driver != "mysql" && driver != "postgres" {
		return DatabaseConfig{}, fmt.Errorf("invalid DB_DRIVER: '%s' (must be 'mysql' or 'postgres')", driver)
	}

	defaultPort := "3306"
	if driver == "postgres" {
		defaultPort = "5432"
	}

	return DatabaseConfig{
		Driver:   driver,
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", defaultPort),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "smart_parking"),
	}, nil
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	accessMins, _ := strconv.Atoi(getEnv("ACCESS_TOKEN_MINUTES", "60"))

	return JWTConfig{
		Secret:          getEnv(modePrefix(mode)+"JWT_SECRET", "default_secret"),
		AccessTokenMins: accessMins,
	}
}

// loadRedisConfig loads the event broker config
func loadRedisConfig() RedisConfig {
	db, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	return RedisConfig{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       db,
		Channel:  getEnv("REDIS_CHANNEL", "parking:occupancy"),
	}
}

// loadParkingConfig loads facility settings
func loadParkingConfig() (ParkingConfig, error) {
	overstay, err := strconv.Atoi(getEnv("OVERSTAY_HOURS", "24"))
	if err != nil || overstay < 1 {
		overstay = 24
	}

	parking := ParkingConfig{
		AllBookingsSentinel: getEnv("ALL_BOOKINGS_SENTINEL", "1000"),
		OverstayHours:       overstay,
		AuditSchedule:       getEnv("AUDIT_SCHEDULE", "@every 15m"),
		SummarySchedule:     getEnv("SUMMARY_SCHEDULE", "5 0 * * *"),
		SeedSlots:           splitList(getEnv("SEED_SLOTS", "")),
		AdminUserID:         getEnv("ADMIN_USER_ID", "admin"),
		AdminPassword:       getEnv("ADMIN_PASSWORD", ""),
	}

	// Schedules use the same parser as the cron scheduler
	if _, err := cron.ParseStandard(parking.AuditSchedule); err != nil {
		return ParkingConfig{}, fmt.Errorf("invalid AUDIT_SCHEDULE: '%s': %w", parking.AuditSchedule, err)
	}
	if _, err := cron.ParseStandard(parking.SummarySchedule); err != nil {
		return ParkingConfig{}, fmt.Errorf("invalid SUMMARY_SCHEDULE: '%s': %w", parking.SummarySchedule, err)
	}

	return parking, nil
}

func modePrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// splitList splits a comma separated value, dropping blanks
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "http://localhost:5173"
	}
	return origins
}
