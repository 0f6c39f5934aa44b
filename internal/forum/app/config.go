package app

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseFile string        // Optional: path to SQLite database file (default: ./corkboard.db)
	SessionTTL   time.Duration // Optional: absolute session lifetime (default: 168h)
	CORSOrigin   string        // Optional: trusted frontend origin (default: same-origin, no CORS headers)
	CookieSecure bool          // Optional: mark the session cookie Secure (default: true outside dev)

	// Seed admin created on first boot when the user table is empty.
	BootstrapAdminUsername   string
	BootstrapAdminName       string
	BootstrapAdminPassword   string
	BootstrapAdminTOTPSecret string

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired session sweep interval (default: 1h)
}

func LoadConfig() Config {
	// A local .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	cfg := Config{
		DatabaseFile: getEnvOrDefault("DATABASE_FILE", "corkboard.db"),
		SessionTTL:   getEnvDurationOrDefault("SESSION_TTL", 168*time.Hour),
		CORSOrigin:   os.Getenv("CORS_ORIGIN"),

		BootstrapAdminUsername:   os.Getenv("BOOTSTRAP_ADMIN_USERNAME"),
		BootstrapAdminName:       os.Getenv("BOOTSTRAP_ADMIN_NAME"),
		BootstrapAdminPassword:   os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"),
		BootstrapAdminTOTPSecret: os.Getenv("BOOTSTRAP_ADMIN_TOTP_SECRET"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	cfg.CookieSecure = getEnvBoolOrDefault("COOKIE_SECURE", cfg.Env != "dev")

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer hours
	if hours, err := strconv.Atoi(value); err == nil {
		return time.Duration(hours) * time.Hour
	}

	return defaultValue
}
