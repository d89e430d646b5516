package app

import (
	"os"
	"strconv"
	"time"

	"github.com/zaobank/mobile-auth/pkg/jwtx"
)

type Config struct {
	Issuer     string // Issuer claim for access tokens
	SecretFile string // Path to the HS256 secret file (generated on first boot)

	AccessTTL        time.Duration // Access token lifetime (default: 30 days, mobile clients)
	RefreshTTL       time.Duration // Refresh token lifetime (default: 90 days)
	MaxTokensPerUser int           // Live refresh tokens per user, 0 = unlimited (default: 10)
	RegistrationOpen bool          // Allow self-service registration (default: false)
	QueryTokenDebug  bool          // Allow jwt_token query fallback (debug only, default: false)

	DatabaseFile         string        // Path to SQLite database file (default: ./mobile-auth.db)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
	TokenRetention       time.Duration // How long dead refresh tokens stay for audit (default: 30 days)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:     getEnvOrDefault("AUTH_ISSUER", "mobile-auth"),
		SecretFile: getEnvOrDefault("AUTH_SECRET_FILE", "jwt-secret"),

		AccessTTL:        getEnvDurationOrDefault("AUTH_ACCESS_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTTL:       getEnvDurationOrDefault("AUTH_REFRESH_TOKEN_TTL", jwtx.DefaultRefreshTokenTTL),
		MaxTokensPerUser: getEnvIntOrDefault("AUTH_MAX_TOKENS_PER_USER", 10),
		RegistrationOpen: getEnvBoolOrDefault("AUTH_REGISTRATION_OPEN", false),
		QueryTokenDebug:  getEnvBoolOrDefault("AUTH_QUERY_TOKEN_FALLBACK", false),

		DatabaseFile:         getEnvOrDefault("AUTH_DATABASE_FILE", "mobile-auth.db"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
		TokenRetention:       getEnvDurationOrDefault("TOKEN_RETENTION_PERIOD", 30*24*time.Hour),
	}

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

	// Duration string first (e.g. "720h", "30m").
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are taken as minutes for compatibility.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
