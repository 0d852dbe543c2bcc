package config

import (
	"os"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string

	// WhatsApp Cloud API
	WhatsAppBaseURL       string
	WhatsAppAccessToken   string
	WhatsAppPhoneNumberID string
	WhatsAppVerifyToken   string
	WebhookDedupTTL       time.Duration

	// Booking bot behavior
	DefaultCountryPrefix string
	DefaultTimezone      string
	DefaultTenantID      string

	AdminJWTSecret string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           strings.ToLower(strings.TrimSpace(getEnv("ENV", "development"))),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		WhatsAppBaseURL:       getEnv("WHATSAPP_BASE_URL", ""),
		WhatsAppAccessToken:   getEnv("WHATSAPP_ACCESS_TOKEN", ""),
		WhatsAppPhoneNumberID: getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
		WhatsAppVerifyToken:   getEnv("WHATSAPP_VERIFY_TOKEN", ""),
		WebhookDedupTTL:       getEnvAsDuration("WEBHOOK_DEDUP_TTL", 24*time.Hour),

		DefaultCountryPrefix: getEnv("DEFAULT_COUNTRY_PREFIX", "91"),
		DefaultTimezone:      getEnv("DEFAULT_TIMEZONE", "Asia/Kolkata"),
		DefaultTenantID:      getEnv("DEFAULT_TENANT_ID", ""),

		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),
	}
}

// IsProduction reports whether the service runs with production error policy.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
