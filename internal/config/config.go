package config

import (
	"os"
	"strings"
	"time"

	"activity-booking-service/internal/pkg/jwt"
)

// Store drivers.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

type AppConfig struct {
	// Server
	Env         string
	HTTPAddr    string
	CORSOrigins []string

	// Storage
	StoreDriver string
	DatabaseURL string
	SeedFile    string

	// Redis
	RedisAddr            string
	RedisPass            string
	AvailabilityCacheTTL time.Duration

	// Messaging
	AMQPURL   string
	AMQPQueue string

	// JWT
	JWT jwt.Config

	// Admin operator
	AdminEmail        string
	AdminPasswordHash string
}

// Load loads environment variables into AppConfig.
func Load() AppConfig {
	return AppConfig{
		Env:         getEnv("APP_ENV", "development"),
		HTTPAddr:    getEnv("HTTP_ADDR", ":8000"),
		CORSOrigins: getEnvSlice("CORS_ORIGINS", []string{"*"}),

		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", StoreMemory)),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		SeedFile:    getEnv("SEED_FILE", ""),

		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisPass:            getEnv("REDIS_PASS", ""),
		AvailabilityCacheTTL: getEnvDuration("AVAILABILITY_CACHE_TTL", 30*time.Second),

		AMQPURL:   getEnv("AMQP_URL", ""),
		AMQPQueue: getEnv("AMQP_QUEUE", "booking.events"),

		JWT: jwt.Config{
			PrivPath: getEnv("JWT_PRIVATE_KEY_PATH", ""),
			PubPath:  getEnv("JWT_PUBLIC_KEY_PATH", ""),
			Issuer:   getEnv("JWT_ISSUER", "activity-booking-service"),
			Audience: getEnv("JWT_AUDIENCE", "activity-booking-admin"),
			TTL:      getEnvDuration("JWT_TTL", 12*time.Hour),
			KID:      getEnv("JWT_KID", "booking-key"),
		},

		AdminEmail:        strings.ToLower(getEnv("ADMIN_EMAIL", "admin@example.com")),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
	}
}

// IsDevelopment reports whether APP_ENV selects development mode.
func (c AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// --- Helper functions ---

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return defaultValue
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
