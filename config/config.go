package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	PORT      string
	APP_ENV   string
	APP_URL   string
	LOG_LEVEL string

	// STORAGE is "postgres" or "memory".
	STORAGE    string
	DB_URL     string
	JWT_SECRET string
	TOKEN_TTL  time.Duration

	CORS_ORIGIN string

	STABILITY_API_KEY string
	STABILITY_API_URL string
	AI_TIMEOUT        time.Duration

	MEDIA_BUCKET_URL string
	REDIS_ADDR       string

	STRIPE_SECRET_KEY     string
	STRIPE_WEBHOOK_SECRET string

	KAFKA_BROKERS []string
	KAFKA_TOPIC   string

	AUCTION_SWEEP_SPEC string
	SENTRY_DSN         string

	GOOGLE_CLIENT_ID         string
	GOOGLE_CLIENT_SECRET     string
	GOOGLE_REDIRECT_URL      string
	GOOGLE_FRONTEND_REDIRECT string

	ADMIN_USERNAME string
	ADMIN_PASSWORD string
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	APP_ENV = getEnv("APP_ENV", "development")
	APP_URL = getEnv("APP_URL", "http://localhost:"+PORT)
	LOG_LEVEL = getEnv("LOG_LEVEL", "info")

	STORAGE = strings.ToLower(getEnv("STORAGE", "postgres"))
	if STORAGE != "memory" {
		DB_URL = mustEnv("DB_URL")
	}
	JWT_SECRET = mustEnv("JWT_SECRET")
	TOKEN_TTL = parseDuration("TOKEN_TTL", 24*time.Hour)

	CORS_ORIGIN = getEnv("CORS_ORIGIN", "http://localhost:3000")

	// The studio answers "API key not configured" when this is empty.
	STABILITY_API_KEY = getEnv("STABILITY_API_KEY", "")
	STABILITY_API_URL = getEnv("STABILITY_API_URL", "")
	AI_TIMEOUT = parseDuration("AI_TIMEOUT", 120*time.Second)

	MEDIA_BUCKET_URL = getEnv("MEDIA_BUCKET_URL", "file:///tmp/artmarket-media?create_dir=true")
	REDIS_ADDR = getEnv("REDIS_ADDR", "")

	STRIPE_SECRET_KEY = getEnv("STRIPE_SECRET_KEY", "")
	STRIPE_WEBHOOK_SECRET = getEnv("STRIPE_WEBHOOK_SECRET", "")

	KAFKA_BROKERS = splitList(getEnv("KAFKA_BROKERS", ""))
	KAFKA_TOPIC = getEnv("KAFKA_TOPIC", "artmarket.events")

	AUCTION_SWEEP_SPEC = getEnv("AUCTION_SWEEP_SPEC", "@every 1m")
	SENTRY_DSN = getEnv("SENTRY_DSN", "")

	// Google sign-in is optional; all three must be set to enable it.
	GOOGLE_CLIENT_ID = getEnv("GOOGLE_CLIENT_ID", "")
	GOOGLE_CLIENT_SECRET = getEnv("GOOGLE_CLIENT_SECRET", "")
	GOOGLE_REDIRECT_URL = getEnv("GOOGLE_REDIRECT_URL", "")
	GOOGLE_FRONTEND_REDIRECT = getEnv("GOOGLE_FRONTEND_REDIRECT", "")

	ADMIN_USERNAME = getEnv("ADMIN_USERNAME", "")
	ADMIN_PASSWORD = getEnv("ADMIN_PASSWORD", "")
}

// GoogleEnabled reports whether the Google sign-in settings are complete.
func GoogleEnabled() bool {
	return GOOGLE_CLIENT_ID != "" && GOOGLE_CLIENT_SECRET != "" && GOOGLE_REDIRECT_URL != ""
}

func IsProduction() bool {
	return strings.EqualFold(APP_ENV, "production")
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func parseDuration(key string, fallback time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil || d <= 0 {
		log.Printf("Invalid %s %q, using %s", key, raw, fallback)
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
