package config

import (
	"log"
	"os"
	"strings"
	"time"
)

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr                   string
	MongoURI               string
	MongoDatabase          string
	CafeCollection         string
	CategoryCollection     string
	EvaluatorCollection    string
	ReviewCollection       string
	AdminAccountCollection string
	PingCollection         string
	Timeout                time.Duration
	Timezone               string
	ServerLog              *log.Logger
	JWTSecret              []byte
	JWTIssuer              string
	JWTAudience            string
	TokenTTL               time.Duration
	AllowedOrigins         []string
}

// Load reads environment variables and returns a fully populated Config.
func Load() Config {
	timeout := 10 * time.Second
	if v := os.Getenv("MONGO_CONNECT_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			timeout = parsed
		}
	}

	jwtSecret := strings.TrimSpace(os.Getenv("AUTH_JWT_SECRET"))
	if jwtSecret == "" {
		log.Fatal("AUTH_JWT_SECRET must be configured")
	}

	tokenTTL := 12 * time.Hour
	if raw := strings.TrimSpace(os.Getenv("AUTH_TOKEN_TTL")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			tokenTTL = parsed
		}
	}

	cfg := Config{
		Addr:                   envOrDefault("HTTP_ADDR", ":8080"),
		MongoURI:               envOrDefault("MONGO_URI", "mongodb://mongo:27017"),
		MongoDatabase:          envOrDefault("MONGO_DB", "cafe-guide"),
		CafeCollection:         envOrDefault("CAFE_COLLECTION", "cafes"),
		CategoryCollection:     envOrDefault("CATEGORY_COLLECTION", "categories"),
		EvaluatorCollection:    envOrDefault("EVALUATOR_COLLECTION", "evaluators"),
		ReviewCollection:       envOrDefault("REVIEW_COLLECTION", "reviews"),
		AdminAccountCollection: envOrDefault("ADMIN_ACCOUNT_COLLECTION", "admin_accounts"),
		PingCollection:         envOrDefault("PING_COLLECTION", "pings"),
		Timeout:                timeout,
		Timezone:               envOrDefault("TIMEZONE", "Europe/Madrid"),
		ServerLog:              log.New(os.Stdout, "[cafe-guide-api] ", log.LstdFlags|log.Lshortfile),
		JWTSecret:              []byte(jwtSecret),
		JWTIssuer:              envOrDefault("AUTH_JWT_ISSUER", "cafe-guide-auth"),
		JWTAudience:            strings.TrimSpace(os.Getenv("AUTH_JWT_AUDIENCE")),
		TokenTTL:               tokenTTL,
		AllowedOrigins:         parseList("API_ALLOWED_ORIGINS", []string{"*"}),
	}

	return cfg
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
