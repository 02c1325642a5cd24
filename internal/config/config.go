package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPPort    string
	MongoURI    string
	MongoDBName string

	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration

	CorsOrigin string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string
}

func Load() Config {
	return Config{
		HTTPPort:    getenv("HTTP_PORT", "8080"),
		MongoURI:    getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName: getenv("MONGO_DB", "tasktrek"),

		AccessSecret:  getenv("JWT_ACCESS_SECRET", "tasktrek-dev-access"),
		RefreshSecret: getenv("JWT_REFRESH_SECRET", "tasktrek-dev-refresh"),
		AccessTTL:     time.Duration(getenvInt("JWT_ACCESS_TTL_MINUTES", 60)) * time.Minute,
		RefreshTTL:    time.Duration(getenvInt("JWT_REFRESH_TTL_HOURS", 168)) * time.Hour,

		CorsOrigin: getenv("CORS_ORIGIN", "*"),

		// SMTP: empty host leaves notifications disabled.
		SMTPHost:     getenv("SMTP_HOST", ""),
		SMTPPort:     getenv("SMTP_PORT", "587"),
		SMTPUsername: getenv("SMTP_USERNAME", ""),
		SMTPPassword: getenv("SMTP_PASSWORD", ""),
		SMTPFrom:     getenv("SMTP_FROM", ""),
		SMTPFromName: getenv("SMTP_FROM_NAME", "TaskTrek"),
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
