package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server Configuration
	Port string

	// Database Configuration
	DatabaseURL string

	// Notification Configuration
	AlertWebhookURL string

	// Engine Configuration
	BatchSize    int
	AssetTimeout time.Duration
}

func Load() *Config {
	return &Config{
		// Server
		Port: getEnv("PORT", "8080"),

		// Database
		DatabaseURL: os.Getenv("DATABASE_URL"),

		// Notifications
		AlertWebhookURL: os.Getenv("ALERT_WEBHOOK_URL"),

		// Engine
		BatchSize:    getIntEnv("SCORE_BATCH_SIZE", 10),
		AssetTimeout: getDurationEnv("ASSET_SCORE_TIMEOUT", 30*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		intVal, err := strconv.Atoi(value)
		if err != nil || intVal <= 0 {
			return fallback
		}
		return intVal
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return fallback
		}
		return d
	}
	return fallback
}
