package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Port string
	Env  string

	// Answering service
	AnswerURL     string
	AnswerTimeout time.Duration

	// CORS origins allowed to call the API (the browser UI runs on a
	// different port in development). "*" allows all.
	CORSOrigins []string
}

// Load reads configuration from environment variables.
// In development, it loads from .env file if present.
// In production, it panics on missing required variables.
func Load() *Config {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		AnswerURL:     getEnv("ANSWER_URL", "http://127.0.0.1:5000"),
		AnswerTimeout: getDuration("ANSWER_TIMEOUT", 30*time.Second),
		CORSOrigins:   []string{"*"},
	}

	// Parse allowed origins (comma-separated)
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = nil
		for _, entry := range strings.Split(origins, ",") {
			entry = strings.TrimSpace(entry)
			if entry != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, entry)
			}
		}
	}

	// In production, require an explicit answering service URL
	if cfg.Env == "production" && os.Getenv("ANSWER_URL") == "" {
		panic("ANSWER_URL is required in production")
	}

	return cfg
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
