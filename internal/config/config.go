// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds everything the service needs to run.
type Config struct {
	Port        int
	DatabaseURL string

	// GeminiKeys are tried in order; each key is attempted against every
	// model configuration before moving to the next key.
	GeminiKeys []string
	GroqAPIKey string

	RazorpayKeyID         string
	RazorpayKeySecret     string
	RazorpayWebhookSecret string

	// AuthJWTSecret verifies identity-provider session tokens.
	AuthJWTSecret string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:                  getEnvInt("PORT", 8080),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		GeminiKeys:            SplitKeys(os.Getenv("GEMINI_API_KEY")),
		GroqAPIKey:            os.Getenv("GROQ_API_KEY"),
		RazorpayKeyID:         os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret:     os.Getenv("RAZORPAY_KEY_SECRET"),
		RazorpayWebhookSecret: os.Getenv("RAZORPAY_WEBHOOK_SECRET"),
		AuthJWTSecret:         os.Getenv("AUTH_JWT_SECRET"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required settings are present.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if len(c.GeminiKeys) == 0 && c.GroqAPIKey == "" {
		return fmt.Errorf("at least one of GEMINI_API_KEY or GROQ_API_KEY is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	return nil
}

// SplitKeys parses a comma-separated API key list, dropping empty entries.
func SplitKeys(raw string) []string {
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		k = strings.TrimSpace(k)
		if k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
