// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port string

	DBPath string

	// WhatsApp Cloud API credentials.
	WAToken         string
	WAPhoneNumberID string
	WAVerifyToken   string
	WAAppSecret     string

	// Admin bridge bearer token.
	AdminToken string

	// External collaborator endpoints.
	OCRURL    string
	QRGenURL  string
	NearbyURL string

	// Bounded timeout for collaborator and platform calls.
	HTTPTimeout time.Duration

	// Sweeper policy.
	SessionIdleTTL time.Duration
	DedupRetention time.Duration
	SweepInterval  time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		DBPath:          getEnv("DB_PATH", "./data/motobot.db"),
		WAToken:         getEnv("WA_TOKEN", ""),
		WAPhoneNumberID: getEnv("WA_PHONE_NUMBER_ID", ""),
		WAVerifyToken:   getEnv("WA_VERIFY_TOKEN", ""),
		WAAppSecret:     getEnv("WA_APP_SECRET", ""),
		AdminToken:      getEnv("ADMIN_TOKEN", ""),
		OCRURL:          getEnv("OCR_URL", ""),
		QRGenURL:        getEnv("QRGEN_URL", ""),
		NearbyURL:       getEnv("NEARBY_URL", ""),
		HTTPTimeout:     getEnvDuration("HTTP_TIMEOUT", 10*time.Second),
		SessionIdleTTL:  getEnvDuration("SESSION_IDLE_TTL", 24*time.Hour),
		DedupRetention:  getEnvDuration("DEDUP_RETENTION", 7*24*time.Hour),
		SweepInterval:   getEnvDuration("SWEEP_INTERVAL", 5*time.Minute),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.WAToken == "" {
		return fmt.Errorf("WA_TOKEN is required")
	}
	if c.WAPhoneNumberID == "" {
		return fmt.Errorf("WA_PHONE_NUMBER_ID is required")
	}
	if c.WAVerifyToken == "" {
		return fmt.Errorf("WA_VERIFY_TOKEN is required")
	}
	if c.WAAppSecret == "" {
		return fmt.Errorf("WA_APP_SECRET is required")
	}
	if c.AdminToken == "" {
		return fmt.Errorf("ADMIN_TOKEN is required")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.SessionIdleTTL <= 0 {
		return fmt.Errorf("SESSION_IDLE_TTL must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
