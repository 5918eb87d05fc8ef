package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port string

	// Document store configuration
	StoreURL      string // base URL of the remote document host
	StoreBinID    string // fixed resource id of the shared document
	StoreAPIKey   string // static secret sent as X-Access-Key
	StoreTimeout  time.Duration
	StoreRetries  int

	// Session database (local sqlite)
	SessionDBPath string
	SessionTTL    time.Duration

	// AI service configuration
	AIBaseURL         string
	AIAPIKey          string
	AIPrimaryModel    string
	AIFallbackModel   string
	ValidationTimeout time.Duration // fail-open window for image/document validation
	KeyFetchTimeout   time.Duration // settings-key override lookup budget

	// Media upload provider
	MediaUploadURL string
	MediaUploadKey string

	// Initial admin seeding, run once at startup (replaces the legacy
	// always-active recovery credential)
	AdminEmail    string
	AdminPassword string
}

// Load loads configuration from the environment, honoring a local .env file
// when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "3000"),
		StoreURL:          getEnv("STORE_URL", ""),
		StoreBinID:        getEnv("STORE_BIN_ID", ""),
		StoreAPIKey:       getEnv("STORE_API_KEY", ""),
		StoreTimeout:      getEnvAsDuration("STORE_TIMEOUT", 15*time.Second),
		StoreRetries:      getEnvAsInt("STORE_RETRIES", 2),
		SessionDBPath:     getEnv("SESSION_DB_PATH", "sessions.db"),
		SessionTTL:        getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		AIBaseURL:         getEnv("AI_BASE_URL", ""),
		AIAPIKey:          getEnv("AI_API_KEY", ""),
		AIPrimaryModel:    getEnv("AI_PRIMARY_MODEL", "gemini-2.5-flash"),
		AIFallbackModel:   getEnv("AI_FALLBACK_MODEL", "gemini-2.0-flash"),
		ValidationTimeout: getEnvAsDuration("VALIDATION_TIMEOUT", 60*time.Second),
		KeyFetchTimeout:   getEnvAsDuration("KEY_FETCH_TIMEOUT", 1500*time.Millisecond),
		MediaUploadURL:    getEnv("MEDIA_UPLOAD_URL", ""),
		MediaUploadKey:    getEnv("MEDIA_UPLOAD_KEY", ""),
		AdminEmail:        getEnv("ADMIN_EMAIL", ""),
		AdminPassword:     getEnv("ADMIN_PASSWORD", ""),
	}

	// Validate required fields
	if cfg.StoreURL == "" {
		return nil, fmt.Errorf("STORE_URL is required")
	}
	if cfg.StoreBinID == "" {
		return nil, fmt.Errorf("STORE_BIN_ID is required")
	}
	if cfg.StoreAPIKey == "" {
		return nil, fmt.Errorf("STORE_API_KEY is required")
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration gets an environment variable as a duration or returns a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
