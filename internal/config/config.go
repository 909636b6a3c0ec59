package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all runtime settings. It is loaded once at startup and
// treated as immutable afterwards.
type Config struct {
	GeminiAPIKey    string
	StoreURL        string
	StoreServiceKey string

	HTTPPort          string
	LogLevel          string
	HistoryLimit      int // most recent N messages sent to the model per turn; 0 means unbounded
	CORSAllowedOrigin string
}

// Load reads the configuration from environment variables.
// It returns an error naming every missing required variable.
func Load() (*Config, error) {
	cfg := &Config{
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		StoreURL:          os.Getenv("STORE_URL"),
		StoreServiceKey:   os.Getenv("STORE_SERVICE_KEY"),
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "INFO"),
		HistoryLimit:      getEnvAsInt("HISTORY_LIMIT", 0),
		CORSAllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "*"),
	}

	var missing []string
	if cfg.GeminiAPIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	if cfg.StoreURL == "" {
		missing = append(missing, "STORE_URL")
	}
	if cfg.StoreServiceKey == "" {
		missing = append(missing, "STORE_SERVICE_KEY")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	return cfg, nil
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
