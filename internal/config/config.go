package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvironmentSandbox    = "sandbox"
	EnvironmentProduction = "production"
)

// Config holds application configuration
type Config struct {
	Port           string
	LogLevel       string
	BasiqAPIKey    string
	BasiqAppID     string
	BasiqEnv       string
	BasiqURL       string
	BasiqTimeout   time.Duration
	AllowedOrigins []string
	DefaultPhone   string
}

// LoadDotEnv loads variables from a .env file if one exists. Variables
// already present in the environment win.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	timeout, err := time.ParseDuration(getEnv("BASIQ_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid BASIQ_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "INFO"),
		BasiqAPIKey:    getEnv("BASIQ_API_KEY", ""),
		BasiqAppID:     getEnv("BASIQ_APPLICATION_ID", ""),
		BasiqEnv:       strings.ToLower(getEnv("BASIQ_ENVIRONMENT", EnvironmentSandbox)),
		BasiqURL:       getEnv("BASIQ_API_URL", "https://au-api.basiq.io"),
		BasiqTimeout:   timeout,
		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		DefaultPhone:   getEnv("ONBOARD_DEFAULT_PHONE", ""),
	}

	if cfg.BasiqAPIKey == "" {
		return nil, fmt.Errorf("BASIQ_API_KEY is required")
	}
	if cfg.BasiqEnv != EnvironmentSandbox && cfg.BasiqEnv != EnvironmentProduction {
		return nil, fmt.Errorf("BASIQ_ENVIRONMENT must be %q or %q, got %q", EnvironmentSandbox, EnvironmentProduction, cfg.BasiqEnv)
	}
	if cfg.BasiqURL == "" {
		return nil, fmt.Errorf("BASIQ_API_URL is required")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
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
