package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	DatabaseURL      string
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string

	// Optional LLM extractor; sync works without it
	OpenAIAPIKey string
	OpenAIModel  string

	SyncMaxConcurrentFetches int
	SyncFetchTimeout         time.Duration
}

// Load reads configuration from the environment. It returns an error when a
// required variable is missing so the process refuses to serve misconfigured.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	accessExpiry := 15 * time.Minute
	if exp := os.Getenv("JWT_ACCESS_EXPIRY"); exp != "" {
		if parsed, err := time.ParseDuration(exp); err == nil {
			accessExpiry = parsed
		}
	}

	refreshExpiry := 168 * time.Hour // 7 days
	if exp := os.Getenv("JWT_REFRESH_EXPIRY"); exp != "" {
		if parsed, err := time.ParseDuration(exp); err == nil {
			refreshExpiry = parsed
		}
	}

	fetchTimeout := 30 * time.Second
	if t := os.Getenv("SYNC_FETCH_TIMEOUT"); t != "" {
		if parsed, err := time.ParseDuration(t); err == nil {
			fetchTimeout = parsed
		}
	}

	maxFetches := 5
	if v := os.Getenv("SYNC_MAX_CONCURRENT_FETCHES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			maxFetches = parsed
		}
	}

	cfg := &Config{
		Port:                     getEnv("PORT", "8080"),
		DatabaseURL:              os.Getenv("DATABASE_URL"),
		JWTSecret:                os.Getenv("JWT_SECRET"),
		JWTAccessExpiry:          accessExpiry,
		JWTRefreshExpiry:         refreshExpiry,
		GoogleClientID:           os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret:       os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURI:        getEnv("GOOGLE_REDIRECT_URI", "http://localhost:8080/api/auth/gmail/callback"),
		OpenAIAPIKey:             os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:              getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		SyncMaxConcurrentFetches: maxFetches,
		SyncFetchTimeout:         fetchTimeout,
	}

	required := map[string]string{
		"DATABASE_URL":         cfg.DatabaseURL,
		"JWT_SECRET":           cfg.JWTSecret,
		"GOOGLE_CLIENT_ID":     cfg.GoogleClientID,
		"GOOGLE_CLIENT_SECRET": cfg.GoogleClientSecret,
		"GOOGLE_REDIRECT_URI":  cfg.GoogleRedirectURI,
	}
	for name, value := range required {
		if value == "" {
			return nil, fmt.Errorf("missing required environment variable %s", name)
		}
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
