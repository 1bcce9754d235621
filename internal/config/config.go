// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits with an error.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the ATS service.
type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string

	// PublicBaseURL is the origin of the candidate-facing SPA; booking
	// links are built against it (e.g. https://app.example.com).
	PublicBaseURL string

	// AllowedOrigin restricts CORS for the recruiter SPA. Empty allows all
	// (local development).
	AllowedOrigin string

	// Google OAuth client used for Calendar event creation and Gmail send
	// on behalf of recruiters. Optional: when empty, those side effects
	// are skipped.
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// External workflow automation (candidate sourcing). Optional.
	WorkflowURL    string
	WorkflowAPIKey string
}

// Load reads environment variables (optionally from a .env file) and
// returns a validated Config.
func Load() (*Config, error) {
	// A missing .env file is fine in containerized deployments.
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	baseURL := os.Getenv("PUBLIC_BASE_URL")
	if baseURL == "" {
		return nil, fmt.Errorf("PUBLIC_BASE_URL is required")
	}

	port := os.Getenv("ATS_PORT")
	if port == "" {
		port = "8080"
	}

	return &Config{
		Port:               port,
		DatabaseURL:        dbURL,
		RedisURL:           redisURL,
		PublicBaseURL:      baseURL,
		AllowedOrigin:      os.Getenv("ALLOWED_ORIGIN"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		WorkflowURL:        os.Getenv("WORKFLOW_URL"),
		WorkflowAPIKey:     os.Getenv("WORKFLOW_API_KEY"),
	}, nil
}
