// Package config loads runtime configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs to start.
type Config struct {
	Port        int
	DatabaseURL string
	JWTSecret   string
	GeminiModel string
	GeminiKey   string
	JobBuffer   int
}

// Load reads configuration from environment variables. A .env file in the
// working directory is applied first if present; real environment variables
// win over file values.
func Load() (*Config, error) {
	// Missing file is the normal production case.
	_ = godotenv.Load()

	cfg := &Config{
		Port:        8080,
		GeminiModel: "gemini-2.5-flash",
		JobBuffer:   100,
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("Load: invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("Load: DATABASE_URL is required")
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("Load: JWT_SECRET is required")
	}

	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.GeminiModel = v
	}
	cfg.GeminiKey = os.Getenv("GEMINI_API_KEY")

	if v := os.Getenv("JOB_BUFFER"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("Load: invalid JOB_BUFFER %q", v)
		}
		cfg.JobBuffer = n
	}

	return cfg, nil
}
