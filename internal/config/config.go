// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits with an
// error.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the listing service.
type Config struct {
	Port                string
	DatabaseURL         string
	RedisURL            string
	FetchTimeoutSeconds int // deadline around gateway calls per aggregation
	RefreshIntervalMins int // snapshot refresh cadence
}

// Load reads environment variables (after an optional .env file) and
// returns a validated Config.
func Load() (*Config, error) {
	// .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	port := os.Getenv("LISTING_PORT")
	if port == "" {
		port = "8083"
	}

	fetchTimeout := 10
	if s := os.Getenv("FETCH_TIMEOUT_SECONDS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("FETCH_TIMEOUT_SECONDS must be a positive integer, got %q", s)
		}
		fetchTimeout = v
	}

	refreshInterval := 15
	if s := os.Getenv("REFRESH_INTERVAL_MINUTES"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("REFRESH_INTERVAL_MINUTES must be a positive integer, got %q", s)
		}
		refreshInterval = v
	}

	return &Config{
		Port:                port,
		DatabaseURL:         dbURL,
		RedisURL:            redisURL,
		FetchTimeoutSeconds: fetchTimeout,
		RefreshIntervalMins: refreshInterval,
	}, nil
}
