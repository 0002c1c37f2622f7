package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/icewatch/great-lakes-ice-watch/internal/noaa"
)

const defaultWindowDays = 365

// Config holds runtime configuration for the watcher service.
type Config struct {
	DatabaseURL    string
	BaseEndpoint   string
	WindowDays     int
	RequestTimeout time.Duration
	RedisURL       string
	DryRun         bool
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load(".env")

	cfg := Config{}

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}

	cfg.BaseEndpoint = strings.TrimSpace(os.Getenv("NOAA_BASE_ENDPOINT"))
	if cfg.BaseEndpoint == "" {
		cfg.BaseEndpoint = noaa.DefaultBaseEndpoint
	}

	cfg.WindowDays = defaultWindowDays
	if v := strings.TrimSpace(os.Getenv("WATCHER_WINDOW_DAYS")); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days <= 0 {
			return cfg, fmt.Errorf("invalid WATCHER_WINDOW_DAYS: %s", v)
		}
		cfg.WindowDays = days
	}

	cfg.RequestTimeout = noaa.DefaultTimeout
	if v := strings.TrimSpace(os.Getenv("WATCHER_REQUEST_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid WATCHER_REQUEST_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))

	dryRun := strings.TrimSpace(os.Getenv("DRY_RUN"))
	cfg.DryRun = dryRun == "1" || strings.EqualFold(dryRun, "true")

	return cfg, nil
}
