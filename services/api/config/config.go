package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/icewatch/great-lakes-ice-watch/internal/noaa"
)

// Config holds environment-driven settings for the site server.
type Config struct {
	Host         string
	Port         int
	SiteRoot     string
	BaseEndpoint string
	FetchTimeout time.Duration
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{
		Host:         "0.0.0.0",
		Port:         8080,
		SiteRoot:     "site",
		BaseEndpoint: noaa.DefaultBaseEndpoint,
		FetchTimeout: noaa.DefaultTimeout,
	}

	if host := os.Getenv("HOST"); host != "" {
		cfg.Host = host
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid PORT: %s", portStr)
		}
	}

	if root := os.Getenv("SITE_ROOT"); root != "" {
		cfg.SiteRoot = root
	}

	if endpoint := os.Getenv("NOAA_BASE_ENDPOINT"); endpoint != "" {
		cfg.BaseEndpoint = endpoint
	}

	if timeoutStr := os.Getenv("FETCH_TIMEOUT"); timeoutStr != "" {
		if timeout, err := time.ParseDuration(timeoutStr); err == nil && timeout > 0 {
			cfg.FetchTimeout = timeout
		} else {
			return cfg, fmt.Errorf("invalid FETCH_TIMEOUT: %s", timeoutStr)
		}
	}

	return cfg, nil
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
