// Package config loads rollocd settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr    string
	LogLevel    slog.Level
	CatalogPath string
	SpinTimeout time.Duration
	// MaxSpinDuration caps the duration a spin request may ask for.
	MaxSpinDuration time.Duration
	// OverlappingSpins disables the one-spin-at-a-time guard on every wheel.
	OverlappingSpins bool
}

// Load reads the configuration. Variables already set in the environment win
// over the .env file named by ENV_FILE (default ".env"); a missing file is
// not an error.
func Load() (Config, error) {
	envFile := envOr("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	c := Config{
		HTTPAddr:        envOr("HTTP_ADDR", ":8080"),
		CatalogPath:     os.Getenv("CATALOG_PATH"),
		SpinTimeout:     30 * time.Second,
		MaxSpinDuration: time.Minute,
	}

	if v := os.Getenv("SPIN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid SPIN_TIMEOUT %q", v)
		}
		c.SpinTimeout = d
	}

	if v := os.Getenv("MAX_SPIN_DURATION"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid MAX_SPIN_DURATION %q", v)
		}
		c.MaxSpinDuration = d
	}

	overlap, err := parseBool(envOr("OVERLAPPING_SPINS", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid OVERLAPPING_SPINS: %w", err)
	}
	c.OverlappingSpins = overlap

	level, err := parseLogLevel(envOr("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}
	c.LogLevel = level

	return c, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%q is not a boolean", s)
	}
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
}
