package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Environment string
	LogLevel    slog.Level

	CatalogPath string
	TuningPath  string // optional YAML overrides for pkg/tuning

	RedisURL string // optional; enables the Redis sink

	Seed          int64
	Seeded        bool // Seed was set explicitly
	FrameRate     int
	SnapshotEvery int // frames between published snapshots
}

func Load() (*Config, error) {
	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),
		CatalogPath: getEnv("CATALOG_PATH", "./data/catalog.json"),
		TuningPath:  os.Getenv("TUNING_PATH"),
		RedisURL:    os.Getenv("REDIS_URL"),
	}

	var err error
	if cfg.FrameRate, err = getEnvInt("FRAME_RATE", 60); err != nil {
		return nil, err
	}
	if cfg.SnapshotEvery, err = getEnvInt("SNAPSHOT_EVERY", 30); err != nil {
		return nil, err
	}
	if raw := os.Getenv("ATLAS_SEED"); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ATLAS_SEED %q: %w", raw, err)
		}
		cfg.Seed, cfg.Seeded = seed, true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges that Load cannot express as defaults.
func (c *Config) Validate() error {
	if c.CatalogPath == "" {
		return fmt.Errorf("CATALOG_PATH is required")
	}
	if c.FrameRate < 1 || c.FrameRate > 240 {
		return fmt.Errorf("FRAME_RATE must be between 1 and 240, got %d", c.FrameRate)
	}
	if c.SnapshotEvery < 1 {
		return fmt.Errorf("SNAPSHOT_EVERY must be positive, got %d", c.SnapshotEvery)
	}
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}
