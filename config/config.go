// Package config loads server configuration from environment variables.
// Storage locations are fixed relative paths; only the listening port and
// log shape are tunable.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// Fixed storage layout under the working directory.
const (
	DataDir    = "data"
	UploadsDir = "data/uploads"
)

// DBPath is the SQLite database file location.
var DBPath = filepath.Join(DataDir, "storage.db")

type Config struct {
	// HTTP listening port (PORT, default 8081)
	Port int
	// Log level: debug, info, warn, error (LOG_LEVEL, default info)
	LogLevel slog.Level
	// Log format: json or text (LOG_FORMAT, default text)
	LogFormat string
}

// Load reads and validates configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}

	port, err := getEnvInt("PORT", 8081)
	if err != nil {
		return nil, fmt.Errorf("PORT: %w", err)
	}
	if port < 1 || port > 65535 {
		return nil, fmt.Errorf("PORT: %d out of range", port)
	}
	cfg.Port = port

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	format := strings.ToLower(getEnv("LOG_FORMAT", "text"))
	if format != "json" && format != "text" {
		return nil, fmt.Errorf("LOG_FORMAT: unknown format %q", format)
	}
	cfg.LogFormat = format

	return cfg, nil
}

// NewLogger builds the process logger according to the configuration.
func (c *Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", v)
	}
	return n, nil
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
	}
	return 0, fmt.Errorf("unknown level %q", s)
}
