// Package config loads the server's configuration from environment
// variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
)

// Config holds everything the server needs from its environment.
//
// GeminiAPIKey may be empty: the server starts without it, but meal
// analysis is unavailable and the analyze endpoints report a descriptive
// configuration error instead of attempting the call.
type Config struct {
	Port         int
	DBPath       string
	JWTSecret    string
	GeminiAPIKey string
	GeminiModel  string
	LogLevel     slog.Level
}

// NewFromEnv creates a Config from environment variables.
//
// Required: JWT_SECRET (the whole API is authenticated; there is no
// degraded auth-less mode worth running).
// Optional with defaults: PORT (8080), DB_PATH (data/nutriai.db),
// GEMINI_MODEL (gemini-2.5-flash), LOG_LEVEL (info).
// Optional: GEMINI_API_KEY (see above).
func NewFromEnv() (*Config, error) {
	cfg := &Config{
		Port:        8080,
		DBPath:      "data/nutriai.db",
		GeminiModel: "gemini-2.5-flash",
		LogLevel:    slog.LevelInfo,
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("config: invalid PORT value %q", portStr)
		}
		cfg.Port = port
	}

	if dbPath := os.Getenv("DB_PATH"); dbPath != "" {
		cfg.DBPath = dbPath
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET environment variable not set")
	}

	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	if m := os.Getenv("GEMINI_MODEL"); m != "" {
		cfg.GeminiModel = m
	}

	switch lvl := os.Getenv("LOG_LEVEL"); lvl {
	case "", "info":
		// default stands
	case "debug":
		cfg.LogLevel = slog.LevelDebug
	case "warn":
		cfg.LogLevel = slog.LevelWarn
	case "error":
		cfg.LogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("config: invalid LOG_LEVEL value %q", lvl)
	}

	return cfg, nil
}
