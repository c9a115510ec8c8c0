// Package main is the entry point for the NutriAI tracker server.
//
// main() stays minimal, as a Go entry point should:
//  1. Build the logger
//  2. Load configuration from the environment
//  3. Hand both to the server package, which wires everything else
//
// All actual logic lives in imported packages (internal/server,
// internal/service, ...), which keeps the app testable without running
// the binary.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nhasan/nutriai/internal/config"
	"github.com/nhasan/nutriai/internal/server"
)

func main() {
	cfg, err := config.NewFromEnv()
	if err != nil {
		// Logger isn't configured yet — a plain stderr line is fine for
		// "you forgot an env var".
		slog.Error("configuration error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// Make sure the state database's directory exists before SQLite tries
	// to create the file in it.
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (Ctrl+C or SIGTERM).
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
