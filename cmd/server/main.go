// Package main is the entry point for the DevSnippet server.
//
// Its job is deliberately small: build the logger, load the config, make
// sure the data directory exists, and hand off to internal/server. All
// actual behavior lives in the internal packages so it can be tested
// without running a binary.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/devsnippet/internal/config"
	"github.com/sakif/devsnippet/internal/server"
)

func main() {
	cfg := config.MustLoad()

	level := slog.LevelInfo
	if cfg.Env == "dev" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))

	// Create the database directory if needed (like `mkdir -p`).
	if dir := filepath.Dir(cfg.StoragePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	// Template and static paths are relative to the project root, which
	// is the working directory both under `go run` and in the container
	// image.
	templateDir, _ := filepath.Abs("web/templates")
	staticDir, _ := filepath.Abs("web/static")

	srv, err := server.New(cfg, server.Dirs{
		Templates: templateDir,
		Static:    staticDir,
	}, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until the server is shut down via SIGINT/SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
