package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"DermanlykBackend/config"
	"DermanlykBackend/internal/imagestore"
	"DermanlykBackend/internal/repository/postgres"
	"DermanlykBackend/internal/router"
	"DermanlykBackend/internal/service"
	"DermanlykBackend/scripts"

	_ "github.com/lib/pq"
)

func setupLogger(cfg *config.Config) {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if strings.EqualFold(cfg.LogFormat, "json") {
		h = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		h = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg)

	db, err := config.NewConnection(cfg)
	if err != nil {
		slog.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing the database", "error", err)
		}
	}()

	ctx := context.Background()
	if err := postgres.RunMigrations(ctx, db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	if cfg.SeedDir != "" {
		repo := postgres.NewHerbRepository(db)
		writer := service.NewHerbWriter(repo, imagestore.New(cfg.MediaRoot, cfg.UploadSubdir))
		if err := scripts.ImportHerbsFromDir(ctx, repo, writer, cfg.SeedDir); err != nil {
			slog.Error("seed import failed", "error", err)
			os.Exit(1)
		}
	}

	r := router.NewRouter(db, cfg)

	slog.Info("server started", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
