package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/rowforge/rowforge/internal/config"
	"github.com/rowforge/rowforge/internal/engine"
	"github.com/rowforge/rowforge/internal/logging"
	"github.com/rowforge/rowforge/internal/schema"
	"github.com/rowforge/rowforge/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"max_concurrent_jobs", cfg.Engine.MaxConcurrent,
		"batch_size", cfg.Engine.BatchSize,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	// Load preset schemas if a schema directory is configured
	if cfg.Engine.SchemaDir != "" {
		loaded, err := schema.LoadDir(cfg.Engine.SchemaDir)
		if err != nil {
			slog.Error("failed to load preset schemas", "dir", cfg.Engine.SchemaDir, "error", err)
			os.Exit(1)
		}
		slog.Info("preset schemas loaded",
			"dir", cfg.Engine.SchemaDir,
			"count", loaded,
			"keys", strings.Join(schema.Keys(), ", "),
		)
	}

	// Custom transform capabilities are registered here, ahead of any run.
	registry := engine.NewRegistry()

	service := engine.NewService(registry, engine.ServiceOptions{
		MaxConcurrent: cfg.Engine.MaxConcurrent,
		MaxWaitTime:   cfg.Engine.MaxWaitTime,
		BatchSize:     cfg.Engine.BatchSize,
		JobTimeout:    cfg.Engine.JobTimeout,
		Retention:     cfg.Engine.ResultRetention,
	})

	server := web.NewServer(service, cfg)

	// Shut down cleanly on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Server.Addr())
		errCh <- server.Start(cfg.Server.Addr())
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Let in-flight jobs finish before stopping the listener
	if err := service.Limiter().WaitForDrain(shutdownCtx); err != nil {
		slog.Warn("jobs still active at shutdown", "error", err)
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
