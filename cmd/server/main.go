package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/kwhall/auditdash/internal/config"
	"github.com/kwhall/auditdash/internal/dataset"
	_ "github.com/kwhall/auditdash/internal/dataset/tables" // Register all tables
	"github.com/kwhall/auditdash/internal/logging"
	"github.com/kwhall/auditdash/internal/session"
	"github.com/kwhall/auditdash/internal/web"
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
		"data_dir", cfg.Data.Dir,
		"fiscal_year", cfg.Data.FiscalYear,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)
	slog.Info("tables registered", "count", dataset.TableCount())

	// Load the dataset once at startup; the server has nothing to serve
	// without it.
	mgr := session.NewManager(cfg.Data.Dir, cfg.Data.FiscalYear, slog.Default(), session.Options{
		ReloadMaxWait: cfg.Reload.MaxWait,
		ActivityLimit: cfg.Reload.ActivityLimit,
	})
	if _, err := mgr.Load(context.Background()); err != nil {
		slog.Error("failed to load source data", "error", err, "dir", cfg.Data.Dir)
		os.Exit(1)
	}

	// Create server with config
	server := web.NewServer(mgr, cfg)

	// Create cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())

	if cfg.Watch.Enabled {
		go mgr.StartSourceWatcher(jobCtx, session.WatchConfig{
			Interval: cfg.Watch.Interval,
		})
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		// Stop background jobs
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Let an in-flight reload finish before stopping
		if err := mgr.Drain(shutdownCtx); err != nil {
			slog.Warn("reload did not finish in time", "error", err)
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	// Start server (uses addr from config internally)
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
