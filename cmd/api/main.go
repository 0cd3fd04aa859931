// Package main is the entrypoint for the TAGONLINK API server.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/tagonlink/tagonlink/internal/app"
	"github.com/tagonlink/tagonlink/internal/config"
	"github.com/tagonlink/tagonlink/internal/server"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", config.SanitizeError(err, os.Getenv("DATABASE_URL")))
		os.Exit(1)
	}

	logger := app.NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	// On the serverless platform requests arrive through api.Handler.
	if cfg.Serverless {
		logger.Info("serverless environment detected, not starting a listener")
		return
	}

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to start",
			slog.String("error", err.Error()),
			slog.String("database_url", config.RedactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}

	srv := server.New(a.Handler, server.Options{
		Port:            cfg.Port,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)
	srv.OnShutdown("postgres", func(ctx context.Context) error {
		a.Close()
		return nil
	})

	logger.Info("starting server",
		"port", cfg.Port,
		"env", cfg.AppEnv,
		"metrics", cfg.MetricsEnabled,
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
