// Package app assembles the API from configuration. Both the long-running
// server and the serverless entry build the same router through it.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/tagonlink/tagonlink/internal/auth"
	"github.com/tagonlink/tagonlink/internal/config"
	"github.com/tagonlink/tagonlink/internal/database"
	"github.com/tagonlink/tagonlink/internal/metrics"
	"github.com/tagonlink/tagonlink/internal/middleware"
	"github.com/tagonlink/tagonlink/internal/repository"
	"github.com/tagonlink/tagonlink/internal/service"
)

// App owns the process-wide dependencies.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Repo    *repository.Repository
	Metrics *metrics.PrometheusRecorder
	Handler http.Handler
}

// New connects to the database, optionally migrates it, and builds the router.
// Errors never contain the database password.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if cfg.AutoMigrate {
		if err := migrate(ctx, cfg.DatabaseURL); err != nil {
			return nil, err
		}
		logger.Info("migrations applied")
	}

	// Serverless pools dial on first query; /api/health reports outages.
	repo, err := repository.New(ctx, cfg.DatabaseURL, repository.PoolOptions{
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
		Logger:   logger,
		Lazy:     cfg.Serverless,
	})
	if err != nil {
		return nil, errors.New(config.SanitizeError(err, cfg.DatabaseURL))
	}

	if !cfg.Serverless {
		logger.Info("connected to database", "database_url", config.RedactURL(cfg.DatabaseURL))
		if missing, err := repo.MissingTables(ctx); err == nil && len(missing) > 0 {
			logger.Warn("schema incomplete, run tagonlinkctl migrate up", "missing_tables", missing)
		}
	}

	var recorder metrics.Recorder = metrics.NewNoop()
	var prom *metrics.PrometheusRecorder
	if cfg.MetricsEnabled {
		prom = metrics.NewPrometheus()
		recorder = prom
	}

	tokens := auth.NewTokenCodec(cfg.JWTSecret, cfg.TokenTTL)
	hasher := auth.NewPasswordHasher(auth.DefaultParams)

	deps := RouterDeps{
		Logger:       logger,
		Health:       repo,
		Auth:         service.NewAuthService(repo, hasher, tokens, recorder),
		Links:        service.NewLinkService(repo, recorder),
		Tokens:       tokens,
		Metrics:      recorder,
		CORS:         corsConfig(cfg),
		Security:     middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment()},
		MaxBodyBytes: cfg.MaxRequestBodySize,
	}
	if prom != nil {
		deps.Exposer = prom
	}

	return &App{
		Config:  cfg,
		Logger:  logger,
		Repo:    repo,
		Metrics: prom,
		Handler: NewRouter(deps),
	}, nil
}

// Close releases the connection pool.
func (a *App) Close() {
	a.Repo.Close()
}

func corsConfig(cfg *config.Config) middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	if origins := cfg.GetCORSAllowedOrigins(); len(origins) > 0 {
		cors.AllowedOrigins = origins
	}
	return cors
}

func migrate(ctx context.Context, dsn string) error {
	db, err := database.Open(ctx, dsn)
	if err != nil {
		return errors.New(config.SanitizeError(err, dsn))
	}
	defer db.Close()

	if err := database.Migrate(ctx, db.DB); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}
