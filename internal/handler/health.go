package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tagonlink/tagonlink/internal/handler/dto"
)

// healthTimeout bounds the database probe.
const healthTimeout = 5 * time.Second

// HealthChecker reports database reachability and schema presence.
type HealthChecker interface {
	Ping(ctx context.Context) error
	MissingTables(ctx context.Context) ([]string, error)
}

// HealthHandler manages health check endpoints.
type HealthHandler struct {
	db     HealthChecker
	logger *slog.Logger
	now    func() time.Time
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db HealthChecker, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// Healthz is a liveness probe endpoint.
// It returns 200 if the process is serving; no dependency is checked.
//
// GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.HealthResponse{
		Status:    "ok",
		Database:  "unchecked",
		Timestamp: timestamp(h.now()),
	})
}

// Health runs SELECT 1 and then looks for the required tables.
// Missing tables are reported but do not fail the check.
//
// GET /api/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Error("health_check_failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, dto.HealthResponse{
			Status:    "error",
			Database:  "disconnected",
			Timestamp: timestamp(h.now()),
			Error:     "could not connect to the database",
			Details:   dbErrorSummary(err),
		})
		return
	}

	resp := dto.HealthResponse{
		Status:    "ok",
		Database:  "connected",
		Timestamp: timestamp(h.now()),
	}

	missing, err := h.db.MissingTables(ctx)
	if err != nil {
		h.logger.Warn("schema_check_failed", "error", err)
	} else if len(missing) > 0 {
		h.logger.Warn("schema_incomplete", "missing_tables", missing)
		resp.MissingTables = missing
	}

	writeJSON(w, http.StatusOK, resp)
}

// dbErrorSummary classifies a database failure for clients. Driver messages
// carry host, user and database names, so they stay in the server log.
func dbErrorSummary(err error) string {
	var pgErr *pgconn.PgError
	var connectErr *pgconn.ConnectError
	switch {
	case errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err):
		return "database did not respond in time"
	case errors.As(err, &pgErr):
		return "database error " + pgErr.Code
	case errors.As(err, &connectErr):
		return "could not reach the database server"
	default:
		return "database unavailable"
	}
}
