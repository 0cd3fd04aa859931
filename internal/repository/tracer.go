package repository

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"
)

// connErrorLogger logs connectivity failures seen by the pool. It only
// logs; reconnection is left to pgxpool.
type connErrorLogger struct {
	logger *slog.Logger
}

var (
	_ pgx.QueryTracer   = (*connErrorLogger)(nil)
	_ pgx.ConnectTracer = (*connErrorLogger)(nil)
)

func (l *connErrorLogger) TraceConnectStart(ctx context.Context, _ pgx.TraceConnectStartData) context.Context {
	return ctx
}

func (l *connErrorLogger) TraceConnectEnd(ctx context.Context, data pgx.TraceConnectEndData) {
	if data.Err == nil {
		return
	}
	l.logger.ErrorContext(ctx, "database_connect_failed", "error", data.Err)
}

func (l *connErrorLogger) TraceQueryStart(ctx context.Context, _ *pgx.Conn, _ pgx.TraceQueryStartData) context.Context {
	return ctx
}

// TraceQueryEnd reports queries that left their connection closed. Plain
// SQL errors are the caller's business.
func (l *connErrorLogger) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	if data.Err == nil || conn == nil || !conn.IsClosed() {
		return
	}
	l.logger.ErrorContext(ctx, "database_connection_lost", "error", data.Err)
}
