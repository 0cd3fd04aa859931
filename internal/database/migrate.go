// Package database owns the schema: embedded goose migrations and the
// database/sql connection they run over.
package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

// DriverName is the database/sql driver used for migrations and inspection.
const DriverName = "postgres"

//go:embed migrations/*.sql
var Migrations embed.FS

// goose keeps its base FS and dialect in package globals.
var gooseMu sync.Mutex

// Open opens a sqlx handle for the given PostgreSQL DSN and verifies it.
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Migrate applies all pending migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	return withGoose(func() error {
		if err := goose.UpContext(ctx, db, "."); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		return nil
	})
}

// Rollback reverts the most recently applied migration.
func Rollback(ctx context.Context, db *sql.DB) error {
	return withGoose(func() error {
		if err := goose.DownContext(ctx, db, "."); err != nil {
			return fmt.Errorf("rollback migration: %w", err)
		}
		return nil
	})
}

// Reset reverts every migration and applies them again.
func Reset(ctx context.Context, db *sql.DB) error {
	return withGoose(func() error {
		if err := goose.ResetContext(ctx, db, "."); err != nil {
			return fmt.Errorf("reset migrations: %w", err)
		}
		if err := goose.UpContext(ctx, db, "."); err != nil {
			return fmt.Errorf("reapply migrations: %w", err)
		}
		return nil
	})
}

// Status writes the migration status table to out.
func Status(ctx context.Context, db *sql.DB, out io.Writer) error {
	return withGoose(func() error {
		goose.SetLogger(&writerLogger{out: out})
		defer goose.SetLogger(goose.NopLogger())
		if err := goose.StatusContext(ctx, db, "."); err != nil {
			return fmt.Errorf("migration status: %w", err)
		}
		return nil
	})
}

// Version returns the current schema version.
func Version(ctx context.Context, db *sql.DB) (int64, error) {
	var version int64
	err := withGoose(func() error {
		v, err := goose.GetDBVersionContext(ctx, db)
		if err != nil {
			return fmt.Errorf("schema version: %w", err)
		}
		version = v
		return nil
	})
	return version, err
}

func withGoose(fn func() error) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := goose.SetDialect(DriverName); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	sub, err := fs.Sub(Migrations, "migrations")
	if err != nil {
		return fmt.Errorf("sub migrations fs: %w", err)
	}

	goose.SetBaseFS(sub)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(goose.NopLogger())

	return fn()
}

type writerLogger struct {
	out io.Writer
}

func (l *writerLogger) Fatalf(format string, v ...interface{}) {
	fmt.Fprintf(l.out, format, v...)
}

func (l *writerLogger) Printf(format string, v ...interface{}) {
	fmt.Fprintf(l.out, format, v...)
}
