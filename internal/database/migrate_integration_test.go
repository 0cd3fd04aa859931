//go:build integration

package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/tagonlink/tagonlink/internal/database"
	"github.com/tagonlink/tagonlink/internal/testutil"
)

func TestIntegrationMigrate_UpAndReset(t *testing.T) {
	dsn := testutil.RequireEnv(t, "DATABASE_URL")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Open(ctx, dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	unlock, err := testutil.AcquireSQLLock(ctx, db.DB)
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	defer func() { _ = unlock() }()

	if err := database.Reset(ctx, db.DB); err != nil {
		t.Fatalf("reset: %v", err)
	}

	version, err := database.Version(ctx, db.DB)
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if version != 2 {
		t.Fatalf("expected schema version 2, got %d", version)
	}

	// Applying again is a no-op.
	if err := database.Migrate(ctx, db.DB); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = 'public' AND table_name IN ('users', 'links')`); err != nil {
		t.Fatalf("count tables: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected users and links tables, found %d", count)
	}
}
