// Package dbcheck inspects a PostgreSQL database and reports whether it is
// ready to serve the API: reachability, server version, tables, columns,
// row counts and indexes.
package dbcheck

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/tagonlink/tagonlink/internal/repository"
)

// Column describes one column of an inspected table.
type Column struct {
	Name     string `db:"column_name"`
	DataType string `db:"data_type"`
	Nullable string `db:"is_nullable"`
}

// TableReport holds the structure and size of one required table.
type TableReport struct {
	Name    string
	Columns []Column
	Rows    int64
}

// Report is the result of an inspection.
type Report struct {
	Host     string
	Database string

	ServerTime time.Time
	Version    string

	Tables  []string
	Missing []string
	Details []TableReport
	Indexes []string
}

// Healthy reports whether every required table exists.
func (r *Report) Healthy() bool {
	return len(r.Missing) == 0
}

// Inspector runs read-only catalog queries.
type Inspector struct {
	db *sqlx.DB
}

// New creates an Inspector over an open handle.
func New(db *sqlx.DB) *Inspector {
	return &Inspector{db: db}
}

type serverInfo struct {
	Now     time.Time `db:"server_time"`
	Version string    `db:"pg_version"`
}

// Inspect gathers the report. Host and Database are left for the caller,
// who knows the DSN.
func (i *Inspector) Inspect(ctx context.Context) (*Report, error) {
	var info serverInfo
	if err := i.db.GetContext(ctx, &info, `SELECT NOW() AS server_time, version() AS pg_version`); err != nil {
		return nil, fmt.Errorf("query server info: %w", err)
	}

	report := &Report{
		ServerTime: info.Now,
		Version:    shortVersion(info.Version),
		Tables:     []string{},
	}

	if err := i.db.SelectContext(ctx, &report.Tables, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public'
		ORDER BY table_name`); err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	for _, name := range repository.RequiredTables {
		if !slices.Contains(report.Tables, name) {
			report.Missing = append(report.Missing, name)
			continue
		}
		table, err := i.inspectTable(ctx, name)
		if err != nil {
			return nil, err
		}
		report.Details = append(report.Details, *table)
	}

	report.Indexes = []string{}
	if err := i.db.SelectContext(ctx, &report.Indexes, `
		SELECT indexname
		FROM pg_indexes
		WHERE schemaname = 'public' AND tablename = ANY($1)
		ORDER BY indexname`, pq.Array(repository.RequiredTables)); err != nil {
		return nil, fmt.Errorf("list indexes: %w", err)
	}

	return report, nil
}

func (i *Inspector) inspectTable(ctx context.Context, name string) (*TableReport, error) {
	table := &TableReport{Name: name}

	if err := i.db.SelectContext(ctx, &table.Columns, `
		SELECT column_name, data_type, is_nullable
		FROM information_schema.columns
		WHERE table_schema = 'public' AND table_name = $1
		ORDER BY ordinal_position`, name); err != nil {
		return nil, fmt.Errorf("describe %s: %w", name, err)
	}

	// name comes from RequiredTables, quoted regardless.
	if err := i.db.GetContext(ctx, &table.Rows, "SELECT COUNT(*) FROM "+pq.QuoteIdentifier(name)); err != nil {
		return nil, fmt.Errorf("count %s: %w", name, err)
	}

	return table, nil
}

// shortVersion keeps "PostgreSQL 16.2" from the full version() banner.
func shortVersion(banner string) string {
	fields := strings.Fields(banner)
	if len(fields) >= 2 {
		return fields[0] + " " + fields[1]
	}
	return banner
}

// Target extracts host and database name from a DSN in URL or keyword form.
func Target(dsn string) (host, database string, err error) {
	cfg, err := pgconn.ParseConfig(dsn)
	if err != nil {
		return "", "", fmt.Errorf("parse database URL: %w", err)
	}
	return cfg.Host, cfg.Database, nil
}

// Write renders the report for a terminal.
func (r *Report) Write(w io.Writer) {
	fmt.Fprintf(w, "Host:     %s\n", r.Host)
	fmt.Fprintf(w, "Database: %s\n\n", r.Database)

	fmt.Fprintf(w, "Server time: %s\n", r.ServerTime.UTC().Format(time.RFC3339))
	fmt.Fprintf(w, "Server:      %s\n\n", r.Version)

	fmt.Fprintf(w, "Tables: %s\n", listOrNone(r.Tables))
	if r.Healthy() {
		fmt.Fprintln(w, "All required tables exist.")
	} else {
		fmt.Fprintf(w, "Missing tables: %s (run: tagonlinkctl migrate up)\n", strings.Join(r.Missing, ", "))
	}

	for _, t := range r.Details {
		cols := make([]string, 0, len(t.Columns))
		for _, c := range t.Columns {
			cols = append(cols, fmt.Sprintf("%s (%s)", c.Name, c.DataType))
		}
		fmt.Fprintf(w, "\n%s\n  columns: %s\n  rows:    %d\n", t.Name, strings.Join(cols, ", "), t.Rows)
	}

	fmt.Fprintf(w, "\nIndexes: %s\n", listOrNone(r.Indexes))
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

// Run inspects db and writes the report labelled with the DSN's host and
// database.
func Run(ctx context.Context, db *sqlx.DB, dsn string, out io.Writer) (*Report, error) {
	report, err := New(db).Inspect(ctx)
	if err != nil {
		return nil, err
	}
	report.Host, report.Database, _ = Target(dsn)
	report.Write(out)
	return report, nil
}
