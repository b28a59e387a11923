package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // postgres driver
	_ "modernc.org/sqlite"             // zero-config local driver

	"github.com/Law-sys/subcontractor-pre-qual/internal/common"
)

// Open connects to the configured database. Postgres runs through the pgx
// stdlib driver; the sqlite driver covers local single-binary deployments.
func Open(ctx context.Context, cfg common.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("connecting to database", "driver", cfg.Driver)

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		logger.Error("failed to open database", "driver", cfg.Driver, "error", err)
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx := ctx
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		logger.Error("failed to ping database", "error", err)
		return nil, fmt.Errorf("ping: %w", err)
	}

	logger.Info("successfully connected to database")
	return db, nil
}

// HealthCheck pings the database with a bounded timeout.
func HealthCheck(ctx context.Context, db *sql.DB, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return db.PingContext(ctx)
}

// Migrate creates the schema when missing. Types are kept to the common
// subset understood by both drivers; timestamps travel as RFC3339 text.
func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS submissions (
			id              TEXT PRIMARY KEY,
			contractor_name TEXT NOT NULL,
			form_data       TEXT,
			score           TEXT,
			created_at      TEXT NOT NULL,
			updated_at      TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS document_files (
			id            TEXT PRIMARY KEY,
			submission_id TEXT NOT NULL,
			document_type TEXT NOT NULL,
			source_path   TEXT NOT NULL,
			filename      TEXT NOT NULL,
			file_ext      TEXT NOT NULL,
			file_size     INTEGER NOT NULL,
			content_hash  TEXT NOT NULL,
			uploaded_at   TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS analysis_jobs (
			id            TEXT PRIMARY KEY,
			file_id       TEXT NOT NULL,
			submission_id TEXT NOT NULL,
			format        TEXT NOT NULL,
			status        TEXT NOT NULL,
			started_at    TEXT NOT NULL,
			finished_at   TEXT,
			error_message TEXT,
			confidence    REAL,
			result_json   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_document_files_submission ON document_files (submission_id)`,
		`CREATE INDEX IF NOT EXISTS idx_analysis_jobs_file ON analysis_jobs (file_id)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

const timeLayout = time.RFC3339Nano

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
