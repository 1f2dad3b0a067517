package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/budgetwise/statements/internal/common"
)

const schema = `
CREATE TABLE IF NOT EXISTS statements (
	id                TEXT PRIMARY KEY,
	original_filename TEXT NOT NULL,
	file_type         TEXT NOT NULL,
	file_size         INTEGER NOT NULL DEFAULT 0,
	mime_type         TEXT NOT NULL DEFAULT '',
	content           BLOB,
	uploaded_at       TIMESTAMP NOT NULL,
	processed         INTEGER NOT NULL DEFAULT 0,
	processing_status TEXT NOT NULL DEFAULT 'pending',
	transaction_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS transactions (
	id            TEXT PRIMARY KEY,
	tx_date       TIMESTAMP NOT NULL,
	description   TEXT NOT NULL,
	amount        TEXT NOT NULL,
	tx_type       TEXT NOT NULL,
	category      TEXT NOT NULL,
	merchant      TEXT NOT NULL DEFAULT '',
	source_file   TEXT,
	confidence    REAL NOT NULL DEFAULT 0,
	user_modified INTEGER NOT NULL DEFAULT 0,
	created_at    TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions (tx_date);
CREATE INDEX IF NOT EXISTS idx_transactions_category ON transactions (category);
CREATE INDEX IF NOT EXISTS idx_transactions_source ON transactions (source_file);
`

// Open connects to the sqlite database at path, verifies it, and applies the
// schema. Callers own closing the returned handle.
func Open(ctx context.Context, cfg common.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("connecting to database", "path", cfg.Path)

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return nil, err
	}

	pingCtx := ctx
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	if err := db.PingContext(pingCtx); err != nil {
		logger.Error("database ping failed", "error", err)
		_ = db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		logger.Error("schema migration failed", "error", err)
		_ = db.Close()
		return nil, err
	}

	logger.Info("database ready")
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
