package savednetworks

import (
	"context"
	"database/sql"
	"fmt"
)

type migration struct {
	Version int
	UpSQL   string
}

var migrations = []migration{
	{
		Version: 1,
		UpSQL: `
CREATE TABLE IF NOT EXISTS networks (
	network_id INTEGER PRIMARY KEY AUTOINCREMENT,
	ssid BLOB NOT NULL,
	security INTEGER NOT NULL CHECK(security BETWEEN 0 AND 4),
	credential_kind INTEGER NOT NULL DEFAULT 0,
	credential BLOB,
	has_ever_connected INTEGER NOT NULL DEFAULT 0,
	hidden_probability REAL NOT NULL DEFAULT 0.9,
	created_at TEXT NOT NULL,
	UNIQUE(ssid, security)
);

CREATE TABLE IF NOT EXISTS connect_failures (
	failure_id INTEGER PRIMARY KEY AUTOINCREMENT,
	network_id INTEGER NOT NULL,
	bssid TEXT NOT NULL,
	reason INTEGER NOT NULL,
	failed_at TEXT NOT NULL,
	FOREIGN KEY(network_id) REFERENCES networks(network_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS connect_failures_by_network
ON connect_failures(network_id, failed_at);
`,
	},
	{
		Version: 2,
		UpSQL: `
ALTER TABLE networks ADD COLUMN last_connected_at TEXT;
`,
	},
}

// ApplyMigrations brings the schema up to date. It is safe to call on every
// open.
func ApplyMigrations(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations(version INTEGER PRIMARY KEY, applied_at TEXT NOT NULL)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	for _, m := range migrations {
		var exists int
		err := db.QueryRowContext(ctx, `SELECT 1 FROM schema_migrations WHERE version = ?`, m.Version).Scan(&exists)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx for migration %d: %w", m.Version, err)
		}
		if _, err := tx.ExecContext(ctx, m.UpSQL); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("apply migration %d: %w", m.Version, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations(version, applied_at) VALUES (?, datetime('now'))`, m.Version); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}
	return nil
}
