// Package sqlite implements the repository ports over a local SQLite file
// using modernc.org/sqlite (pure Go, no CGO required).
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"flowform/internal/domain"
)

// timeLayout is how timestamps are persisted: ISO-8601 in UTC with no offset
// suffix. The fixed width keeps string comparison consistent with time order.
const timeLayout = "2006-01-02T15:04:05"

// DB wraps the SQLite connection and implements domain.Store.
type DB struct {
	sql *sql.DB
}

var _ domain.Store = (*DB)(nil)

// Open opens or creates the database at path, configures pragmas, creates the
// schema, and runs the migration. Any failure here must be treated as fatal
// by the caller: serving with a partially migrated schema would silently
// break the training-load invariant.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	s, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	d := &DB{sql: s}
	ctx := context.Background()

	if err := d.configurePragmas(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("configure pragmas: %w", err)
	}
	if err := d.initialize(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	if err := d.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

// Ping checks that the database file is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.sql.PingContext(ctx)
}

func (d *DB) configurePragmas(ctx context.Context) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := d.sql.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	return nil
}

// initialize creates the tables if absent. Safe to run on every start.
func (d *DB) initialize(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		category TEXT NOT NULL,
		intensity INTEGER NOT NULL,
		duration_minutes INTEGER NOT NULL,
		training_load INTEGER NOT NULL DEFAULT 0,
		notes TEXT DEFAULT '',
		created_at TEXT NOT NULL,
		completed_at TEXT,
		FOREIGN KEY (user_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS metrics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id INTEGER NOT NULL,
		heart_rate_avg INTEGER,
		calories INTEGER,
		perceived_exertion INTEGER,
		FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id);
	CREATE INDEX IF NOT EXISTS idx_sessions_completed_at ON sessions(completed_at);
	CREATE INDEX IF NOT EXISTS idx_metrics_session_id ON metrics(session_id);
	`

	_, err := d.sql.ExecContext(ctx, schema)
	return err
}

// Migrate brings a database created before the training_load column existed
// up to the current schema, then backfills the derived value for rows where
// it is null or zero. Running it twice produces the same final state: the
// backfill recomputes from persisted fields rather than incrementing.
func (d *DB) Migrate(ctx context.Context) error {
	has, err := d.hasColumn(ctx, "sessions", "training_load")
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if !has {
		if _, err := d.sql.ExecContext(ctx,
			"ALTER TABLE sessions ADD COLUMN training_load INTEGER NOT NULL DEFAULT 0;"); err != nil {
			return fmt.Errorf("migrate: add training_load: %w", err)
		}
	}

	if _, err := d.sql.ExecContext(ctx,
		"UPDATE sessions SET training_load = duration_minutes * intensity WHERE training_load IS NULL OR training_load = 0;"); err != nil {
		return fmt.Errorf("migrate: backfill training_load: %w", err)
	}
	return nil
}

func (d *DB) hasColumn(ctx context.Context, table, column string) (bool, error) {
	rows, err := d.sql.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s);", table))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid, notNull, pk int
			name, colType    string
			dflt             sql.NullString
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

// EnsureDefaultUser returns the first user id, inserting the default user
// when the table is empty.
func (d *DB) EnsureDefaultUser(ctx context.Context) (int64, error) {
	var id int64
	err := d.sql.QueryRowContext(ctx, "SELECT id FROM users ORDER BY id ASC LIMIT 1;").Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("ensure default user: %w", err)
	}

	res, err := d.sql.ExecContext(ctx,
		"INSERT INTO users(name, created_at) VALUES(?, ?);",
		domain.DefaultUserName, time.Now().UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("ensure default user: %w", err)
	}
	return res.LastInsertId()
}
