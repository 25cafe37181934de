// Package postgres implements the repository ports over PostgreSQL, used
// when DATABASE_URL points the service at a server instead of a local file.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"flowform/internal/domain"
)

// DB wraps a *sql.DB and implements domain.Store.
type DB struct {
	sql *sql.DB
}

var _ domain.Store = (*DB)(nil)

// Open connects to PostgreSQL, pings, creates the schema, and runs the
// migration. Failures are fatal at startup: a partially migrated schema must
// never serve traffic.
func Open(connStr string) (*DB, error) {
	s, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(10)
	s.SetMaxIdleConns(5)
	s.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	d := &DB{sql: s}
	if err := d.initialize(ctx); err != nil {
		_ = s.Close()
		return nil, err
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

// Ping checks that the database is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.sql.PingContext(ctx)
}

func (d *DB) initialize(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			title TEXT NOT NULL,
			category TEXT NOT NULL,
			intensity INTEGER NOT NULL,
			duration_minutes INTEGER NOT NULL,
			training_load INTEGER NOT NULL DEFAULT 0,
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			completed_at TIMESTAMPTZ
		);`,
		`CREATE TABLE IF NOT EXISTS metrics (
			id BIGSERIAL PRIMARY KEY,
			session_id BIGINT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			heart_rate_avg INTEGER,
			calories INTEGER,
			perceived_exertion INTEGER
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_completed_at ON sessions(completed_at);`,
		`CREATE INDEX IF NOT EXISTS idx_metrics_session_id ON metrics(session_id);`,
	}

	for _, stmt := range stmts {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("initialize: %w", err)
		}
	}
	return nil
}

// Migrate adds the derived training_load column to databases that predate it,
// then backfills rows where it is null or zero with the same formula used at
// creation time. Idempotent: the backfill is a pure recompute.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.sql.ExecContext(ctx,
		"ALTER TABLE sessions ADD COLUMN IF NOT EXISTS training_load INTEGER NOT NULL DEFAULT 0;"); err != nil {
		return fmt.Errorf("migrate: add training_load: %w", err)
	}

	if _, err := d.sql.ExecContext(ctx,
		"UPDATE sessions SET training_load = duration_minutes * intensity WHERE training_load IS NULL OR training_load = 0;"); err != nil {
		return fmt.Errorf("migrate: backfill training_load: %w", err)
	}
	return nil
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

	err = d.sql.QueryRowContext(ctx,
		"INSERT INTO users(name, created_at) VALUES($1, $2) RETURNING id;",
		domain.DefaultUserName, time.Now().UTC()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ensure default user: %w", err)
	}
	return id, nil
}
