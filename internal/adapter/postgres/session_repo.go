package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"flowform/internal/domain"
)

// CreateSession inserts an open session and returns its generated id.
func (d *DB) CreateSession(ctx context.Context, s *domain.Session) (int64, error) {
	var id int64
	err := d.sql.QueryRowContext(ctx,
		`INSERT INTO sessions(user_id, title, category, intensity, duration_minutes, training_load, notes, created_at, completed_at)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8, NULL) RETURNING id;`,
		s.UserID, s.Title, s.Category, s.Intensity, s.DurationMinutes,
		s.TrainingLoad, s.Notes, s.CreatedAt.UTC()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create session: %w", err)
	}
	return id, nil
}

// GetSession returns the session or domain.ErrSessionNotFound.
func (d *DB) GetSession(ctx context.Context, userID, id int64) (*domain.Session, error) {
	row := d.sql.QueryRowContext(ctx,
		`SELECT id, user_id, title, category, intensity, duration_minutes, training_load, notes, created_at, completed_at
		 FROM sessions WHERE id = $1 AND user_id = $2;`, id, userID)

	s, err := scanSession(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return s, nil
}

// ListRecentSessions returns sessions newest first, up to limit
// (limit <= 0 means no limit).
func (d *DB) ListRecentSessions(ctx context.Context, userID int64, limit int) ([]domain.Session, error) {
	query := `SELECT id, user_id, title, category, intensity, duration_minutes, training_load, notes, created_at, completed_at
		 FROM sessions WHERE user_id = $1 ORDER BY id DESC`
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := d.sql.QueryContext(ctx, query+";", args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	out := []domain.Session{}
	for rows.Next() {
		s, err := scanSession(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list sessions: %w", err)
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// CompleteSession sets completed_at only when it is currently null and
// reports whether the row transitioned.
func (d *DB) CompleteSession(ctx context.Context, userID, id int64, completedAt time.Time) (bool, error) {
	res, err := d.sql.ExecContext(ctx,
		"UPDATE sessions SET completed_at = $1 WHERE id = $2 AND user_id = $3 AND completed_at IS NULL;",
		completedAt.UTC(), id, userID)
	if err != nil {
		return false, fmt.Errorf("complete session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("complete session: %w", err)
	}
	return affected > 0, nil
}

// CountSessions counts all sessions for the user.
func (d *DB) CountSessions(ctx context.Context, userID int64) (int, error) {
	var n int
	err := d.sql.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sessions WHERE user_id = $1;", userID).Scan(&n)
	return n, err
}

// SumCompletedSince sums duration_minutes and training_load over sessions
// completed at or after since.
func (d *DB) SumCompletedSince(ctx context.Context, userID int64, since time.Time) (int, int, error) {
	var minutes, load int
	err := d.sql.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(duration_minutes), 0), COALESCE(SUM(training_load), 0)
		 FROM sessions WHERE user_id = $1 AND completed_at IS NOT NULL AND completed_at >= $2;`,
		userID, since.UTC()).Scan(&minutes, &load)
	return minutes, load, err
}

// CompletionDays returns the distinct UTC days carrying a completion.
func (d *DB) CompletionDays(ctx context.Context, userID int64) ([]string, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT DISTINCT to_char(completed_at AT TIME ZONE 'UTC', 'YYYY-MM-DD')
		 FROM sessions WHERE user_id = $1 AND completed_at IS NOT NULL ORDER BY 1;`, userID)
	if err != nil {
		return nil, fmt.Errorf("completion days: %w", err)
	}
	defer rows.Close()

	var days []string
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("completion days: %w", err)
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

// scanSession adapts both *sql.Row and *sql.Rows scanning.
func scanSession(scan func(dest ...any) error) (*domain.Session, error) {
	var (
		s           domain.Session
		createdAt   time.Time
		completedAt sql.NullTime
	)
	err := scan(&s.ID, &s.UserID, &s.Title, &s.Category, &s.Intensity,
		&s.DurationMinutes, &s.TrainingLoad, &s.Notes, &createdAt, &completedAt)
	if err != nil {
		return nil, err
	}

	s.CreatedAt = createdAt.UTC()
	if completedAt.Valid {
		t := completedAt.Time.UTC()
		s.CompletedAt = &t
	}
	return &s, nil
}
