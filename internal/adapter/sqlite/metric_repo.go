package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"flowform/internal/domain"
)

// AddMetric appends a metric snapshot and returns its generated id. Nil
// values are stored as NULL: absence means "not reported", not zero.
func (d *DB) AddMetric(ctx context.Context, m *domain.Metric) (int64, error) {
	res, err := d.sql.ExecContext(ctx,
		`INSERT INTO metrics(session_id, heart_rate_avg, calories, perceived_exertion)
		 VALUES(?, ?, ?, ?);`,
		m.SessionID, m.HeartRateAvg, m.Calories, m.PerceivedExertion)
	if err != nil {
		return 0, fmt.Errorf("add metric: %w", err)
	}
	return res.LastInsertId()
}

// ListSessionMetrics returns the metric snapshots for a session, oldest first.
func (d *DB) ListSessionMetrics(ctx context.Context, sessionID int64) ([]domain.Metric, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT id, session_id, heart_rate_avg, calories, perceived_exertion
		 FROM metrics WHERE session_id = ? ORDER BY id ASC;`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list session metrics: %w", err)
	}
	defer rows.Close()

	var out []domain.Metric
	for rows.Next() {
		var (
			m       domain.Metric
			hr, cal sql.NullInt64
			rpe     sql.NullInt64
		)
		if err := rows.Scan(&m.ID, &m.SessionID, &hr, &cal, &rpe); err != nil {
			return nil, fmt.Errorf("list session metrics: %w", err)
		}
		m.HeartRateAvg = nullableInt(hr)
		m.Calories = nullableInt(cal)
		m.PerceivedExertion = nullableInt(rpe)
		out = append(out, m)
	}
	return out, rows.Err()
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
