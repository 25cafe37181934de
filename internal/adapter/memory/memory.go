// Package memory implements an in-memory store for development and testing.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"flowform/internal/domain"
)

// DB implements the repository ports over in-memory slices.
type DB struct {
	mu       sync.Mutex
	users    []domain.User
	sessions []domain.Session
	metrics  []domain.Metric

	userIDCounter    int64
	sessionIDCounter int64
	metricIDCounter  int64
}

// New creates a new in-memory store.
func New() *DB {
	return &DB{}
}

// Ensure interfaces are met.
var _ domain.Store = (*DB)(nil)

// Ping reports the store as always reachable.
func (db *DB) Ping(ctx context.Context) error { return nil }

// Close is a no-op.
func (db *DB) Close() error { return nil }

// --- UserRepository ---

// EnsureDefaultUser returns the first user id, creating the default user when
// none exists.
func (db *DB) EnsureDefaultUser(ctx context.Context) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if len(db.users) > 0 {
		return db.users[0].ID, nil
	}

	db.userIDCounter++
	u := domain.User{
		ID:        db.userIDCounter,
		Name:      domain.DefaultUserName,
		CreatedAt: time.Now().UTC(),
	}
	db.users = append(db.users, u)
	return u.ID, nil
}

// --- SessionRepository ---

// CreateSession persists a copy of the session and returns its generated id.
func (db *DB) CreateSession(ctx context.Context, s *domain.Session) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.sessionIDCounter++
	stored := *s
	stored.ID = db.sessionIDCounter
	db.sessions = append(db.sessions, stored)
	return stored.ID, nil
}

// GetSession returns a copy of the session or domain.ErrSessionNotFound.
func (db *DB) GetSession(ctx context.Context, userID, id int64) (*domain.Session, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.sessions {
		s := &db.sessions[i]
		if s.ID == id && s.UserID == userID {
			ret := *s
			return &ret, nil
		}
	}
	return nil, domain.ErrSessionNotFound
}

// ListRecentSessions returns sessions newest first, up to limit.
func (db *DB) ListRecentSessions(ctx context.Context, userID int64, limit int) ([]domain.Session, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := make([]domain.Session, 0, len(db.sessions))
	for i := range db.sessions {
		if db.sessions[i].UserID == userID {
			out = append(out, db.sessions[i])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// CompleteSession sets completed_at only when it is currently null.
func (db *DB) CompleteSession(ctx context.Context, userID, id int64, completedAt time.Time) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.sessions {
		s := &db.sessions[i]
		if s.ID == id && s.UserID == userID {
			if s.CompletedAt != nil {
				return false, nil
			}
			t := completedAt.UTC()
			s.CompletedAt = &t
			return true, nil
		}
	}
	return false, nil
}

// CountSessions counts all sessions for the user.
func (db *DB) CountSessions(ctx context.Context, userID int64) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	n := 0
	for i := range db.sessions {
		if db.sessions[i].UserID == userID {
			n++
		}
	}
	return n, nil
}

// SumCompletedSince sums duration_minutes and training_load over sessions
// completed at or after since.
func (db *DB) SumCompletedSince(ctx context.Context, userID int64, since time.Time) (int, int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	minutes, load := 0, 0
	for i := range db.sessions {
		s := &db.sessions[i]
		if s.UserID != userID || s.CompletedAt == nil {
			continue
		}
		if s.CompletedAt.Before(since) {
			continue
		}
		minutes += s.DurationMinutes
		load += s.TrainingLoad
	}
	return minutes, load, nil
}

// CompletionDays returns the distinct UTC days carrying a completion.
func (db *DB) CompletionDays(ctx context.Context, userID int64) ([]string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	seen := make(map[string]struct{})
	for i := range db.sessions {
		s := &db.sessions[i]
		if s.UserID != userID || s.CompletedAt == nil {
			continue
		}
		seen[s.CompletedAt.UTC().Format("2006-01-02")] = struct{}{}
	}

	days := make([]string, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Strings(days)
	return days, nil
}

// --- MetricRepository ---

// AddMetric appends a metric snapshot and returns its generated id.
func (db *DB) AddMetric(ctx context.Context, m *domain.Metric) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.metricIDCounter++
	stored := *m
	stored.ID = db.metricIDCounter
	db.metrics = append(db.metrics, stored)
	return stored.ID, nil
}

// ListSessionMetrics returns the metric snapshots for a session, oldest first.
func (db *DB) ListSessionMetrics(ctx context.Context, sessionID int64) ([]domain.Metric, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []domain.Metric
	for i := range db.metrics {
		if db.metrics[i].SessionID == sessionID {
			out = append(out, db.metrics[i])
		}
	}
	return out, nil
}
