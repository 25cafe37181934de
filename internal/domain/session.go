// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"time"
)

// Session represents one workout record. A session is created "open"
// (CompletedAt nil) and is completed at most once; completion is a one-way
// transition.
type Session struct {
	ID              int64      `json:"id"`
	UserID          int64      `json:"user_id"`
	Title           string     `json:"title"`
	Category        string     `json:"category"`
	Intensity       int        `json:"intensity"`
	DurationMinutes int        `json:"duration_minutes"`
	TrainingLoad    int        `json:"training_load"`
	Notes           string     `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	CompletedAt     *time.Time `json:"completed_at"`
}

// Completed reports whether the session has been completed.
func (s *Session) Completed() bool {
	return s.CompletedAt != nil
}

// SessionRepository is the port for session persistence.
type SessionRepository interface {
	// CreateSession persists an open session and returns its generated id.
	CreateSession(ctx context.Context, s *Session) (int64, error)
	// GetSession returns the session or ErrSessionNotFound.
	GetSession(ctx context.Context, userID, id int64) (*Session, error)
	// ListRecentSessions returns sessions newest first, up to limit
	// (limit <= 0 means no limit).
	ListRecentSessions(ctx context.Context, userID int64, limit int) ([]Session, error)
	// CompleteSession sets completed_at only when it is currently null and
	// reports whether the row transitioned.
	CompleteSession(ctx context.Context, userID, id int64, completedAt time.Time) (bool, error)
	// CountSessions counts all sessions regardless of completion state.
	CountSessions(ctx context.Context, userID int64) (int, error)
	// SumCompletedSince sums duration_minutes and training_load over sessions
	// completed at or after since.
	SumCompletedSince(ctx context.Context, userID int64, since time.Time) (minutes, load int, err error)
	// CompletionDays returns the distinct UTC calendar days ("2006-01-02")
	// carrying at least one completion.
	CompletionDays(ctx context.Context, userID int64) ([]string, error)
}
