// Package app holds the application services and business logic.
package app

import (
	"context"
	"strings"
	"time"

	"flowform/internal/domain"
)

// SessionInput carries session-creation fields after boundary coercion.
type SessionInput struct {
	Title           string
	Category        string
	Intensity       int
	DurationMinutes int
	Notes           string
}

// MetricInput carries the optional physiological values supplied on
// completion. Nil means the value was not reported.
type MetricInput struct {
	HeartRateAvg      *int
	Calories          *int
	PerceivedExertion *int
}

// SessionService drives the session lifecycle: open sessions are created with
// a derived training load, and completed exactly once.
type SessionService struct {
	sessions domain.SessionRepository
	metrics  domain.MetricRepository
	now      func() time.Time
}

// NewSessionService creates a SessionService backed by the given
// repositories. A nil clock defaults to time.Now.
func NewSessionService(sessions domain.SessionRepository, metrics domain.MetricRepository, now func() time.Time) *SessionService {
	if now == nil {
		now = time.Now
	}
	return &SessionService{sessions: sessions, metrics: metrics, now: now}
}

// Create validates the input, derives the training load, and persists a new
// open session, returning it with its generated id.
func (s *SessionService) Create(ctx context.Context, userID int64, in SessionInput) (*domain.Session, error) {
	title := strings.TrimSpace(in.Title)
	category := strings.TrimSpace(in.Category)

	if title == "" {
		return nil, &domain.ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if category == "" {
		return nil, &domain.ValidationError{Field: "category", Reason: "must not be empty"}
	}
	if in.DurationMinutes <= 0 {
		return nil, &domain.ValidationError{Field: "duration_minutes", Reason: "must be greater than zero"}
	}
	if in.Intensity < 1 || in.Intensity > 10 {
		return nil, &domain.ValidationError{Field: "intensity", Reason: "must be between 1 and 10"}
	}

	sess := &domain.Session{
		UserID:          userID,
		Title:           title,
		Category:        category,
		Intensity:       in.Intensity,
		DurationMinutes: in.DurationMinutes,
		TrainingLoad:    domain.TrainingLoad(in.DurationMinutes, in.Intensity),
		Notes:           strings.TrimSpace(in.Notes),
		CreatedAt:       s.now().UTC(),
	}

	id, err := s.sessions.CreateSession(ctx, sess)
	if err != nil {
		return nil, err
	}
	sess.ID = id
	return sess, nil
}

// Complete marks the session completed and appends one metric snapshot.
// Completing an already-completed session leaves completed_at untouched but
// still records a fresh snapshot. Returns domain.ErrSessionNotFound when the
// id does not exist; no snapshot is appended in that case.
func (s *SessionService) Complete(ctx context.Context, userID, id int64, in MetricInput) (*domain.Session, error) {
	sess, err := s.sessions.GetSession(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	completedAt := s.now().UTC()
	updated, err := s.sessions.CompleteSession(ctx, userID, id, completedAt)
	if err != nil {
		return nil, err
	}
	if updated {
		sess.CompletedAt = &completedAt
	}

	m := &domain.Metric{
		SessionID:         id,
		HeartRateAvg:      in.HeartRateAvg,
		Calories:          in.Calories,
		PerceivedExertion: in.PerceivedExertion,
	}
	if _, err := s.metrics.AddMetric(ctx, m); err != nil {
		return nil, err
	}

	return sess, nil
}

// Get returns a single session or domain.ErrSessionNotFound.
func (s *SessionService) Get(ctx context.Context, userID, id int64) (*domain.Session, error) {
	return s.sessions.GetSession(ctx, userID, id)
}

// List returns sessions newest first, up to limit.
func (s *SessionService) List(ctx context.Context, userID int64, limit int) ([]domain.Session, error) {
	return s.sessions.ListRecentSessions(ctx, userID, limit)
}
