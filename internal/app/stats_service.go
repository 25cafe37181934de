package app

import (
	"context"
	"time"

	"flowform/internal/domain"
)

// weeklyWindow is the trailing interval used by the weekly aggregates. It is
// a fixed 168-hour window anchored at query time, not a calendar week.
const weeklyWindow = 7 * 24 * time.Hour

const dayLayout = "2006-01-02"

// Snapshot is the read-only dashboard view assembled from the aggregate
// queries within one read episode.
type Snapshot struct {
	TotalSessions  int              `json:"total_sessions"`
	WeeklyMinutes  int              `json:"weekly_minutes"`
	WeeklyLoad     int              `json:"weekly_load"`
	Streak         int              `json:"streak"`
	RecentSessions []domain.Session `json:"recent_sessions"`
}

// StatsService answers read-only analytics queries over the session store.
// The clock is injected so the trailing window and the streak walk are
// deterministic under test.
type StatsService struct {
	sessions domain.SessionRepository
	now      func() time.Time
}

// NewStatsService creates a StatsService backed by the given repository.
// A nil clock defaults to time.Now.
func NewStatsService(sessions domain.SessionRepository, now func() time.Time) *StatsService {
	if now == nil {
		now = time.Now
	}
	return &StatsService{sessions: sessions, now: now}
}

// TotalSessions counts all sessions regardless of completion state.
func (s *StatsService) TotalSessions(ctx context.Context, userID int64) (int, error) {
	return s.sessions.CountSessions(ctx, userID)
}

// WeeklyMinutes sums duration_minutes over sessions completed within the
// trailing 7-day window, inclusive at the lower edge.
func (s *StatsService) WeeklyMinutes(ctx context.Context, userID int64) (int, error) {
	minutes, _, err := s.sessions.SumCompletedSince(ctx, userID, s.now().UTC().Add(-weeklyWindow))
	return minutes, err
}

// WeeklyLoad sums training_load over the same window as WeeklyMinutes.
func (s *StatsService) WeeklyLoad(ctx context.Context, userID int64) (int, error) {
	_, load, err := s.sessions.SumCompletedSince(ctx, userID, s.now().UTC().Add(-weeklyWindow))
	return load, err
}

// CurrentStreak counts consecutive UTC calendar days with at least one
// completed session, walking backward from today. A user who has not logged
// yet today but logged yesterday still shows a live streak: when today is
// empty the cursor starts at yesterday instead.
func (s *StatsService) CurrentStreak(ctx context.Context, userID int64) (int, error) {
	days, err := s.sessions.CompletionDays(ctx, userID)
	if err != nil {
		return 0, err
	}
	if len(days) == 0 {
		return 0, nil
	}

	have := make(map[string]struct{}, len(days))
	for _, d := range days {
		have[d] = struct{}{}
	}

	cursor := s.now().UTC().Truncate(24 * time.Hour)
	if _, ok := have[cursor.Format(dayLayout)]; !ok {
		cursor = cursor.AddDate(0, 0, -1)
	}

	streak := 0
	for {
		if _, ok := have[cursor.Format(dayLayout)]; !ok {
			break
		}
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak, nil
}

// Snapshot assembles the dashboard view: totals, weekly aggregates, streak,
// and the most recent sessions (newest first, up to recentLimit).
func (s *StatsService) Snapshot(ctx context.Context, userID int64, recentLimit int) (*Snapshot, error) {
	total, err := s.sessions.CountSessions(ctx, userID)
	if err != nil {
		return nil, err
	}

	minutes, load, err := s.sessions.SumCompletedSince(ctx, userID, s.now().UTC().Add(-weeklyWindow))
	if err != nil {
		return nil, err
	}

	streak, err := s.CurrentStreak(ctx, userID)
	if err != nil {
		return nil, err
	}

	recent, err := s.sessions.ListRecentSessions(ctx, userID, recentLimit)
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []domain.Session{}
	}

	return &Snapshot{
		TotalSessions:  total,
		WeeklyMinutes:  minutes,
		WeeklyLoad:     load,
		Streak:         streak,
		RecentSessions: recent,
	}, nil
}
