package app_test

import (
	"context"
	"testing"
	"time"

	"flowform/internal/app"
	"flowform/internal/domain"
)

func TestCurrentStreak(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		days []string
		want int
	}{
		{"three consecutive days ending today", []string{"2026-03-10", "2026-03-09", "2026-03-08"}, 3},
		{"gap before the run", []string{"2026-03-10", "2026-03-09", "2026-03-07"}, 2},
		{"nothing today, streak alive from yesterday", []string{"2026-03-09"}, 1},
		{"nothing today, two days ending yesterday", []string{"2026-03-09", "2026-03-08"}, 2},
		{"only today", []string{"2026-03-10"}, 1},
		{"neither today nor yesterday", []string{"2026-03-08"}, 0},
		{"no completions at all", nil, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockSessionRepo{
				daysFn: func(_ context.Context, _ int64) ([]string, error) {
					return tc.days, nil
				},
			}
			svc := app.NewStatsService(repo, fixedClock(now))

			got, err := svc.CurrentStreak(context.Background(), 1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("CurrentStreak() = %d; want %d", got, tc.want)
			}
		})
	}
}

func TestWeeklyWindowCutoff(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	wantSince := now.Add(-7 * 24 * time.Hour)

	repo := &mockSessionRepo{
		sumFn: func(_ context.Context, _ int64, since time.Time) (int, int, error) {
			if !since.Equal(wantSince) {
				t.Errorf("expected window lower edge %v, got %v", wantSince, since)
			}
			return 90, 450, nil
		},
	}
	svc := app.NewStatsService(repo, fixedClock(now))

	minutes, err := svc.WeeklyMinutes(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if minutes != 90 {
		t.Errorf("WeeklyMinutes() = %d; want 90", minutes)
	}

	load, err := svc.WeeklyLoad(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if load != 450 {
		t.Errorf("WeeklyLoad() = %d; want 450", load)
	}
}

func TestSnapshot(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	completed := now.Add(-2 * time.Hour)

	repo := &mockSessionRepo{
		countFn: func(_ context.Context, _ int64) (int, error) { return 4, nil },
		sumFn: func(_ context.Context, _ int64, _ time.Time) (int, int, error) {
			return 120, 600, nil
		},
		daysFn: func(_ context.Context, _ int64) ([]string, error) {
			return []string{"2026-03-10", "2026-03-09"}, nil
		},
		listFn: func(_ context.Context, _ int64, limit int) ([]domain.Session, error) {
			if limit != 5 {
				t.Errorf("expected recent limit 5, got %d", limit)
			}
			return []domain.Session{
				{ID: 4, Title: "Run", CompletedAt: &completed},
			}, nil
		},
	}
	svc := app.NewStatsService(repo, fixedClock(now))

	snap, err := svc.Snapshot(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snap.TotalSessions != 4 {
		t.Errorf("total_sessions = %d; want 4", snap.TotalSessions)
	}
	if snap.WeeklyMinutes != 120 || snap.WeeklyLoad != 600 {
		t.Errorf("weekly = (%d, %d); want (120, 600)", snap.WeeklyMinutes, snap.WeeklyLoad)
	}
	if snap.Streak != 2 {
		t.Errorf("streak = %d; want 2", snap.Streak)
	}
	if len(snap.RecentSessions) != 1 || snap.RecentSessions[0].ID != 4 {
		t.Errorf("unexpected recent sessions: %+v", snap.RecentSessions)
	}
}

func TestSnapshotEmptyRecentIsNotNull(t *testing.T) {
	svc := app.NewStatsService(&mockSessionRepo{}, nil)

	snap, err := svc.Snapshot(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.RecentSessions == nil {
		t.Error("recent_sessions must encode as [] rather than null")
	}
}
