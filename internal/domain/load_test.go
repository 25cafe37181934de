package domain_test

import (
	"testing"

	"flowform/internal/domain"
)

func TestTrainingLoad(t *testing.T) {
	tests := []struct {
		name      string
		duration  int
		intensity int
		want      int
	}{
		{"thirty minute run at five", 30, 5, 150},
		{"minimum intensity", 45, 1, 45},
		{"maximum intensity", 60, 10, 600},
		{"one minute", 1, 7, 7},
		{"long low session", 120, 2, 240},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.TrainingLoad(tc.duration, tc.intensity)
			if got != tc.want {
				t.Errorf("TrainingLoad(%d, %d) = %d; want %d",
					tc.duration, tc.intensity, got, tc.want)
			}
		})
	}
}
