package domain

import "context"

// Metric is a physiological snapshot appended when a session is completed.
// Each value is independently optional: nil means "not reported", not zero.
// Metrics are append-only.
type Metric struct {
	ID                int64 `json:"id"`
	SessionID         int64 `json:"session_id"`
	HeartRateAvg      *int  `json:"heart_rate_avg"`
	Calories          *int  `json:"calories"`
	PerceivedExertion *int  `json:"perceived_exertion"`
}

// MetricRepository is the port for metric persistence.
type MetricRepository interface {
	AddMetric(ctx context.Context, m *Metric) (int64, error)
	ListSessionMetrics(ctx context.Context, sessionID int64) ([]Metric, error)
}
