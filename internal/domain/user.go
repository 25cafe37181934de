package domain

import (
	"context"
	"time"
)

// DefaultUserName is the name given to the lazily created local user.
const DefaultUserName = "Local FlowForm User"

// User is the identity a session belongs to. The service runs single-user:
// exactly one row exists after startup, created lazily if absent.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// UserRepository is the port for user persistence.
type UserRepository interface {
	// EnsureDefaultUser returns the id of the first user, inserting the
	// default user when none exists. Repeated calls never create a second row.
	EnsureDefaultUser(ctx context.Context) (int64, error)
}

// Store combines the repository ports a storage backend must implement,
// letting the entrypoint pick an engine at startup.
type Store interface {
	UserRepository
	SessionRepository
	MetricRepository

	Ping(ctx context.Context) error
	Close() error
}
