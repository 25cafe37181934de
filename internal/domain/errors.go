package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound indicates an operation referenced a nonexistent session.
var ErrSessionNotFound = errors.New("session not found")

// ValidationError reports rejected session-creation input. It is surfaced to
// the caller as a structured rejection and is never fatal.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
