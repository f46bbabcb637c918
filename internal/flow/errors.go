package flow

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionExpired means no session data exists for the interaction;
	// the user must restart with a fresh URL.
	ErrSessionExpired = errors.New("session expired")

	// ErrSessionInvalid means the interaction carried a token or content
	// type that does not match the live session. The session is untouched.
	ErrSessionInvalid = errors.New("session invalid")
)

// ValidationError rejects a malformed URL or missing argument.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// ExtractionError wraps a metadata or download failure from the media
// library, keeping the platform name for message specialization.
type ExtractionError struct {
	Platform string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed (%s): %v", e.Platform, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// RateLimitedError denies a download under the sliding-window budget.
type RateLimitedError struct {
	ResetMinutes int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, resets in %d minutes", e.ResetMinutes)
}
