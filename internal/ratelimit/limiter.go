package ratelimit

import "context"

// Stats summarizes limiter state for the /stats surface.
type Stats struct {
	ActiveUsers        int     `json:"active_users"`
	TotalRequests      int     `json:"total_requests"`
	MaxRequestsPerUser int     `json:"max_requests_per_user"`
	TimeWindowHours    float64 `json:"time_window_hours"`
}

// Limiter decides whether a user may start another download.
//
// IsAllowed admits or denies a request. When denied, the second return value
// is the wait in whole minutes until the oldest blocking request leaves the
// window, floored at 1 so a blocked user is never shown "0 minutes".
type Limiter interface {
	IsAllowed(ctx context.Context, userID int64) (bool, int, error)

	// RemainingRequests reports how many requests the user has left in the
	// current window without consuming one.
	RemainingRequests(ctx context.Context, userID int64) (int, error)

	// ResetTime reports minutes until the user's limit resets, 0 when the
	// user is not currently blocked.
	ResetTime(ctx context.Context, userID int64) (int, error)

	Stats(ctx context.Context) (Stats, error)

	// CleanupOldEntries prunes every user's history and drops users with no
	// requests left in the window. Intended for a periodic housekeeping
	// ticker; admission decisions never depend on it.
	CleanupOldEntries(ctx context.Context) error

	// ResetUser clears a user's history entirely.
	ResetUser(ctx context.Context, userID int64) error
}
