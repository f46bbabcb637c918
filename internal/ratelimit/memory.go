package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// MemoryLimiter is an in-process sliding-window limiter. Each user maps to
// an ordered slice of admitted request times; pruning happens lazily on
// every call, never on a timer.
type MemoryLimiter struct {
	mu          sync.Mutex
	requests    map[int64][]time.Time
	maxRequests int
	window      time.Duration
	now         func() time.Time
}

var _ Limiter = (*MemoryLimiter)(nil)

// NewMemoryLimiter creates a limiter admitting maxRequests per window.
func NewMemoryLimiter(maxRequests int, window time.Duration) *MemoryLimiter {
	return NewMemoryLimiterWithClock(maxRequests, window, time.Now)
}

// NewMemoryLimiterWithClock injects the clock; used by tests.
func NewMemoryLimiterWithClock(maxRequests int, window time.Duration, now func() time.Time) *MemoryLimiter {
	logrus.WithFields(logrus.Fields{
		"max_requests": maxRequests,
		"window":       window,
	}).Info("rate limiter initialized")
	return &MemoryLimiter{
		requests:    make(map[int64][]time.Time),
		maxRequests: maxRequests,
		window:      window,
		now:         now,
	}
}

// prune drops timestamps that have left the window. Caller holds the lock.
func (l *MemoryLimiter) prune(userID int64, now time.Time) []time.Time {
	kept := l.requests[userID][:0]
	for _, ts := range l.requests[userID] {
		if now.Sub(ts) < l.window {
			kept = append(kept, ts)
		}
	}
	l.requests[userID] = kept
	return kept
}

// resetMinutes converts the wait until the oldest retained request expires
// into whole minutes, floored at 1. Caller guarantees recent is non-empty.
func (l *MemoryLimiter) resetMinutes(recent []time.Time, now time.Time) int {
	oldest := recent[0]
	for _, ts := range recent[1:] {
		if ts.Before(oldest) {
			oldest = ts
		}
	}
	secs := int(oldest.Add(l.window).Sub(now).Seconds())
	if m := secs / 60; m > 1 {
		return m
	}
	return 1
}

func (l *MemoryLimiter) IsAllowed(_ context.Context, userID int64) (bool, int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	recent := l.prune(userID, now)

	if len(recent) >= l.maxRequests {
		reset := l.resetMinutes(recent, now)
		logrus.WithFields(logrus.Fields{
			"user_id":       userID,
			"reset_minutes": reset,
		}).Warn("rate limit exceeded")
		return false, reset, nil
	}

	l.requests[userID] = append(recent, now)
	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"count":   len(l.requests[userID]),
		"max":     l.maxRequests,
	}).Debug("request admitted")
	return true, 0, nil
}

func (l *MemoryLimiter) RemainingRequests(_ context.Context, userID int64) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	recent := l.prune(userID, l.now())
	if remaining := l.maxRequests - len(recent); remaining > 0 {
		return remaining, nil
	}
	return 0, nil
}

func (l *MemoryLimiter) ResetTime(_ context.Context, userID int64) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	recent := l.prune(userID, now)
	if len(recent) < l.maxRequests {
		return 0, nil
	}
	return l.resetMinutes(recent, now), nil
}

func (l *MemoryLimiter) Stats(_ context.Context) (Stats, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	stats := Stats{
		MaxRequestsPerUser: l.maxRequests,
		TimeWindowHours:    l.window.Hours(),
	}
	for userID := range l.requests {
		recent := l.prune(userID, now)
		if len(recent) > 0 {
			stats.ActiveUsers++
			stats.TotalRequests += len(recent)
		}
	}
	return stats, nil
}

func (l *MemoryLimiter) CleanupOldEntries(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for userID := range l.requests {
		if len(l.prune(userID, now)) == 0 {
			delete(l.requests, userID)
			removed++
		}
	}
	if removed > 0 {
		logrus.WithField("removed", removed).Debug("pruned inactive users from rate limiter")
	}
	return nil
}

func (l *MemoryLimiter) ResetUser(_ context.Context, userID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.requests[userID]; ok {
		delete(l.requests, userID)
		logrus.WithField("user_id", userID).Info("rate limit reset")
	}
	return nil
}
