package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ratelimit:"

// RedisLimiter implements the sliding window on a Redis sorted set per user,
// scored by request time in milliseconds. Several bot processes can share
// one budget this way.
type RedisLimiter struct {
	client      *redis.Client
	maxRequests int
	window      time.Duration
	now         func() time.Time
}

var _ Limiter = (*RedisLimiter)(nil)

// NewRedisLimiter creates a Redis-backed limiter.
func NewRedisLimiter(client *redis.Client, maxRequests int, window time.Duration, now func() time.Time) *RedisLimiter {
	if now == nil {
		now = time.Now
	}
	return &RedisLimiter{
		client:      client,
		maxRequests: maxRequests,
		window:      window,
		now:         now,
	}
}

func userKey(userID int64) string {
	return redisKeyPrefix + strconv.FormatInt(userID, 10)
}

// pruneAndCount removes expired members and returns the remaining count.
func (l *RedisLimiter) pruneAndCount(ctx context.Context, key string, now time.Time) (int64, error) {
	minScore := strconv.FormatInt(now.Add(-l.window).UnixMilli(), 10)

	p := l.client.Pipeline()
	p.ZRemRangeByScore(ctx, key, "0", minScore)
	card := p.ZCard(ctx, key)
	if _, err := p.Exec(ctx); err != nil {
		return 0, fmt.Errorf("prune %s: %w", key, err)
	}
	return card.Val(), nil
}

func (l *RedisLimiter) resetMinutes(ctx context.Context, key string, now time.Time) (int, error) {
	oldest, err := l.client.ZRangeWithScores(ctx, key, 0, 0).Result()
	if err != nil {
		return 0, fmt.Errorf("oldest member of %s: %w", key, err)
	}
	if len(oldest) == 0 {
		return 0, nil
	}
	at := time.UnixMilli(int64(oldest[0].Score))
	secs := int(at.Add(l.window).Sub(now).Seconds())
	if m := secs / 60; m > 1 {
		return m, nil
	}
	return 1, nil
}

func (l *RedisLimiter) IsAllowed(ctx context.Context, userID int64) (bool, int, error) {
	key := userKey(userID)
	now := l.now()

	count, err := l.pruneAndCount(ctx, key, now)
	if err != nil {
		return false, 0, err
	}
	if count >= int64(l.maxRequests) {
		reset, err := l.resetMinutes(ctx, key, now)
		if err != nil {
			return false, 0, err
		}
		return false, reset, nil
	}

	p := l.client.Pipeline()
	p.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixMilli()),
		Member: uuid.NewString(),
	})
	// expires on its own once the user goes quiet
	p.Expire(ctx, key, l.window)
	if _, err := p.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("record request for %s: %w", key, err)
	}
	return true, 0, nil
}

func (l *RedisLimiter) RemainingRequests(ctx context.Context, userID int64) (int, error) {
	count, err := l.pruneAndCount(ctx, userKey(userID), l.now())
	if err != nil {
		return 0, err
	}
	if remaining := l.maxRequests - int(count); remaining > 0 {
		return remaining, nil
	}
	return 0, nil
}

func (l *RedisLimiter) ResetTime(ctx context.Context, userID int64) (int, error) {
	key := userKey(userID)
	now := l.now()

	count, err := l.pruneAndCount(ctx, key, now)
	if err != nil {
		return 0, err
	}
	if count < int64(l.maxRequests) {
		return 0, nil
	}
	return l.resetMinutes(ctx, key, now)
}

func (l *RedisLimiter) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{
		MaxRequestsPerUser: l.maxRequests,
		TimeWindowHours:    l.window.Hours(),
	}
	now := l.now()

	iter := l.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		count, err := l.pruneAndCount(ctx, iter.Val(), now)
		if err != nil {
			return Stats{}, err
		}
		if count > 0 {
			stats.ActiveUsers++
			stats.TotalRequests += int(count)
		}
	}
	if err := iter.Err(); err != nil {
		return Stats{}, fmt.Errorf("scan limiter keys: %w", err)
	}
	return stats, nil
}

func (l *RedisLimiter) CleanupOldEntries(ctx context.Context) error {
	now := l.now()

	iter := l.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		count, err := l.pruneAndCount(ctx, key, now)
		if err != nil {
			return err
		}
		if count == 0 {
			if err := l.client.Del(ctx, key).Err(); err != nil {
				return fmt.Errorf("delete empty key %s: %w", key, err)
			}
		}
	}
	return iter.Err()
}

func (l *RedisLimiter) ResetUser(ctx context.Context, userID int64) error {
	if err := l.client.Del(ctx, userKey(userID)).Err(); err != nil {
		return fmt.Errorf("reset user %d: %w", userID, err)
	}
	return nil
}
