package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxAttempts = 5
	defaultWindow      = 15 * time.Minute
)

// Throttle counts failed login attempts per email in Redis.
// Key format: loginfail:<email>, expiring after the window.
type Throttle struct {
	client *redis.Client
	max    int64
	window time.Duration
}

// NewThrottle creates a Throttle. Non-positive settings fall back to
// defaults (5 attempts per 15 minutes).
func NewThrottle(client *redis.Client, maxAttempts int64, window time.Duration) *Throttle {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &Throttle{client: client, max: maxAttempts, window: window}
}

// TooMany reports whether this email has exhausted its attempt budget.
func (t *Throttle) TooMany(ctx context.Context, email string) (bool, error) {
	n, err := t.client.Get(ctx, t.key(email)).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("throttle check: %w", err)
	}
	return n >= t.max, nil
}

// Fail records one failed attempt, starting the expiry window on the first.
func (t *Throttle) Fail(ctx context.Context, email string) error {
	key := t.key(email)
	n, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("throttle incr: %w", err)
	}
	if n == 1 {
		if err := t.client.Expire(ctx, key, t.window).Err(); err != nil {
			return fmt.Errorf("throttle expire: %w", err)
		}
	}
	return nil
}

// Reset clears the attempt counter after a successful login.
func (t *Throttle) Reset(ctx context.Context, email string) error {
	return t.client.Del(ctx, t.key(email)).Err()
}

func (t *Throttle) key(email string) string {
	return fmt.Sprintf("loginfail:%s", email)
}
