package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter counts failed login attempts per email in Redis so the
// window is shared across server instances. A nil client disables limiting.
type LoginLimiter struct {
	rdb    *redis.Client
	max    int
	window time.Duration
}

// NewLoginLimiter constructs a limiter allowing max failures per window.
func NewLoginLimiter(rdb *redis.Client, max int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{rdb: rdb, max: max, window: window}
}

func (l *LoginLimiter) key(email string) string {
	return "login_attempts:" + strings.ToLower(strings.TrimSpace(email))
}

// Allow reports whether another login attempt is permitted for the email.
func (l *LoginLimiter) Allow(ctx context.Context, email string) (bool, error) {
	if l == nil || l.rdb == nil {
		return true, nil
	}
	count, err := l.rdb.Get(ctx, l.key(email)).Int()
	if err != nil {
		if err == redis.Nil {
			return true, nil
		}
		return false, fmt.Errorf("auth: login limiter: %w", err)
	}
	return count < l.max, nil
}

// RecordFailure increments the failure counter, starting the window on the
// first failure.
func (l *LoginLimiter) RecordFailure(ctx context.Context, email string) error {
	if l == nil || l.rdb == nil {
		return nil
	}
	key := l.key(email)
	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("auth: login limiter: %w", err)
	}
	if count == 1 {
		if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("auth: login limiter: %w", err)
		}
	}
	return nil
}

// Reset clears the counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, email string) error {
	if l == nil || l.rdb == nil {
		return nil
	}
	if err := l.rdb.Del(ctx, l.key(email)).Err(); err != nil {
		return fmt.Errorf("auth: login limiter: %w", err)
	}
	return nil
}
