package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxAttempts = 5
	defaultWindow      = 15 * time.Minute
)

// LoginLimiter counts failed logins per account in a fixed window.
// Key format: login:fail:<email>
type LoginLimiter struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewLoginLimiter creates a LoginLimiter wrapping the given Redis client.
// Non-positive limits fall back to 5 attempts per 15 minutes.
func NewLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &LoginLimiter{client: client, maxAttempts: maxAttempts, window: window}
}

// Blocked reports whether key reached the failure limit in the current window.
// A counter found without a TTL gets the window applied, so a lost EXPIRE
// cannot lock an account out for good.
func (l *LoginLimiter) Blocked(ctx context.Context, key string) (bool, error) {
	k := l.key(key)
	var get *redis.StringCmd
	var ttl *redis.DurationCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		get = pipe.Get(ctx, k)
		ttl = pipe.TTL(ctx, k)
		return nil
	})
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("login limiter check: %w", err)
	}

	n, err := get.Int()
	if err != nil {
		return false, fmt.Errorf("login limiter check: %w", err)
	}
	if err := l.ensureWindow(ctx, k, ttl.Val()); err != nil {
		return false, err
	}
	return n >= l.maxAttempts, nil
}

// RecordFailure increments the failure counter. The window starts at the
// first failure and is not extended by later ones.
func (l *LoginLimiter) RecordFailure(ctx context.Context, key string) error {
	k := l.key(key)
	var ttl *redis.DurationCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, k)
		ttl = pipe.TTL(ctx, k)
		return nil
	})
	if err != nil {
		return fmt.Errorf("login limiter incr: %w", err)
	}
	return l.ensureWindow(ctx, k, ttl.Val())
}

// ensureWindow sets the window on a counter that has no expiry yet. TTL
// reports -1 for a key without one. The write does not follow the request's
// cancellation.
func (l *LoginLimiter) ensureWindow(ctx context.Context, k string, ttl time.Duration) error {
	if ttl != -1 {
		return nil
	}
	if err := l.client.Expire(context.WithoutCancel(ctx), k, l.window).Err(); err != nil {
		return fmt.Errorf("login limiter expire: %w", err)
	}
	return nil
}

// Reset clears the failure counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, l.key(key)).Err(); err != nil {
		return fmt.Errorf("login limiter reset: %w", err)
	}
	return nil
}

func (l *LoginLimiter) key(email string) string {
	return "login:fail:" + email
}
