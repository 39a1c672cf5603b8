package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pulseboard/pulseboard/internal/store"
)

// LoginLimiter throttles repeated failed logins per email+IP. The counters
// live in a shared cache; when the cache is unreachable the limiter fails
// open, trading strictness for availability.
type LoginLimiter struct {
	storage store.Storage
	max     int64
	window  time.Duration
}

func NewLoginLimiter(storage store.Storage, max int64, window time.Duration) *LoginLimiter {
	return &LoginLimiter{
		storage: storage,
		max:     max,
		window:  window,
	}
}

func Key(email string, ip string) string {
	return fmt.Sprintf("%s@%s", strings.ToLower(strings.TrimSpace(email)), ip)
}

func (l *LoginLimiter) Allow(ctx context.Context, key string) bool {
	count, err := l.storage.GetInt(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return true
	}
	if err != nil {
		slog.Warn("Login limiter unavailable, allowing attempt", "error", err)
		return true
	}
	return count < l.max
}

func (l *LoginLimiter) RecordFailure(ctx context.Context, key string) {
	count, err := l.storage.Incr(ctx, key, 1)
	if err != nil {
		slog.Warn("Failed to record login failure", "error", err)
		return
	}
	if count == 1 {
		if err := l.storage.Expire(ctx, key, l.window); err != nil {
			slog.Warn("Failed to set login counter expiry", "error", err)
		}
	}
}

func (l *LoginLimiter) Reset(ctx context.Context, key string) {
	if err := l.storage.Delete(ctx, key); err != nil && !errors.Is(err, store.ErrNotFound) {
		slog.Warn("Failed to reset login counter", "error", err)
	}
}
