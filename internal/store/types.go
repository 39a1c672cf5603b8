package store

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("not found")
)

// Storage is a minimal counter store over a shared cache.
type Storage interface {
	GetInt(ctx context.Context, key string) (int64, error)
	Incr(ctx context.Context, key string, delta int64) (int64, error)
	Expire(ctx context.Context, key string, expiresIn time.Duration) error
	Delete(ctx context.Context, key string) error
}
