package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pulseboard/pulseboard/internal/store"
)

type fakeStorage struct {
	counts  map[string]int64
	ttls    map[string]time.Duration
	failAll bool
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		counts: make(map[string]int64),
		ttls:   make(map[string]time.Duration),
	}
}

func (s *fakeStorage) GetInt(ctx context.Context, key string) (int64, error) {
	if s.failAll {
		return 0, errors.New("storage down")
	}
	count, ok := s.counts[key]
	if !ok {
		return 0, store.ErrNotFound
	}
	return count, nil
}

func (s *fakeStorage) Incr(ctx context.Context, key string, delta int64) (int64, error) {
	if s.failAll {
		return 0, errors.New("storage down")
	}
	s.counts[key] += delta
	return s.counts[key], nil
}

func (s *fakeStorage) Expire(ctx context.Context, key string, expiresIn time.Duration) error {
	if s.failAll {
		return errors.New("storage down")
	}
	s.ttls[key] = expiresIn
	return nil
}

func (s *fakeStorage) Delete(ctx context.Context, key string) error {
	if s.failAll {
		return errors.New("storage down")
	}
	if _, ok := s.counts[key]; !ok {
		return store.ErrNotFound
	}
	delete(s.counts, key)
	return nil
}

func TestLoginLimiter(t *testing.T) {
	storage := newFakeStorage()
	limiter := NewLoginLimiter(storage, 3, 15*time.Minute)
	ctx := context.Background()
	key := Key("Admin@Example.com", "10.0.0.1")

	if !limiter.Allow(ctx, key) {
		t.Fatal("Allow() = false before any failures")
	}
	for i := 0; i < 3; i++ {
		limiter.RecordFailure(ctx, key)
	}
	if limiter.Allow(ctx, key) {
		t.Error("Allow() = true after reaching the limit")
	}
	if storage.ttls[key] != 15*time.Minute {
		t.Errorf("counter ttl = %v, want 15m", storage.ttls[key])
	}

	limiter.Reset(ctx, key)
	if !limiter.Allow(ctx, key) {
		t.Error("Allow() = false after reset")
	}
}

func TestLoginLimiterKeyNormalization(t *testing.T) {
	if Key(" Admin@Example.COM ", "10.0.0.1") != Key("admin@example.com", "10.0.0.1") {
		t.Error("keys for differently-cased emails do not match")
	}
	if Key("admin@example.com", "10.0.0.1") == Key("admin@example.com", "10.0.0.2") {
		t.Error("keys for different IPs collide")
	}
}

// The limiter trades strictness for availability: with the counter store
// unreachable, logins proceed.
func TestLoginLimiterFailsOpen(t *testing.T) {
	storage := newFakeStorage()
	limiter := NewLoginLimiter(storage, 1, time.Minute)
	ctx := context.Background()
	key := Key("admin@example.com", "10.0.0.1")

	limiter.RecordFailure(ctx, key)
	storage.failAll = true

	if !limiter.Allow(ctx, key) {
		t.Error("Allow() = false while storage is down, want fail-open")
	}
	limiter.RecordFailure(ctx, key) // must not panic
	limiter.Reset(ctx, key)         // must not panic
}
