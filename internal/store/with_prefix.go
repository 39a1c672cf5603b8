package store

import (
	"context"
	"time"
)

type prefixedStorage struct {
	underlying Storage
	prefix     string
}

func (p *prefixedStorage) GetInt(ctx context.Context, key string) (int64, error) {
	return p.underlying.GetInt(ctx, p.prefix+key)
}

func (p *prefixedStorage) Incr(ctx context.Context, key string, delta int64) (int64, error) {
	return p.underlying.Incr(ctx, p.prefix+key, delta)
}

func (p *prefixedStorage) Expire(ctx context.Context, key string, expiresIn time.Duration) error {
	return p.underlying.Expire(ctx, p.prefix+key, expiresIn)
}

func (p *prefixedStorage) Delete(ctx context.Context, key string) error {
	return p.underlying.Delete(ctx, p.prefix+key)
}

func StorageWithPrefix(storage Storage, prefix string) Storage {
	return &prefixedStorage{
		underlying: storage,
		prefix:     prefix,
	}
}
