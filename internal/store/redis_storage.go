package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisStorage struct {
	rdb redis.UniversalClient
}

func (s *RedisStorage) Conn() redis.UniversalClient {
	return s.rdb
}

func (s *RedisStorage) GetInt(ctx context.Context, key string) (int64, error) {
	val, err := s.rdb.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, ErrNotFound
	}
	return val, err
}

func (s *RedisStorage) Incr(ctx context.Context, key string, delta int64) (int64, error) {
	return s.rdb.IncrBy(ctx, key, delta).Result()
}

func (s *RedisStorage) Expire(ctx context.Context, key string, expiresIn time.Duration) error {
	return s.rdb.Expire(ctx, key, expiresIn).Err()
}

func (s *RedisStorage) Delete(ctx context.Context, key string) error {
	deleted, err := s.rdb.Del(ctx, key).Result()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}

func NewRedisStorage(db redis.UniversalClient) *RedisStorage {
	return &RedisStorage{
		rdb: db,
	}
}
