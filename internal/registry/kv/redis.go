package kv

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore maps Store directly onto Redis commands.
type RedisStore struct {
	client redis.UniversalClient
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore connects using a redis:// or rediss:// URL and pings the server.
func NewRedisStore(ctx context.Context, rawURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// redisErr translates go-redis errors into the package sentinels.
func redisErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, redis.Nil):
		return ErrNotFound
	case strings.HasPrefix(err.Error(), "WRONGTYPE"):
		return ErrWrongType
	case strings.Contains(err.Error(), "not an integer"):
		return ErrNotInteger
	}
	return err
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, key).Result()
	return v, redisErr(err)
}

func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return redisErr(s.client.Set(ctx, key, value, ttl).Err())
}

func (s *RedisStore) Del(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	n, err := s.client.Del(ctx, keys...).Result()
	return n, redisErr(err)
}

func (s *RedisStore) HSet(ctx context.Context, key, field, value string) error {
	return redisErr(s.client.HSet(ctx, key, field, value).Err())
}

func (s *RedisStore) HGet(ctx context.Context, key, field string) (string, error) {
	v, err := s.client.HGet(ctx, key, field).Result()
	return v, redisErr(err)
}

func (s *RedisStore) SAdd(ctx context.Context, key string, members ...string) error {
	return redisErr(s.client.SAdd(ctx, key, toAny(members)...).Err())
}

func (s *RedisStore) SRem(ctx context.Context, key string, members ...string) error {
	return redisErr(s.client.SRem(ctx, key, toAny(members)...).Err())
}

func (s *RedisStore) SMembers(ctx context.Context, key string) ([]string, error) {
	v, err := s.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, redisErr(err)
	}
	slices.Sort(v)
	return v, nil
}

func (s *RedisStore) LPush(ctx context.Context, key string, values ...string) error {
	return redisErr(s.client.LPush(ctx, key, toAny(values)...).Err())
}

func (s *RedisStore) LTrim(ctx context.Context, key string, start, stop int64) error {
	return redisErr(s.client.LTrim(ctx, key, start, stop).Err())
}

func (s *RedisStore) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	v, err := s.client.LRange(ctx, key, start, stop).Result()
	return v, redisErr(err)
}

func (s *RedisStore) LRem(ctx context.Context, key string, count int64, value string) (int64, error) {
	n, err := s.client.LRem(ctx, key, count, value).Result()
	return n, redisErr(err)
}

func (s *RedisStore) Incr(ctx context.Context, key string) (int64, error) {
	n, err := s.client.Incr(ctx, key).Result()
	return n, redisErr(err)
}

func (s *RedisStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	ok, err := s.client.Expire(ctx, key, ttl).Result()
	if err != nil {
		return redisErr(err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	d, err := s.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, redisErr(err)
	}
	// go-redis reports the raw -2 (missing) and -1 (no expiry) replies as nanoseconds.
	switch d {
	case -2:
		return 0, ErrNotFound
	case -1:
		return NoExpiry, nil
	}
	return d, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
