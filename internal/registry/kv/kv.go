// Package kv provides the key-value primitives the registry persists through.
//
// The operation set and semantics follow Redis: strings, hashes, sets and lists
// live under one keyspace, any key may carry a TTL, and emptying a set or list
// removes the key. Three backends are available: Redis, PostgreSQL and an
// in-process map.
package kv

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"
)

var (
	// ErrNotFound is returned when a key or hash field does not exist.
	ErrNotFound = errors.New("key not found")
	// ErrWrongType is returned when an operation targets a key holding a different kind of value.
	ErrWrongType = errors.New("operation against a key holding the wrong kind of value")
	// ErrNotInteger is returned by Incr when the stored value is not an integer.
	ErrNotInteger = errors.New("value is not an integer")
)

// NoExpiry is returned by TTL for keys that exist without an expiration.
const NoExpiry time.Duration = -1

// Store is the key-value contract used by the persistence gateway.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key. A ttl of zero stores it without expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Del removes keys and reports how many existed.
	Del(ctx context.Context, keys ...string) (int64, error)

	HSet(ctx context.Context, key, field, value string) error
	HGet(ctx context.Context, key, field string) (string, error)

	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	// SMembers returns the members sorted; a missing key yields an empty slice.
	SMembers(ctx context.Context, key string) ([]string, error)

	// LPush inserts values at the head, one after the other.
	LPush(ctx context.Context, key string, values ...string) error
	// LTrim keeps the inclusive range [start, stop]; negative indexes count from the tail.
	LTrim(ctx context.Context, key string, start, stop int64) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	// LRem removes occurrences of value: all when count is 0, from the head
	// when positive and from the tail when negative.
	LRem(ctx context.Context, key string, count int64, value string) (int64, error)

	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	// TTL returns the remaining lifetime, NoExpiry, or ErrNotFound.
	TTL(ctx context.Context, key string) (time.Duration, error)

	Ping(ctx context.Context) error
	Close() error
}

// Open connects to the store described by rawURL. Supported schemes are
// memory://, redis://, rediss://, postgres:// and postgresql://.
func Open(ctx context.Context, rawURL string) (Store, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse store URL: %w", err)
	}

	switch u.Scheme {
	case "memory", "":
		return NewMemoryStore(), nil
	case "redis", "rediss":
		return NewRedisStore(ctx, rawURL)
	case "postgres", "postgresql":
		return NewPostgresStore(ctx, rawURL)
	default:
		return nil, fmt.Errorf("unsupported store scheme %q", u.Scheme)
	}
}
