package kv

import (
	"context"
	"slices"
	"strconv"
	"time"
)

type kind string

const (
	kindString kind = "string"
	kindHash   kind = "hash"
	kindSet    kind = "set"
	kindList   kind = "list"
)

// entry is one stored value. Only the field matching Kind is populated.
type entry struct {
	Kind kind              `json:"kind"`
	Str  string            `json:"str,omitempty"`
	Hash map[string]string `json:"hash,omitempty"`
	Set  map[string]bool   `json:"set,omitempty"`
	List []string          `json:"list,omitempty"`

	ExpiresAt time.Time `json:"-"`
}

func (e *entry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && !now.Before(e.ExpiresAt)
}

// backend is the storage seam shared by the map and PostgreSQL stores. Both
// hand fn a nil entry for missing or expired keys. update persists whatever
// fn returns; a nil result deletes the key.
type backend interface {
	read(ctx context.Context, key string, fn func(*entry) error) error
	update(ctx context.Context, key string, fn func(*entry) (*entry, error)) error
	now() time.Time
}

// engine implements Store on top of a backend.
type engine struct {
	b backend
}

func (g engine) Get(ctx context.Context, key string) (string, error) {
	var out string
	err := g.b.read(ctx, key, func(e *entry) error {
		if e == nil {
			return ErrNotFound
		}
		if e.Kind != kindString {
			return ErrWrongType
		}
		out = e.Str
		return nil
	})
	return out, err
}

func (g engine) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return g.b.update(ctx, key, func(*entry) (*entry, error) {
		next := &entry{Kind: kindString, Str: value}
		if ttl > 0 {
			next.ExpiresAt = g.b.now().Add(ttl)
		}
		return next, nil
	})
}

func (g engine) Del(ctx context.Context, keys ...string) (int64, error) {
	var n int64
	for _, key := range keys {
		err := g.b.update(ctx, key, func(e *entry) (*entry, error) {
			if e != nil {
				n++
			}
			return nil, nil
		})
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

func (g engine) HSet(ctx context.Context, key, field, value string) error {
	return g.b.update(ctx, key, func(e *entry) (*entry, error) {
		if e == nil {
			e = &entry{Kind: kindHash, Hash: map[string]string{}}
		}
		if e.Kind != kindHash {
			return nil, ErrWrongType
		}
		if e.Hash == nil {
			e.Hash = map[string]string{}
		}
		e.Hash[field] = value
		return e, nil
	})
}

func (g engine) HGet(ctx context.Context, key, field string) (string, error) {
	var out string
	err := g.b.read(ctx, key, func(e *entry) error {
		if e == nil {
			return ErrNotFound
		}
		if e.Kind != kindHash {
			return ErrWrongType
		}
		v, ok := e.Hash[field]
		if !ok {
			return ErrNotFound
		}
		out = v
		return nil
	})
	return out, err
}

func (g engine) SAdd(ctx context.Context, key string, members ...string) error {
	return g.b.update(ctx, key, func(e *entry) (*entry, error) {
		if e == nil {
			e = &entry{Kind: kindSet, Set: map[string]bool{}}
		}
		if e.Kind != kindSet {
			return nil, ErrWrongType
		}
		if e.Set == nil {
			e.Set = map[string]bool{}
		}
		for _, m := range members {
			e.Set[m] = true
		}
		return e, nil
	})
}

func (g engine) SRem(ctx context.Context, key string, members ...string) error {
	return g.b.update(ctx, key, func(e *entry) (*entry, error) {
		if e == nil {
			return nil, nil
		}
		if e.Kind != kindSet {
			return nil, ErrWrongType
		}
		for _, m := range members {
			delete(e.Set, m)
		}
		if len(e.Set) == 0 {
			return nil, nil
		}
		return e, nil
	})
}

func (g engine) SMembers(ctx context.Context, key string) ([]string, error) {
	out := []string{}
	err := g.b.read(ctx, key, func(e *entry) error {
		if e == nil {
			return nil
		}
		if e.Kind != kindSet {
			return ErrWrongType
		}
		for m := range e.Set {
			out = append(out, m)
		}
		return nil
	})
	slices.Sort(out)
	return out, err
}

func (g engine) LPush(ctx context.Context, key string, values ...string) error {
	return g.b.update(ctx, key, func(e *entry) (*entry, error) {
		if e == nil {
			e = &entry{Kind: kindList}
		}
		if e.Kind != kindList {
			return nil, ErrWrongType
		}
		head := make([]string, 0, len(values)+len(e.List))
		for i := len(values) - 1; i >= 0; i-- {
			head = append(head, values[i])
		}
		e.List = append(head, e.List...)
		return e, nil
	})
}

func (g engine) LTrim(ctx context.Context, key string, start, stop int64) error {
	return g.b.update(ctx, key, func(e *entry) (*entry, error) {
		if e == nil {
			return nil, nil
		}
		if e.Kind != kindList {
			return nil, ErrWrongType
		}
		lo, hi, ok := listRange(start, stop, len(e.List))
		if !ok {
			return nil, nil
		}
		e.List = slices.Clone(e.List[lo : hi+1])
		return e, nil
	})
}

func (g engine) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	out := []string{}
	err := g.b.read(ctx, key, func(e *entry) error {
		if e == nil {
			return nil
		}
		if e.Kind != kindList {
			return ErrWrongType
		}
		if lo, hi, ok := listRange(start, stop, len(e.List)); ok {
			out = append(out, e.List[lo:hi+1]...)
		}
		return nil
	})
	return out, err
}

func (g engine) LRem(ctx context.Context, key string, count int64, value string) (int64, error) {
	var removed int64
	err := g.b.update(ctx, key, func(e *entry) (*entry, error) {
		if e == nil {
			return nil, nil
		}
		if e.Kind != kindList {
			return nil, ErrWrongType
		}
		limit := count
		if limit < 0 {
			limit = -limit
		}
		keep := make([]bool, len(e.List))
		for i := range keep {
			keep[i] = true
		}
		visit := func(i int) {
			if e.List[i] == value && (limit == 0 || removed < limit) {
				keep[i] = false
				removed++
			}
		}
		if count < 0 {
			for i := len(e.List) - 1; i >= 0; i-- {
				visit(i)
			}
		} else {
			for i := range e.List {
				visit(i)
			}
		}
		next := make([]string, 0, len(e.List))
		for i, v := range e.List {
			if keep[i] {
				next = append(next, v)
			}
		}
		if len(next) == 0 {
			return nil, nil
		}
		e.List = next
		return e, nil
	})
	return removed, err
}

func (g engine) Incr(ctx context.Context, key string) (int64, error) {
	var n int64
	err := g.b.update(ctx, key, func(e *entry) (*entry, error) {
		if e == nil {
			e = &entry{Kind: kindString, Str: "0"}
		}
		if e.Kind != kindString {
			return nil, ErrWrongType
		}
		cur, err := strconv.ParseInt(e.Str, 10, 64)
		if err != nil {
			return nil, ErrNotInteger
		}
		n = cur + 1
		e.Str = strconv.FormatInt(n, 10)
		return e, nil
	})
	return n, err
}

func (g engine) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return g.b.update(ctx, key, func(e *entry) (*entry, error) {
		if e == nil {
			return nil, ErrNotFound
		}
		if ttl <= 0 {
			return nil, nil
		}
		e.ExpiresAt = g.b.now().Add(ttl)
		return e, nil
	})
}

func (g engine) TTL(ctx context.Context, key string) (time.Duration, error) {
	var out time.Duration
	err := g.b.read(ctx, key, func(e *entry) error {
		if e == nil {
			return ErrNotFound
		}
		if e.ExpiresAt.IsZero() {
			out = NoExpiry
			return nil
		}
		out = e.ExpiresAt.Sub(g.b.now())
		return nil
	})
	return out, err
}

// listRange resolves Redis-style inclusive indexes against a list of length n.
func listRange(start, stop int64, n int) (int, int, bool) {
	size := int64(n)
	if start < 0 {
		start += size
	}
	if stop < 0 {
		stop += size
	}
	if start < 0 {
		start = 0
	}
	if stop >= size {
		stop = size - 1
	}
	if start > stop || start >= size {
		return 0, 0, false
	}
	return int(start), int(stop), true
}
