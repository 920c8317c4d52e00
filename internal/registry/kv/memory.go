package kv

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"
)

// MemoryStore keeps everything in process. It backs tests and single-node
// development setups; data does not survive a restart.
type MemoryStore struct {
	engine
	mem *memoryBackend
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty in-process store.
func NewMemoryStore() *MemoryStore {
	mem := &memoryBackend{data: map[string]*entry{}, clock: time.Now}
	return &MemoryStore{engine: engine{b: mem}, mem: mem}
}

// SetClock replaces the time source used for expirations.
func (s *MemoryStore) SetClock(clock func() time.Time) {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	s.mem.clock = clock
}

// Keys returns every live key, sorted.
func (s *MemoryStore) Keys() []string {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	now := s.mem.clock()
	var keys []string
	for k, e := range s.mem.data {
		if !e.expired(now) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

func (s *MemoryStore) Ping(ctx context.Context) error { return ctx.Err() }

func (s *MemoryStore) Close() error { return nil }

type memoryBackend struct {
	mu    sync.Mutex
	data  map[string]*entry
	clock func() time.Time
}

func (m *memoryBackend) now() time.Time { return m.clock() }

// lookup must be called with mu held.
func (m *memoryBackend) lookup(key string) *entry {
	e, ok := m.data[key]
	if !ok {
		return nil
	}
	if e.expired(m.clock()) {
		delete(m.data, key)
		return nil
	}
	return e
}

func (m *memoryBackend) read(ctx context.Context, key string, fn func(*entry) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m.lookup(key))
}

func (m *memoryBackend) update(ctx context.Context, key string, fn func(*entry) (*entry, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	// fn works on a copy so a failed operation leaves the stored value intact.
	next, err := fn(cloneEntry(m.lookup(key)))
	if err != nil {
		return err
	}
	if next == nil {
		delete(m.data, key)
		return nil
	}
	m.data[key] = next
	return nil
}

func cloneEntry(e *entry) *entry {
	if e == nil {
		return nil
	}
	c := *e
	c.Hash = maps.Clone(e.Hash)
	c.Set = maps.Clone(e.Set)
	c.List = slices.Clone(e.List)
	return &c
}
