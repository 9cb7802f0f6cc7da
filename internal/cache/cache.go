// Package cache memoizes computed report payloads per key with a TTL.
package cache

import (
	"context"
	"sync"
	"time"
)

// Producer computes the value for a key on a cache miss.
type Producer func(ctx context.Context) ([]byte, error)

// Cache is the report memoization contract. Fetch returns the cached
// value when it is fresher than ttl, otherwise invokes produce and
// stores the result. force skips the freshness check. A producer error
// leaves the cached state untouched.
//
// There is no request coalescing: concurrent Fetch calls that both
// observe a miss each invoke produce independently.
type Cache interface {
	Fetch(ctx context.Context, key string, ttl time.Duration, force bool, produce Producer) ([]byte, error)
	Invalidate(ctx context.Context, key string) error
}

type memoryEntry struct {
	data      []byte
	fetchedAt time.Time
}

// Memory is an in-process Cache.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory creates an empty in-process cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *Memory) Fetch(ctx context.Context, key string, ttl time.Duration, force bool, produce Producer) ([]byte, error) {
	if !force {
		m.mu.RLock()
		entry, ok := m.entries[key]
		m.mu.RUnlock()
		if ok && m.now().Sub(entry.fetchedAt) < ttl {
			return entry.data, nil
		}
	}

	data, err := produce(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.entries[key] = memoryEntry{data: data, fetchedAt: m.now()}
	m.mu.Unlock()
	return data, nil
}

func (m *Memory) Invalidate(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}
