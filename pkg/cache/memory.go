// Package cache stores validated canonical datasets with a time-to-live.
//
// Expiry is lazy: no background sweeper runs, entries are checked (and
// evicted) only when read. This keeps behavior fully deterministic under a
// fake clock.
package cache

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/venturegraph/sdk-go/pkg/interfaces"
)

type memoryEntry struct {
	dataset   *interfaces.Dataset
	writeTime time.Time
	ttl       time.Duration
}

// Memory is an in-process implementation of interfaces.DatasetCache
type Memory struct {
	entries map[string]memoryEntry
	mu      sync.RWMutex
	now     func() time.Time
}

// MemoryOption represents an option for configuring the memory cache
type MemoryOption func(*Memory)

// WithClock overrides the time source. Useful in tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		m.now = now
	}
}

// NewMemory creates an empty in-memory dataset cache
func NewMemory(options ...MemoryOption) *Memory {
	memory := &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}

	for _, option := range options {
		option(memory)
	}

	return memory
}

// Get returns the dataset stored under key, or nil if the key is absent or
// its entry has outlived its TTL. An expired entry is removed as a side
// effect of the read.
func (m *Memory) Get(_ context.Context, key string) (*interfaces.Dataset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, nil
	}
	if m.expired(entry) {
		delete(m.entries, key)
		return nil, nil
	}
	return entry.dataset, nil
}

// Set unconditionally overwrites key with a fresh write timestamp
func (m *Memory) Set(_ context.Context, key string, dataset *interfaces.Dataset, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = memoryEntry{
		dataset:   dataset,
		writeTime: m.now(),
		ttl:       ttl,
	}
	return nil
}

// IsExpired reports whether key is absent or stale without evicting it
func (m *Memory) IsExpired(_ context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[key]
	if !ok {
		return true, nil
	}
	return m.expired(entry), nil
}

// Invalidate removes key
func (m *Memory) Invalidate(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
	return nil
}

// Clear removes every entry
func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]memoryEntry)
	return nil
}

// Stats returns the current size and key set
func (m *Memory) Stats(_ context.Context) (interfaces.CacheStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.entries))
	for key := range m.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return interfaces.CacheStats{Size: len(m.entries), Keys: keys}, nil
}

func (m *Memory) expired(entry memoryEntry) bool {
	return m.now().Sub(entry.writeTime) > entry.ttl
}
