// Package cache provides audit result memoization backends: an in-process
// TTL map for single-instance deployments and a Redis store for distributed
// ones.
package cache

import (
	"context"
	"sync"
	"time"

	"compliancecore/internal/audit"
)

type entry struct {
	result    audit.Result
	expiresAt time.Time
}

// Memory is an in-process TTL cache. Expiry is lazy: stale entries are
// dropped on the read that finds them, and reads never extend a TTL.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// MemoryOption configures a Memory cache.
type MemoryOption func(*Memory)

// WithClock overrides the cache clock.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		m.now = now
	}
}

// NewMemory constructs an empty in-process cache.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		entries: make(map[string]entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Get(_ context.Context, key string) (audit.Result, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return audit.Result{}, false, nil
	}
	if !m.now().Before(e.expiresAt) {
		m.mu.Lock()
		// Re-check under the write lock; a writer may have refreshed it.
		if cur, ok := m.entries[key]; ok && !m.now().Before(cur.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return audit.Result{}, false, nil
	}
	return e.result, true, nil
}

func (m *Memory) Set(_ context.Context, key string, r audit.Result, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry{result: r, expiresAt: m.now().Add(ttl)}
	return nil
}

func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]entry)
	return nil
}

// Len reports the current entry count, including not-yet-swept stale entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
