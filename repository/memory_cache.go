package repository

import (
	"context"
	"sync"
	"time"
)

// sweepInterval is the least time between two sweeps of expired entries.
const sweepInterval = time.Minute

type memoryEntry struct {
	value   string
	expires time.Time // zero never expires
}

// MemoryCache is the in-process CacheRepository used when Redis is disabled
// and in tests.
type MemoryCache struct {
	mu        sync.Mutex
	data      map[string]memoryEntry
	now       func() time.Time
	lastSweep time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		data: make(map[string]memoryEntry),
		now:  time.Now,
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.data[key]
	if !ok {
		return "", false
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		delete(m.data, key)
		return "", false
	}
	return e.value, true
}

func (m *MemoryCache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if now.Sub(m.lastSweep) >= sweepInterval {
		m.sweep(now)
	}

	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expires = now.Add(ttl)
	}
	m.data[key] = e
	return nil
}

// sweep drops expired entries. Callers hold mu.
func (m *MemoryCache) sweep(now time.Time) {
	for key, e := range m.data {
		if !e.expires.IsZero() && !now.Before(e.expires) {
			delete(m.data, key)
		}
	}
	m.lastSweep = now
}

// Len counts stored entries, including expired ones not yet swept.
func (m *MemoryCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}
