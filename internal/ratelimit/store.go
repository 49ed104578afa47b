// Package ratelimit provides a process-wide counter keyed by actor
// identity with time-windowed decay. The in-memory implementation is
// explicitly non-durable: counts reset on process restart and are not
// shared across instances. Multi-instance deployments should inject a
// Store backed by an external cache instead.
package ratelimit

import (
	"sync"
	"time"
)

// Store counts events per key inside a rolling window.
type Store interface {
	// Incr bumps the counter for key and returns the count within the
	// current window. A fresh window starts when the previous one expired.
	Incr(key string, window time.Duration) (int, error)
	// Reset clears the counter for key.
	Reset(key string)
}

type entry struct {
	count     int
	windowEnd time.Time
}

// MemoryStore is the single-instance Store: a mutex-guarded map.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Incr(key string, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e, ok := s.entries[key]
	if !ok || now.After(e.windowEnd) {
		e = &entry{windowEnd: now.Add(window)}
		s.entries[key] = e
	}
	e.count++
	return e.count, nil
}

func (s *MemoryStore) Reset(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}
