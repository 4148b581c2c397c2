package store

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value    string
	deadline time.Time // zero means no expiry
}

// InMemory implements Store using local memory. It honors the same TTL and
// conditional-write semantics as Redis and is intended for tests and examples;
// it provides no cross-process coordination.
type InMemory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

// NewInMemory returns a new in-memory store.
func NewInMemory() *InMemory {
	return &InMemory{entries: make(map[string]memoryEntry)}
}

// live returns the entry for key if present and not expired, dropping it
// otherwise. Callers must hold s.mu.
func (s *InMemory) live(key string) (memoryEntry, bool) {
	e, ok := s.entries[key]
	if !ok {
		return memoryEntry{}, false
	}
	if !e.deadline.IsZero() && !time.Now().Before(e.deadline) {
		delete(s.entries, key)
		return memoryEntry{}, false
	}
	return e, true
}

// SetIfAbsent implements Store.SetIfAbsent.
func (s *InMemory) SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.live(key); ok {
		return false, nil
	}
	e := memoryEntry{value: value}
	if ttl > 0 {
		e.deadline = time.Now().Add(ttl)
	}
	s.entries[key] = e
	return true, nil
}

// CompareAndDelete implements Store.CompareAndDelete.
func (s *InMemory) CompareAndDelete(ctx context.Context, key, expected string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.live(key)
	if !ok || e.value != expected {
		return false, nil
	}
	delete(s.entries, key)
	return true, nil
}

// Put implements Store.Put.
func (s *InMemory) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e := memoryEntry{value: value}
	if ttl > 0 {
		e.deadline = time.Now().Add(ttl)
	}
	s.entries[key] = e
	return nil
}

// Get implements Store.Get.
func (s *InMemory) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.live(key)
	if !ok {
		return "", false, nil
	}
	return e.value, true, nil
}
