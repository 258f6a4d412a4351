package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	data   Data
	expire time.Time
}

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]memoryEntry
}

// NewMemoryStore constructs a MemoryStore; now defaults to time.Now.
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{now: now, entries: make(map[string]memoryEntry)}
}

// Get loads an unexpired session.
func (s *MemoryStore) Get(_ context.Context, id string) (Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		return Data{}, ErrNotFound
	}
	if !s.now().Before(entry.expire) {
		delete(s.entries, id)
		return Data{}, ErrNotFound
	}
	return entry.data, nil
}

// Set stores the session with a fresh expiry.
func (s *MemoryStore) Set(_ context.Context, id string, data Data, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = memoryEntry{data: data, expire: s.now().Add(ttl)}
	return nil
}

// Destroy removes the session.
func (s *MemoryStore) Destroy(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

// Purge drops expired sessions.
func (s *MemoryStore) Purge(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	var removed int64
	for id, entry := range s.entries {
		if !now.Before(entry.expire) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed, nil
}
