package lockout

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	count     int
	expiresAt time.Time
}

// MemoryStore keeps attempt counters in process. Suitable for tests and
// single-instance development.
type MemoryStore struct {
	mu      sync.Mutex
	window  time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore(window time.Duration) *MemoryStore {
	return &MemoryStore{
		window:  window,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) RecordFailure(_ context.Context, token string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := attemptKey(token)
	now := s.now()
	entry, ok := s.entries[key]
	if !ok || now.After(entry.expiresAt) {
		entry = memoryEntry{count: 0, expiresAt: now.Add(s.window)}
	}
	entry.count++
	s.entries[key] = entry
	return entry.count, nil
}

func (s *MemoryStore) Attempts(_ context.Context, token string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[attemptKey(token)]
	if !ok || s.now().After(entry.expiresAt) {
		return 0, nil
	}
	return entry.count, nil
}

func (s *MemoryStore) Reset(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, attemptKey(token))
	return nil
}
