package cache

import (
	"context"
	"sync"
	"time"

	"weather-outfit/internal/models"
)

type entry struct {
	value     models.Suggestion
	pending   bool
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryStore keeps suggestions in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (models.Suggestion, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookup(key)
	if !ok || e.pending {
		return models.Suggestion{}, false, nil
	}
	return e.value, true, nil
}

func (s *MemoryStore) Reserve(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lookup(key); ok {
		return false, nil
	}
	s.entries[key] = entry{pending: true, expiresAt: s.deadline(ttl)}
	return true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, suggestion models.Suggestion, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry{value: suggestion, expiresAt: s.deadline(ttl)}
	return nil
}

func (s *MemoryStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok && e.pending {
		delete(s.entries, key)
	}
	return nil
}

// Len counts live entries, pending included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for key := range s.entries {
		if _, ok := s.lookup(key); ok {
			n++
		}
	}
	return n
}

// lookup must be called with mu held; it evicts an expired entry.
func (s *MemoryStore) lookup(key string) (entry, bool) {
	e, ok := s.entries[key]
	if !ok {
		return entry{}, false
	}
	if e.expired(s.now()) {
		delete(s.entries, key)
		return entry{}, false
	}
	return e, true
}

func (s *MemoryStore) deadline(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return s.now().Add(ttl)
}
