package session

import (
	"context"
	"sync"
	"time"

	"MedlyChatbot/pkg/nlp"
)

// ContextStore keeps the last product shown to each conversation. Entries for
// different sessions are independent.
type ContextStore interface {
	Get(ctx context.Context, sessionID string) (*nlp.ProductRef, error)
	Set(ctx context.Context, sessionID string, product nlp.ProductRef) error
}

type memoryEntry struct {
	product   nlp.ProductRef
	expiresAt time.Time
}

type MemoryStore struct {
	mu       sync.RWMutex
	entries  map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time
	writes   int
	sweepGap int
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries:  make(map[string]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
		sweepGap: 256,
	}
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (*nlp.ProductRef, error) {
	s.mu.RLock()
	entry, ok := s.entries[sessionID]
	s.mu.RUnlock()

	if !ok || s.expired(entry) {
		return nil, nil
	}

	product := entry.product
	return &product, nil
}

func (s *MemoryStore) Set(_ context.Context, sessionID string, product nlp.ProductRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := memoryEntry{product: product}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}
	s.entries[sessionID] = entry

	s.writes++
	if s.writes%s.sweepGap == 0 {
		s.sweepLocked()
	}
	return nil
}

func (s *MemoryStore) size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemoryStore) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt)
}

func (s *MemoryStore) sweepLocked() {
	for id, e := range s.entries {
		if s.expired(e) {
			delete(s.entries, id)
		}
	}
}
