package activity

import (
	"context"
	"sync"
	"time"

	"github.com/iammanoj/interestlens/types"
)

// MemoryStore is an in-process activity Store used when Redis is not
// configured and in tests. TTLs are ignored; history lives until the process
// exits.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string][]types.Activity
}

// NewMemoryStore creates an empty in-memory activity store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]types.Activity)}
}

func (s *MemoryStore) Append(_ context.Context, userID string, activities []types.Activity, max int, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Newest first, matching the Redis list layout
	merged := make([]types.Activity, 0, len(activities)+len(s.entries[userID]))
	for i := len(activities) - 1; i >= 0; i-- {
		merged = append(merged, activities[i])
	}
	merged = append(merged, s.entries[userID]...)
	if len(merged) > max {
		merged = merged[:max]
	}
	s.entries[userID] = merged
	return nil
}

func (s *MemoryStore) List(_ context.Context, userID string, limit int) ([]types.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.entries[userID]
	if len(stored) > limit {
		stored = stored[:limit]
	}
	return append([]types.Activity(nil), stored...), nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	s.entries = make(map[string][]types.Activity)
	s.mu.Unlock()
	return nil
}
