package authenticity

import (
	"context"
	"sync"
	"time"

	"github.com/iammanoj/interestlens/types"
)

// MemoryStore is an in-process Store used when Redis is not configured and in
// tests. Expired entries are dropped lazily on read.
type MemoryStore struct {
	mu       sync.RWMutex
	results  map[string]memoryResult
	previews map[string]memoryPreview
	now      func() time.Time
}

type memoryResult struct {
	result    types.AuthenticityResult
	expiresAt time.Time
}

type memoryPreview struct {
	preview   types.URLPreview
	expiresAt time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		results:  make(map[string]memoryResult),
		previews: make(map[string]memoryPreview),
		now:      time.Now,
	}
}

func (s *MemoryStore) GetResult(_ context.Context, itemID string) (*types.AuthenticityResult, bool, error) {
	s.mu.RLock()
	stored, ok := s.results[itemID]
	s.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if s.now().After(stored.expiresAt) {
		s.mu.Lock()
		if cur, ok := s.results[itemID]; ok && s.now().After(cur.expiresAt) {
			delete(s.results, itemID)
		}
		s.mu.Unlock()
		return nil, false, nil
	}
	result := stored.result
	return &result, true, nil
}

func (s *MemoryStore) PutResult(_ context.Context, itemID string, result *types.AuthenticityResult, ttl time.Duration) error {
	s.mu.Lock()
	s.results[itemID] = memoryResult{result: *result, expiresAt: s.now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) GetPreview(_ context.Context, url string) (*types.URLPreview, bool, error) {
	s.mu.RLock()
	stored, ok := s.previews[url]
	s.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if s.now().After(stored.expiresAt) {
		s.mu.Lock()
		if cur, ok := s.previews[url]; ok && s.now().After(cur.expiresAt) {
			delete(s.previews, url)
		}
		s.mu.Unlock()
		return nil, false, nil
	}
	preview := stored.preview
	return &preview, true, nil
}

func (s *MemoryStore) PutPreview(_ context.Context, url string, preview *types.URLPreview, ttl time.Duration) error {
	s.mu.Lock()
	s.previews[url] = memoryPreview{preview: *preview, expiresAt: s.now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	s.results = make(map[string]memoryResult)
	s.previews = make(map[string]memoryPreview)
	s.mu.Unlock()
	return nil
}
