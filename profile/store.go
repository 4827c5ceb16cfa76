// Package profile owns per-user interest state. Reads are lock-free snapshot
// loads; all mutation funnels through Update, which serializes writers per
// user id and persists write-through when a backend is configured.
package profile

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/iammanoj/interestlens/types"
)

// Persistence is the durable backend for profiles. Implementations must
// tolerate concurrent calls for different users; the store guarantees calls
// for one user never overlap.
type Persistence interface {
	Load(ctx context.Context, userID string) (*types.UserProfile, bool, error)
	Save(ctx context.Context, profile *types.UserProfile) error
	Delete(ctx context.Context, userID string) error
}

// Store is the in-process owner of user profiles. Profiles are created lazily
// on first access and live until an explicit Clear.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
	persist Persistence // nil means memory-only (profiles die with the process)
}

// entry holds one user's profile. current always points at an immutable
// snapshot; Update swaps in a fresh clone, so readers never see a profile
// mid-mutation.
type entry struct {
	writeMu sync.Mutex
	current atomic.Pointer[types.UserProfile]
	loaded  bool
}

// NewStore creates a Store. persist may be nil for memory-only operation.
func NewStore(persist Persistence) *Store {
	return &Store{
		entries: make(map[string]*entry),
		persist: persist,
	}
}

// Get returns a snapshot of the user's profile, creating a fresh neutral one
// on first access. An empty userID yields an ephemeral cold profile that is
// never stored (the anonymous "limited mode" path).
func (s *Store) Get(ctx context.Context, userID string) (*types.UserProfile, error) {
	if userID == "" {
		return types.NewUserProfile(""), nil
	}

	e, err := s.entryFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return e.current.Load().Clone(), nil
}

// Update applies fn to the user's profile under the per-user write lock and
// persists the result. fn receives a private clone; concurrent readers observe
// either the pre- or post-update snapshot, never a partial one.
func (s *Store) Update(ctx context.Context, userID string, fn func(*types.UserProfile)) error {
	if userID == "" {
		return fmt.Errorf("cannot update profile for empty user id")
	}

	e, err := s.entryFor(ctx, userID)
	if err != nil {
		return err
	}

	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	next := e.current.Load().Clone()
	fn(next)

	if s.persist != nil {
		if err := s.persist.Save(ctx, next); err != nil {
			return fmt.Errorf("failed to persist profile for %s: %w", userID, err)
		}
	}
	e.current.Store(next)
	return nil
}

// Clear removes the user's profile from memory and the backend.
func (s *Store) Clear(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}

	s.mu.Lock()
	delete(s.entries, userID)
	s.mu.Unlock()

	if s.persist != nil {
		return s.persist.Delete(ctx, userID)
	}
	return nil
}

// entryFor returns the entry for userID, creating and hydrating it on first
// access. Hydration happens under the entry's write lock so concurrent first
// accesses load the backend at most once.
func (s *Store) entryFor(ctx context.Context, userID string) (*entry, error) {
	s.mu.RLock()
	e, ok := s.entries[userID]
	s.mu.RUnlock()

	if !ok {
		s.mu.Lock()
		e, ok = s.entries[userID]
		if !ok {
			e = &entry{}
			e.current.Store(types.NewUserProfile(userID))
			s.entries[userID] = e
		}
		s.mu.Unlock()
	}

	if s.persist != nil {
		e.writeMu.Lock()
		defer e.writeMu.Unlock()
		if !e.loaded {
			stored, found, err := s.persist.Load(ctx, userID)
			if err != nil {
				return nil, fmt.Errorf("failed to load profile for %s: %w", userID, err)
			}
			if found {
				e.current.Store(stored)
			}
			e.loaded = true
		}
	}
	return e, nil
}
