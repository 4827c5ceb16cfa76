// Package cache provides the content-addressed embedding/classification cache.
// Keys are derived from normalized item text, so the same text on different
// pages shares one entry. Expiry is advisory: scoring tolerates stale reads,
// and an unreachable backend is treated by callers as an unconditional miss.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Entry is the cached result of classifying and embedding one piece of text.
type Entry struct {
	Embedding []float32 `json:"embedding"`
	Topics    []string  `json:"topics"`
}

// Store is the key-value contract for embedding caches. Implementations must
// be safe for concurrent use; a second writer overwriting a first writer's
// identical value is acceptable.
type Store interface {
	// Get returns the entry for text and whether it was present. A backend
	// failure returns an error; callers treat it as a miss.
	Get(ctx context.Context, text string) (Entry, bool, error)

	// Put stores the entry for text with the given TTL.
	Put(ctx context.Context, text string, entry Entry, ttl time.Duration) error

	Close() error
}

// Key hashes normalized text into the cache key. Normalization collapses
// whitespace and lowercases, so cosmetic differences don't fragment the cache.
func Key(text string) string {
	normalized := strings.ToLower(text)
	normalized = strings.Join(strings.Fields(normalized), " ")

	h := sha256.Sum256([]byte(normalized))
	return "emb:" + hex.EncodeToString(h[:])
}
