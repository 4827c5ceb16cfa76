package authenticity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iammanoj/interestlens/types"
)

// RedisStore caches verification results and URL previews in Redis. Results
// are keyed by item id, previews by URL; both expire on their own TTLs.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func resultKey(itemID string) string { return "auth:" + itemID }
func previewKey(url string) string   { return "preview:" + url }

// GetResult fetches a cached verification result.
func (s *RedisStore) GetResult(ctx context.Context, itemID string) (*types.AuthenticityResult, bool, error) {
	var result types.AuthenticityResult
	ok, err := s.getJSON(ctx, resultKey(itemID), &result)
	if !ok || err != nil {
		return nil, false, err
	}
	return &result, true, nil
}

// PutResult caches a verification result with the given TTL.
func (s *RedisStore) PutResult(ctx context.Context, itemID string, result *types.AuthenticityResult, ttl time.Duration) error {
	return s.putJSON(ctx, resultKey(itemID), result, ttl)
}

// GetPreview fetches a cached URL preview.
func (s *RedisStore) GetPreview(ctx context.Context, url string) (*types.URLPreview, bool, error) {
	var preview types.URLPreview
	ok, err := s.getJSON(ctx, previewKey(url), &preview)
	if !ok || err != nil {
		return nil, false, err
	}
	return &preview, true, nil
}

// PutPreview caches a URL preview with the given TTL.
func (s *RedisStore) PutPreview(ctx context.Context, url string, preview *types.URLPreview, ttl time.Duration) error {
	return s.putJSON(ctx, previewKey(url), preview, ttl)
}

// Close closes the underlying Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) getJSON(ctx context.Context, key string, out interface{}) (bool, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		// Treat a corrupt value as a miss; the writer will overwrite it.
		return false, nil
	}
	return true, nil
}

func (s *RedisStore) putJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, raw, ttl).Err()
}
