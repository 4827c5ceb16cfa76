package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iammanoj/interestlens/types"
)

// RedisStore keeps each user's activity history as a Redis list under
// activity:<id>, newest first, trimmed to the configured cap.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func activityKey(userID string) string {
	return "activity:" + userID
}

// Append pushes the batch, trims the list to max entries, and refreshes the
// retention TTL.
func (r *RedisStore) Append(ctx context.Context, userID string, activities []types.Activity, max int, ttl time.Duration) error {
	values := make([]interface{}, 0, len(activities))
	for _, a := range activities {
		raw, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("failed to encode activity: %w", err)
		}
		values = append(values, raw)
	}
	if len(values) == 0 {
		return nil
	}

	key := activityKey(userID)
	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, key, values...)
	pipe.LTrim(ctx, key, 0, int64(max-1))
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append activities: %w", err)
	}
	return nil
}

// List returns up to limit activities, newest first. Corrupt records are
// skipped rather than failing the whole read.
func (r *RedisStore) List(ctx context.Context, userID string, limit int) ([]types.Activity, error) {
	raw, err := r.client.LRange(ctx, activityKey(userID), 0, int64(limit-1)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read activities: %w", err)
	}

	activities := make([]types.Activity, 0, len(raw))
	for _, item := range raw {
		var a types.Activity
		if err := json.Unmarshal([]byte(item), &a); err != nil {
			log.Printf("Warning: skipping corrupt activity record for %s: %v", userID, err)
			continue
		}
		activities = append(activities, a)
	}
	return activities, nil
}

// Close closes the underlying Redis client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
