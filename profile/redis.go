package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iammanoj/interestlens/types"
)

// RedisPersistence stores one JSON profile record per user under user:<id>.
type RedisPersistence struct {
	client *redis.Client
}

// NewRedisPersistenceFromEnv connects using REDIS_ADDR and REDIS_PASS.
func NewRedisPersistenceFromEnv() (*RedisPersistence, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	return NewRedisPersistence(addr, os.Getenv("REDIS_PASS"))
}

// NewRedisPersistence creates the backend and verifies connectivity.
func NewRedisPersistence(addr, password string) (*RedisPersistence, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return &RedisPersistence{client: client}, nil
}

func profileKey(userID string) string {
	return "user:" + userID
}

// Load fetches and decodes the profile record for userID.
func (r *RedisPersistence) Load(ctx context.Context, userID string) (*types.UserProfile, bool, error) {
	raw, err := r.client.Get(ctx, profileKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var p types.UserProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, false, fmt.Errorf("corrupt profile record for %s: %w", userID, err)
	}
	if p.TopicAffinity == nil {
		p.TopicAffinity = make(map[string]float64)
	}
	if p.DomainAffinity == nil {
		p.DomainAffinity = make(map[string]float64)
	}
	return &p, true, nil
}

// Save writes the profile record. Profiles have no TTL; they live until an
// explicit clear.
func (r *RedisPersistence) Save(ctx context.Context, profile *types.UserProfile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, profileKey(profile.UserID), raw, 0).Err()
}

// Delete removes the profile record.
func (r *RedisPersistence) Delete(ctx context.Context, userID string) error {
	return r.client.Del(ctx, profileKey(userID)).Err()
}

// Close closes the underlying Redis client.
func (r *RedisPersistence) Close() error {
	return r.client.Close()
}
