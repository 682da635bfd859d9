// Package cache provides the fast-path session lookup tier. The durable
// sessions table remains the source of truth; everything here is advisory.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// SessionData is the cached slice of a session. The expiry is stored
// alongside the TTL because TTL eviction is not guaranteed to be prompt;
// readers re-check ExpiresAt before trusting a hit.
type SessionData struct {
	UserID    int64     `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SessionCache is a key-value store with TTL semantics. Get returns
// (nil, nil) on a miss; an error means the backend is unreachable and the
// caller should fall through to the durable store.
type SessionCache interface {
	Get(ctx context.Context, sessionID string) (*SessionData, error)
	Set(ctx context.Context, sessionID string, data SessionData, ttl time.Duration) error
	Delete(ctx context.Context, sessionID string) error
}

type redisCache struct {
	client *redis.Client
}

// NewRedis wraps a redis client as a SessionCache.
func NewRedis(client *redis.Client) SessionCache {
	if client == nil {
		return nil
	}
	return &redisCache{client: client}
}

func (c *redisCache) Get(ctx context.Context, sessionID string) (*SessionData, error) {
	raw, err := c.client.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var data SessionData
	if err := json.Unmarshal(raw, &data); err != nil {
		// Unreadable entry is treated as a miss, not a failure.
		return nil, nil
	}
	return &data, nil
}

func (c *redisCache) Set(ctx context.Context, sessionID string, data SessionData, ttl time.Duration) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}
	if err := c.client.Set(ctx, sessionKeyPrefix+sessionID, raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

func (c *redisCache) Delete(ctx context.Context, sessionID string) error {
	if err := c.client.Del(ctx, sessionKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}
