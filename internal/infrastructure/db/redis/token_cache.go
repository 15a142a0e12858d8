package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultTokenTTL = 5 * time.Minute
	keyPrefix       = "token:"
	// tombstone marks a revoked hash. It is never a valid user id.
	tombstone = ""
)

// TokenCache keeps hash -> user id lookups in Redis.
// Key format: token:<sha256 hex>
//
// Remember only writes when no entry exists, while Forget overwrites
// unconditionally with a tombstone. A verify racing a revoke can therefore
// never restore a revoked entry.
type TokenCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTokenCache creates a TokenCache wrapping the given Redis client.
// If ttl <= 0, defaultTokenTTL is used.
func NewTokenCache(client *redis.Client, ttl time.Duration) *TokenCache {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenCache{client: client, ttl: ttl}
}

// Get returns the cached user id. found with an empty user id means the hash
// was revoked.
func (c *TokenCache) Get(ctx context.Context, hash string) (string, bool, error) {
	v, err := c.client.Get(ctx, c.key(hash)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("token cache get: %w", err)
	}
	return v, true, nil
}

func (c *TokenCache) Remember(ctx context.Context, hash, userID string) error {
	if err := c.client.SetNX(ctx, c.key(hash), userID, c.ttl).Err(); err != nil {
		return fmt.Errorf("token cache remember: %w", err)
	}
	return nil
}

func (c *TokenCache) Forget(ctx context.Context, hashes ...string) error {
	if len(hashes) == 0 {
		return nil
	}
	pipe := c.client.Pipeline()
	for _, h := range hashes {
		pipe.Set(ctx, c.key(h), tombstone, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("token cache forget: %w", err)
	}
	return nil
}

func (c *TokenCache) key(hash string) string {
	return keyPrefix + hash
}
