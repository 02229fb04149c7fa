package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/cache"
)

const (
	defaultKeyPrefix = "cms"
	scanBatch        = 256
)

// Cache is a cache.Cache backed by Redis.
// Key format: <prefix>:<namespace>::<key>
type Cache struct {
	client redis.UniversalClient
	prefix string
}

// NewCache creates a Cache wrapping the given Redis client. An empty prefix
// uses "cms".
func NewCache(client redis.UniversalClient, prefix string) *Cache {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &Cache{client: client, prefix: prefix}
}

// Get returns the stored bytes, or ok=false when the key is absent.
func (c *Cache) Get(ctx context.Context, ns cache.Namespace, key string) ([]byte, bool, error) {
	v, err := c.client.Get(ctx, c.key(ns, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return v, true, nil
}

// Put stores value with the given expiry.
func (c *Cache) Put(ctx context.Context, ns cache.Namespace, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.key(ns, key), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Evict deletes a single key.
func (c *Cache) Evict(ctx context.Context, ns cache.Namespace, key string) error {
	if err := c.client.Del(ctx, c.key(ns, key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Clear removes every key of the namespace. Keys are discovered with SCAN so
// the server is never blocked by KEYS.
func (c *Cache) Clear(ctx context.Context, ns cache.Namespace) error {
	iter := c.client.Scan(ctx, 0, c.namespacePattern(ns), scanBatch).Iterator()

	batch := make([]string, 0, scanBatch)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := c.client.Unlink(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("redis unlink: %w", err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	if len(batch) > 0 {
		if err := c.client.Unlink(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("redis unlink: %w", err)
		}
	}
	return nil
}

func (c *Cache) key(ns cache.Namespace, key string) string {
	return fmt.Sprintf("%s:%s::%s", c.prefix, ns, key)
}

func (c *Cache) namespacePattern(ns cache.Namespace) string {
	return fmt.Sprintf("%s:%s::*", c.prefix, ns)
}
