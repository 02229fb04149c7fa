// Package cache implements the cache-aside layer: a small backend interface,
// a decorator that absorbs backend failures, and typed read-through helpers
// with namespace-wide invalidation.
package cache

import (
	"context"
	"time"
)

// Namespace groups entries that are invalidated together.
type Namespace string

const (
	NamespacePosts    Namespace = "posts"
	NamespaceUsers    Namespace = "users"
	NamespaceComments Namespace = "comments"
	NamespaceSearch   Namespace = "searchResults"
)

// Cache is a namespaced key/value store with per-entry TTL.
//
// Get reports a miss with ok=false and a nil error. Backends return errors
// as-is; the Safe decorator decides what to do with them.
type Cache interface {
	Get(ctx context.Context, ns Namespace, key string) (value []byte, ok bool, err error)
	Put(ctx context.Context, ns Namespace, key string, value []byte, ttl time.Duration) error
	Evict(ctx context.Context, ns Namespace, key string) error
	Clear(ctx context.Context, ns Namespace) error
}

// TTLs holds the expiry applied to each namespace.
type TTLs struct {
	Posts    time.Duration
	Users    time.Duration
	Comments time.Duration
	Search   time.Duration
	Default  time.Duration
}

// DefaultTTLs mirrors the expected mutation frequency of each namespace.
func DefaultTTLs() TTLs {
	return TTLs{
		Posts:    10 * time.Minute,
		Users:    30 * time.Minute,
		Comments: 5 * time.Minute,
		Search:   2 * time.Minute,
		Default:  10 * time.Minute,
	}
}

// For returns the TTL for ns, falling back to Default.
func (t TTLs) For(ns Namespace) time.Duration {
	var ttl time.Duration
	switch ns {
	case NamespacePosts:
		ttl = t.Posts
	case NamespaceUsers:
		ttl = t.Users
	case NamespaceComments:
		ttl = t.Comments
	case NamespaceSearch:
		ttl = t.Search
	}
	if ttl <= 0 {
		ttl = t.Default
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return ttl
}

// Noop is the backend used when caching is disabled. Every lookup misses.
type Noop struct{}

func (Noop) Get(context.Context, Namespace, string) ([]byte, bool, error) { return nil, false, nil }
func (Noop) Put(context.Context, Namespace, string, []byte, time.Duration) error {
	return nil
}
func (Noop) Evict(context.Context, Namespace, string) error { return nil }
func (Noop) Clear(context.Context, Namespace) error         { return nil }
