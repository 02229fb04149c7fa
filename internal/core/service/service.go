// Package service implements the use cases behind the HTTP handlers. Every
// mutating operation runs its authorization guard first, then the store
// mutation, then evicts the cache namespaces that may hold stale reads.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/cache"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/domain"
)

// Option customises a service.
type Option func(*clock)

// WithClock replaces time.Now as the source of audit and retention
// timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *clock) { c.now = now }
}

type clock struct {
	now func() time.Time
}

func newClock(opts []Option) clock {
	c := clock{now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

var (
	postSortFields    = []string{"createdAt", "updatedAt", "title", "id"}
	commentSortFields = []string{"createdAt", "updatedAt", "id"}
	userSortFields    = []string{"createdAt", "username", "id"}
)

// listKey renders a cache key for a listing query.
func listKey(kind string, page domain.PageRequest, params ...string) string {
	return fmt.Sprintf("%s|%s|%s", kind, strings.Join(params, "|"), page.Key())
}

// cachedPage reads a page through the cache layer.
func cachedPage[T any](
	ctx context.Context,
	layer *cache.Layer,
	ns cache.Namespace,
	key string,
	page domain.PageRequest,
	list func(context.Context) ([]T, int64, error),
) (domain.Page[T], error) {
	return cache.GetOrLoad(ctx, layer, ns, key, func(ctx context.Context) (domain.Page[T], error) {
		items, total, err := list(ctx)
		if err != nil {
			return domain.Page[T]{}, err
		}
		return domain.NewPage(items, page, total), nil
	})
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, field)
	}
	return nil
}
