package cache

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/pkg/metrics"
)

// Safe decorates a Cache so that backend failures never reach the caller.
// A failed Get is reported as a miss; failed writes and evictions are logged
// and reported as successful. Callers then fall through to the store.
type Safe struct {
	inner Cache
	log   zerolog.Logger
}

// NewSafe wraps inner. Wrapping an existing *Safe returns it unchanged.
func NewSafe(inner Cache, log zerolog.Logger) *Safe {
	if s, ok := inner.(*Safe); ok {
		return s
	}
	if inner == nil {
		inner = Noop{}
	}
	return &Safe{inner: inner, log: log}
}

func (s *Safe) Get(ctx context.Context, ns Namespace, key string) ([]byte, bool, error) {
	v, ok, err := s.inner.Get(ctx, ns, key)
	if err != nil {
		s.absorb(err, "get", ns, key)
		return nil, false, nil
	}
	return v, ok, nil
}

func (s *Safe) Put(ctx context.Context, ns Namespace, key string, value []byte, ttl time.Duration) error {
	if err := s.inner.Put(ctx, ns, key, value, ttl); err != nil {
		s.absorb(err, "put", ns, key)
	}
	return nil
}

func (s *Safe) Evict(ctx context.Context, ns Namespace, key string) error {
	if err := s.inner.Evict(ctx, ns, key); err != nil {
		s.absorb(err, "evict", ns, key)
	}
	return nil
}

func (s *Safe) Clear(ctx context.Context, ns Namespace) error {
	if err := s.inner.Clear(ctx, ns); err != nil {
		s.absorb(err, "clear", ns, "")
	}
	return nil
}

func (s *Safe) absorb(err error, op string, ns Namespace, key string) {
	metrics.CacheErrorsTotal.WithLabelValues(string(ns), op).Inc()
	s.log.Warn().
		Err(err).
		Str("op", op).
		Str("namespace", string(ns)).
		Str("key", key).
		Msg("cache unavailable, falling back to store")
}
