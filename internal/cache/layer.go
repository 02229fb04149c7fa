package cache

import (
	"context"
	"reflect"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/pkg/metrics"
)

// Layer is the cache-aside entry point used by services. It owns the TTL
// policy and the value codec, and only ever talks to a Safe backend.
type Layer struct {
	cache *Safe
	ttls  TTLs
	log   zerolog.Logger
}

// NewLayer wraps backend in a Safe decorator. A nil backend disables caching.
func NewLayer(backend Cache, ttls TTLs, log zerolog.Logger) *Layer {
	return &Layer{cache: NewSafe(backend, log), ttls: ttls, log: log}
}

// Disabled returns a Layer whose lookups always miss.
func Disabled() *Layer {
	return NewLayer(Noop{}, DefaultTTLs(), zerolog.Nop())
}

// GetOrLoad returns the cached value for (ns, key) or calls load on a miss.
// A loaded value is cached with the namespace TTL unless load failed or the
// value is absent (nil pointer, map, slice or interface). Not-found results
// are therefore never cached.
func GetOrLoad[T any](ctx context.Context, l *Layer, ns Namespace, key string, load func(context.Context) (T, error)) (T, error) {
	if raw, ok, _ := l.cache.Get(ctx, ns, key); ok {
		var v T
		err := msgpack.Unmarshal(raw, &v)
		if err == nil {
			toUTC(reflect.ValueOf(&v).Elem())
			metrics.CacheOperationsTotal.WithLabelValues(string(ns), "get", "hit").Inc()
			l.log.Debug().Str("namespace", string(ns)).Str("key", key).Msg("cache hit")
			return v, nil
		}
		l.log.Warn().Err(err).Str("namespace", string(ns)).Str("key", key).Msg("discarding undecodable cache entry")
		l.Evict(ctx, ns, key)
	}
	metrics.CacheOperationsTotal.WithLabelValues(string(ns), "get", "miss").Inc()

	v, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if absent(v) {
		return v, nil
	}

	raw, err := msgpack.Marshal(v)
	if err != nil {
		l.log.Warn().Err(err).Str("namespace", string(ns)).Str("key", key).Msg("skipping cache write, value not encodable")
		return v, nil
	}
	_ = l.cache.Put(ctx, ns, key, raw, l.ttls.For(ns))
	return v, nil
}

// EvictAll clears every listed namespace. Services call it after a store
// mutation has committed.
func (l *Layer) EvictAll(ctx context.Context, namespaces ...Namespace) {
	for _, ns := range namespaces {
		_ = l.cache.Clear(ctx, ns)
	}
}

// Evict removes a single entry.
func (l *Layer) Evict(ctx context.Context, ns Namespace, key string) {
	_ = l.cache.Evict(ctx, ns, key)
}

func absent(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

var timeType = reflect.TypeOf(time.Time{})

// toUTC rewrites every settable time.Time reachable from v to UTC. msgpack
// decodes timestamps in the local zone while the stores return UTC.
func toUTC(v reflect.Value) {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if !v.IsNil() {
			toUTC(v.Elem())
		}
	case reflect.Struct:
		if v.Type() == timeType {
			if v.CanSet() {
				v.Set(reflect.ValueOf(v.Interface().(time.Time).UTC()))
			}
			return
		}
		for i := range v.NumField() {
			toUTC(v.Field(i))
		}
	case reflect.Slice, reflect.Array:
		for i := range v.Len() {
			toUTC(v.Index(i))
		}
	}
}
