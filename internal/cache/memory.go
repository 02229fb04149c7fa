package cache

import (
	"context"
	"sync"
	"time"

	"github.com/viccon/sturdyc"
)

const (
	memoryCapacity        = 10000
	memoryShards          = 10
	memoryEvictionPercent = 10
)

// Memory is an in-process backend built on sturdyc. sturdyc fixes the TTL per
// client, so each namespace gets its own client created on first write.
// Missing-record storage stays disabled: nothing is stored for absent keys.
type Memory struct {
	mu       sync.RWMutex
	clients  map[Namespace]*sturdyc.Client[[]byte]
	capacity int
}

// NewMemory returns an empty in-process cache holding up to capacity entries
// per namespace. Non-positive capacities use a default.
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = memoryCapacity
	}
	return &Memory{clients: make(map[Namespace]*sturdyc.Client[[]byte]), capacity: capacity}
}

func (m *Memory) Get(_ context.Context, ns Namespace, key string) ([]byte, bool, error) {
	m.mu.RLock()
	c, ok := m.clients[ns]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	v, ok := c.Get(key)
	return v, ok, nil
}

func (m *Memory) Put(_ context.Context, ns Namespace, key string, value []byte, ttl time.Duration) error {
	m.client(ns, ttl).Set(key, value)
	return nil
}

func (m *Memory) Evict(_ context.Context, ns Namespace, key string) error {
	m.mu.RLock()
	c, ok := m.clients[ns]
	m.mu.RUnlock()
	if ok {
		c.Delete(key)
	}
	return nil
}

func (m *Memory) Clear(_ context.Context, ns Namespace) error {
	m.mu.RLock()
	c, ok := m.clients[ns]
	m.mu.RUnlock()
	if !ok {
		return nil
	}
	for _, key := range c.ScanKeys() {
		c.Delete(key)
	}
	return nil
}

func (m *Memory) client(ns Namespace, ttl time.Duration) *sturdyc.Client[[]byte] {
	m.mu.RLock()
	c, ok := m.clients[ns]
	m.mu.RUnlock()
	if ok {
		return c
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.clients[ns]; ok {
		return c
	}
	c = sturdyc.New[[]byte](m.capacity, memoryShards, ttl, memoryEvictionPercent)
	m.clients[ns] = c
	return c
}
