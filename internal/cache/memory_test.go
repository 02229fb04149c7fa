package cache

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestMemory_PutGetEvict(t *testing.T) {
	m := NewMemory(0)
	ctx := context.Background()

	if _, ok, _ := m.Get(ctx, NamespacePosts, "k"); ok {
		t.Fatalf("expected miss on empty cache")
	}
	_ = m.Put(ctx, NamespacePosts, "k", []byte("v"), time.Minute)
	if v, ok, _ := m.Get(ctx, NamespacePosts, "k"); !ok || string(v) != "v" {
		t.Fatalf("expected hit, got %q %v", v, ok)
	}
	if _, ok, _ := m.Get(ctx, NamespaceUsers, "k"); ok {
		t.Fatalf("namespaces must be isolated")
	}

	_ = m.Evict(ctx, NamespacePosts, "k")
	if _, ok, _ := m.Get(ctx, NamespacePosts, "k"); ok {
		t.Fatalf("expected miss after evict")
	}
}

func TestMemory_ClearNamespace(t *testing.T) {
	m := NewMemory(0)
	ctx := context.Background()

	for i := range 5 {
		_ = m.Put(ctx, NamespaceSearch, fmt.Sprintf("q%d", i), []byte("r"), time.Minute)
	}
	_ = m.Put(ctx, NamespacePosts, "p", []byte("v"), time.Minute)

	_ = m.Clear(ctx, NamespaceSearch)
	for i := range 5 {
		if _, ok, _ := m.Get(ctx, NamespaceSearch, fmt.Sprintf("q%d", i)); ok {
			t.Fatalf("q%d survived clear", i)
		}
	}
	if _, ok, _ := m.Get(ctx, NamespacePosts, "p"); !ok {
		t.Fatalf("clear removed another namespace")
	}
	if err := m.Clear(ctx, NamespaceComments); err != nil {
		t.Fatalf("clearing an unused namespace failed: %v", err)
	}
}
