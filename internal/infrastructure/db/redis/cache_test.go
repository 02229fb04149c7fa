package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/cache"
)

var _ cache.Cache = (*Cache)(nil)

// unreachable returns a client pointed at a port nothing listens on.
func unreachable(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestCache_KeyLayout(t *testing.T) {
	c := NewCache(unreachable(t), "")
	if got := c.key(cache.NamespacePosts, "42"); got != "cms:posts::42" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := c.namespacePattern(cache.NamespaceSearch); got != "cms:searchResults::*" {
		t.Fatalf("unexpected pattern %q", got)
	}

	custom := NewCache(unreachable(t), "blog")
	if got := custom.key(cache.NamespaceUsers, "id:1"); got != "blog:users::id:1" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestCache_ErrorsSurfaceWhenServerDown(t *testing.T) {
	c := NewCache(unreachable(t), "")
	ctx := context.Background()

	if _, ok, err := c.Get(ctx, cache.NamespacePosts, "1"); err == nil || ok {
		t.Fatalf("expected get error, got ok=%v err=%v", ok, err)
	}
	if err := c.Put(ctx, cache.NamespacePosts, "1", []byte("x"), time.Minute); err == nil {
		t.Fatalf("expected put error")
	}
	if err := c.Evict(ctx, cache.NamespacePosts, "1"); err == nil {
		t.Fatalf("expected evict error")
	}
	if err := c.Clear(ctx, cache.NamespacePosts); err == nil {
		t.Fatalf("expected clear error")
	}
}

func TestPing_ReportsUnreachableServer(t *testing.T) {
	client := NewClient(Config{Addr: "127.0.0.1:1", Timeout: 200 * time.Millisecond})
	t.Cleanup(func() { _ = client.Close() })

	if err := Ping(context.Background(), client); err == nil {
		t.Fatalf("expected ping failure")
	}
	if got := client.Options().DialTimeout; got != 200*time.Millisecond {
		t.Fatalf("timeout not applied, got %s", got)
	}
}
