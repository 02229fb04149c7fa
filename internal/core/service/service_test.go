package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/cache"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/domain"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/infrastructure/db/memory"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/security"
)

// --- fixtures ---

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fixture struct {
	store     *memory.Store
	clock     *fakeClock
	layer     *cache.Layer
	authz     *security.Authorizer
	users     *UserService
	posts     *PostService
	comments  *CommentService
	retention *RetentionService
}

func newFixture(t *testing.T, backend cache.Cache) *fixture {
	t.Helper()
	store := memory.NewStore()
	clk := newFakeClock()
	log := zerolog.Nop()
	layer := cache.NewLayer(backend, cache.DefaultTTLs(), log)
	authz := security.NewAuthorizer(store.Posts(), store.Comments(), log)
	opt := WithClock(clk.Now)

	return &fixture{
		store:     store,
		clock:     clk,
		layer:     layer,
		authz:     authz,
		users:     NewUserService(store.Users(), layer, authz, log, opt),
		posts:     NewPostService(store.Posts(), store.Users(), layer, authz, log, opt),
		comments:  NewCommentService(store.Comments(), store.Posts(), store.Users(), layer, authz, log, opt),
		retention: NewRetentionService(store.Retention(), 30, layer, log, opt),
	}
}

func (f *fixture) user(t *testing.T, username, role string) context.Context {
	t.Helper()
	u, err := f.users.CreateWithRole(context.Background(), username, "password1", role)
	if err != nil {
		t.Fatalf("create %s: %v", username, err)
	}
	return security.WithPrincipal(context.Background(), security.PrincipalFromUser(u))
}

// failingCache errors on every call.
type failingCache struct{}

var errCacheDown = errors.New("connection refused")

func (failingCache) Get(context.Context, cache.Namespace, string) ([]byte, bool, error) {
	return nil, false, errCacheDown
}
func (failingCache) Put(context.Context, cache.Namespace, string, []byte, time.Duration) error {
	return errCacheDown
}
func (failingCache) Evict(context.Context, cache.Namespace, string) error { return errCacheDown }
func (failingCache) Clear(context.Context, cache.Namespace) error         { return errCacheDown }

func assertErrorIs(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("expected %v, got %v", target, err)
	}
}

func firstPage() domain.PageRequest {
	return domain.PageRequest{Page: 0, Size: 10}
}
