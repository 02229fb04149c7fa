package service

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/cache"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/domain"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/ports"
)

func TestPostService_OwnershipLifecycleAndRetention(t *testing.T) {
	f := newFixture(t, cache.NewMemory(0))
	alice := f.user(t, "alice", domain.RoleUser)
	bob := f.user(t, "bob", domain.RoleUser)
	admin := f.user(t, "admin", domain.RoleAdmin)

	p1, err := f.posts.Create(alice, ports.CreatePostInput{Title: "P1", Content: "first"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// warm the cache
	if got, err := f.posts.Get(context.Background(), p1.ID); err != nil || got.Title != "P1" {
		t.Fatalf("get: %v %+v", err, got)
	}

	if _, err := f.posts.Update(bob, p1.ID, ports.UpdatePostInput{Title: "hijack", Content: "x"}); !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied for bob, got %v", err)
	}
	stored, _ := f.store.Posts().FindByID(context.Background(), p1.ID)
	if stored.Title != "P1" {
		t.Fatalf("denied update must not mutate, got title %q", stored.Title)
	}

	if _, err := f.posts.Update(alice, p1.ID, ports.UpdatePostInput{Title: "P1 v2", Content: "second"}); err != nil {
		t.Fatalf("alice update: %v", err)
	}
	got, err := f.posts.Get(context.Background(), p1.ID)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got.Title != "P1 v2" {
		t.Fatalf("expected fresh read after update, got %q", got.Title)
	}

	if err := f.posts.SoftDelete(admin, p1.ID); err != nil {
		t.Fatalf("admin soft delete: %v", err)
	}
	if _, err := f.posts.Get(context.Background(), p1.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected soft-deleted post hidden, got %v", err)
	}

	f.clock.Advance(31 * 24 * time.Hour)
	res, err := f.retention.Run(context.Background())
	if err != nil {
		t.Fatalf("retention run: %v", err)
	}
	if res.PostsPurged != 1 {
		t.Fatalf("expected 1 post purged, got %d", res.PostsPurged)
	}

	_, err = f.posts.Restore(admin, p1.ID)
	var nf *domain.NotFoundError
	if !errors.As(err, &nf) || nf.ID != p1.ID {
		t.Fatalf("expected NotFoundError for purged post, got %v", err)
	}
}

func TestPostService_CreateRequiresAuthentication(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.posts.Create(context.Background(), ports.CreatePostInput{Title: "t", Content: "c"})
	assertErrorIs(t, err, domain.ErrAuthenticationRequired)
}

func TestPostService_CreateValidatesInput(t *testing.T) {
	f := newFixture(t, nil)
	alice := f.user(t, "alice", domain.RoleUser)

	_, err := f.posts.Create(alice, ports.CreatePostInput{Title: "  ", Content: "c"})
	assertErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPostService_SoftDeleteTwiceIsIllegalState(t *testing.T) {
	f := newFixture(t, nil)
	alice := f.user(t, "alice", domain.RoleUser)
	p, _ := f.posts.Create(alice, ports.CreatePostInput{Title: "t", Content: "c"})

	if err := f.posts.SoftDelete(alice, p.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	err := f.posts.SoftDelete(alice, p.ID)
	assertErrorIs(t, err, domain.ErrIllegalState)

	var se *domain.StateError
	if !errors.As(err, &se) || se.ID != p.ID {
		t.Fatalf("expected StateError for %s, got %v", p.ID, err)
	}
}

func TestPostService_RestoreActiveIsIllegalState(t *testing.T) {
	f := newFixture(t, nil)
	alice := f.user(t, "alice", domain.RoleUser)
	p, _ := f.posts.Create(alice, ports.CreatePostInput{Title: "t", Content: "c"})

	_, err := f.posts.Restore(alice, p.ID)
	assertErrorIs(t, err, domain.ErrIllegalState)
}

func TestPostService_RestoreClearsMarker(t *testing.T) {
	f := newFixture(t, nil)
	alice := f.user(t, "alice", domain.RoleUser)
	p, _ := f.posts.Create(alice, ports.CreatePostInput{Title: "t", Content: "c"})
	_ = f.posts.SoftDelete(alice, p.ID)

	restored, err := f.posts.Restore(alice, p.ID)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.IsDeleted() || restored.DeletedBy != "" {
		t.Fatalf("expected cleared marker, got %+v", restored.SoftDelete)
	}
	if _, err := f.posts.Get(context.Background(), p.ID); err != nil {
		t.Fatalf("restored post should be visible: %v", err)
	}
}

func TestPostService_OwnerCanRestoreOwnDeletedPost(t *testing.T) {
	f := newFixture(t, nil)
	alice := f.user(t, "alice", domain.RoleUser)
	bob := f.user(t, "bob", domain.RoleUser)
	p, _ := f.posts.Create(alice, ports.CreatePostInput{Title: "t", Content: "c"})
	_ = f.posts.SoftDelete(alice, p.ID)

	if _, err := f.posts.Restore(bob, p.ID); !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied for bob, got %v", err)
	}
	if _, err := f.posts.Restore(alice, p.ID); err != nil {
		t.Fatalf("owner restore: %v", err)
	}
}

func TestPostService_HardDeleteAdminOnly(t *testing.T) {
	f := newFixture(t, nil)
	alice := f.user(t, "alice", domain.RoleUser)
	admin := f.user(t, "admin", domain.RoleAdmin)
	p, _ := f.posts.Create(alice, ports.CreatePostInput{Title: "t", Content: "c"})
	c, _ := f.comments.Create(alice, p.ID, "hello")

	assertErrorIs(t, f.posts.HardDelete(alice, p.ID), domain.ErrAccessDenied)

	if err := f.posts.HardDelete(admin, p.ID); err != nil {
		t.Fatalf("hard delete: %v", err)
	}
	if _, err := f.store.Posts().FindByIDIncludingDeleted(context.Background(), p.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected post removed, got %v", err)
	}
	if _, err := f.store.Comments().FindByIDIncludingDeleted(context.Background(), c.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected comment removed with post, got %v", err)
	}
}

func TestPostService_ListDeletedScopedToCaller(t *testing.T) {
	f := newFixture(t, nil)
	alice := f.user(t, "alice", domain.RoleUser)
	bob := f.user(t, "bob", domain.RoleUser)
	admin := f.user(t, "admin", domain.RoleAdmin)

	pa, _ := f.posts.Create(alice, ports.CreatePostInput{Title: "a", Content: "c"})
	pb, _ := f.posts.Create(bob, ports.CreatePostInput{Title: "b", Content: "c"})
	_ = f.posts.SoftDelete(alice, pa.ID)
	_ = f.posts.SoftDelete(bob, pb.ID)

	page, err := f.posts.ListDeleted(alice, firstPage())
	if err != nil {
		t.Fatalf("list deleted: %v", err)
	}
	if page.Total != 1 || page.Items[0].ID != pa.ID {
		t.Fatalf("alice should only see her post, got %+v", page)
	}

	page, err = f.posts.ListDeleted(admin, firstPage())
	if err != nil {
		t.Fatalf("list deleted: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("admin should see both posts, got %d", page.Total)
	}

	_, err = f.posts.ListDeleted(context.Background(), firstPage())
	assertErrorIs(t, err, domain.ErrAuthenticationRequired)
}

func TestPostService_ListingEvictedOnCreate(t *testing.T) {
	f := newFixture(t, cache.NewMemory(0))
	alice := f.user(t, "alice", domain.RoleUser)

	page, err := f.posts.List(context.Background(), firstPage())
	if err != nil || page.Total != 0 {
		t.Fatalf("expected empty listing, got %v %+v", err, page)
	}
	if _, err := f.posts.Create(alice, ports.CreatePostInput{Title: "t", Content: "c"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	page, err = f.posts.List(context.Background(), firstPage())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("expected listing refreshed after create, got total %d", page.Total)
	}
}

func TestPostService_SearchAndRecent(t *testing.T) {
	f := newFixture(t, nil)
	alice := f.user(t, "alice", domain.RoleUser)

	_, _ = f.posts.Create(alice, ports.CreatePostInput{Title: "Old golang notes", Content: "c"})
	f.clock.Advance(10 * 24 * time.Hour)
	_, _ = f.posts.Create(alice, ports.CreatePostInput{Title: "Fresh", Content: "about GoLang"})

	page, err := f.posts.Search(context.Background(), "golang", firstPage())
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("expected 2 matches, got %d", page.Total)
	}

	page, err = f.posts.Recent(context.Background(), 7, firstPage())
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if page.Total != 1 || page.Items[0].Title != "Fresh" {
		t.Fatalf("expected only the fresh post, got %+v", page.Items)
	}

	_, err = f.posts.Recent(context.Background(), 0, firstPage())
	assertErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPostService_ListByAuthorUnknownUser(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.posts.ListByAuthor(context.Background(), "ghost", firstPage())
	assertErrorIs(t, err, domain.ErrNotFound)
}

func TestPostService_CacheOutageDegradesGracefully(t *testing.T) {
	f := newFixture(t, failingCache{})
	alice := f.user(t, "alice", domain.RoleUser)

	p, err := f.posts.Create(alice, ports.CreatePostInput{Title: "t", Content: "c"})
	if err != nil {
		t.Fatalf("create with cache down: %v", err)
	}
	if _, err := f.posts.Get(context.Background(), p.ID); err != nil {
		t.Fatalf("get with cache down: %v", err)
	}
	if _, err := f.posts.Update(alice, p.ID, ports.UpdatePostInput{Title: "t2", Content: "c"}); err != nil {
		t.Fatalf("update with cache down: %v", err)
	}
	if err := f.posts.SoftDelete(alice, p.ID); err != nil {
		t.Fatalf("delete with cache down: %v", err)
	}
}

func TestPostService_UpdateClearsPostNamespaces(t *testing.T) {
	backend := cache.NewMemory(0)
	f := newFixture(t, backend)
	alice := f.user(t, "alice", domain.RoleUser)
	ctx := context.Background()

	p1, _ := f.posts.Create(alice, ports.CreatePostInput{Title: "one", Content: "c"})
	p2, _ := f.posts.Create(alice, ports.CreatePostInput{Title: "two", Content: "c"})
	for _, id := range []string{p1.ID, p2.ID} {
		if _, err := f.posts.Get(ctx, id); err != nil {
			t.Fatalf("warm %s: %v", id, err)
		}
	}
	if _, err := f.posts.List(ctx, domain.PageRequest{Size: 10}); err != nil {
		t.Fatalf("warm listing: %v", err)
	}

	if _, err := f.posts.Update(alice, p1.ID, ports.UpdatePostInput{Title: "one v2", Content: "c"}); err != nil {
		t.Fatalf("update: %v", err)
	}

	for _, id := range []string{p1.ID, p2.ID} {
		if _, ok, _ := backend.Get(ctx, cache.NamespacePosts, id); ok {
			t.Fatalf("posts entry %s survived the update", id)
		}
	}
	page, err := f.posts.List(ctx, domain.PageRequest{Size: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var titles []string
	for _, p := range page.Items {
		titles = append(titles, p.Title)
	}
	if !slices.Contains(titles, "one v2") {
		t.Fatalf("listing served stale data after update: %v", titles)
	}
}
