package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/cache"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/domain"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/ports"
)

type failingRetentionStore struct {
	ports.PurgeCounts
	purgeErr error
}

func (s *failingRetentionStore) CountPurgeable(context.Context, time.Time) (ports.PurgeCounts, error) {
	return s.PurgeCounts, nil
}

func (s *failingRetentionStore) Purge(context.Context, time.Time) (ports.PurgeCounts, error) {
	return ports.PurgeCounts{}, s.purgeErr
}

func TestRetentionService_PurgesOnlyPastThreshold(t *testing.T) {
	f := newFixture(t, nil)
	alice := f.user(t, "alice", domain.RoleUser)

	old, _ := f.posts.Create(alice, ports.CreatePostInput{Title: "old", Content: "c"})
	_ = f.posts.SoftDelete(alice, old.ID)
	f.clock.Advance(25 * 24 * time.Hour)
	recent, _ := f.posts.Create(alice, ports.CreatePostInput{Title: "recent", Content: "c"})
	_ = f.posts.SoftDelete(alice, recent.ID)
	active, _ := f.posts.Create(alice, ports.CreatePostInput{Title: "active", Content: "c"})
	f.clock.Advance(6 * 24 * time.Hour)

	res, err := f.retention.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.PostsPurged != 1 {
		t.Fatalf("expected 1 purged, got %d", res.PostsPurged)
	}
	if want := f.clock.Now().AddDate(0, 0, -30); !res.Threshold.Equal(want) {
		t.Fatalf("expected threshold %v, got %v", want, res.Threshold)
	}
	for _, id := range []string{recent.ID, active.ID} {
		if _, err := f.store.Posts().FindByIDIncludingDeleted(context.Background(), id); err != nil {
			t.Fatalf("post %s should survive: %v", id, err)
		}
	}

	again, err := f.retention.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if again.PostsPurged != 0 || again.CommentsPurged != 0 {
		t.Fatalf("second run should purge nothing, got %+v", again)
	}
}

func TestRetentionService_PurgesCommentsOfPurgedPosts(t *testing.T) {
	f := newFixture(t, nil)
	alice := f.user(t, "alice", domain.RoleUser)
	p, _ := f.posts.Create(alice, ports.CreatePostInput{Title: "t", Content: "c"})
	c, _ := f.comments.Create(alice, p.ID, "active comment")
	_ = f.posts.SoftDelete(alice, p.ID)
	f.clock.Advance(31 * 24 * time.Hour)

	stats, err := f.retention.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.PostsToDelete != 1 || stats.CommentsToDelete != 1 {
		t.Fatalf("stats must count comments of expired posts, got %+v", stats)
	}

	res, err := f.retention.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.PostsPurged != 1 || res.CommentsPurged != 1 {
		t.Fatalf("expected post and its comment purged, got %+v", res)
	}
	if _, err := f.store.Comments().FindByIDIncludingDeleted(context.Background(), c.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected comment gone, got %v", err)
	}
}

func TestRetentionService_CustomRetention(t *testing.T) {
	f := newFixture(t, nil)
	alice := f.user(t, "alice", domain.RoleUser)
	p, _ := f.posts.Create(alice, ports.CreatePostInput{Title: "t", Content: "c"})
	_ = f.posts.SoftDelete(alice, p.ID)
	f.clock.Advance(8 * 24 * time.Hour)

	res, err := f.retention.RunWithRetention(context.Background(), 7)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.PostsPurged != 1 || res.RetentionDays != 7 {
		t.Fatalf("unexpected result %+v", res)
	}

	_, err = f.retention.RunWithRetention(context.Background(), 0)
	assertErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRetentionService_StatsIsReadOnly(t *testing.T) {
	f := newFixture(t, nil)
	alice := f.user(t, "alice", domain.RoleUser)
	p, _ := f.posts.Create(alice, ports.CreatePostInput{Title: "t", Content: "c"})
	_ = f.posts.SoftDelete(alice, p.ID)
	f.clock.Advance(31 * 24 * time.Hour)

	for i := 0; i < 2; i++ {
		stats, err := f.retention.Stats(context.Background())
		if err != nil {
			t.Fatalf("stats: %v", err)
		}
		if stats.PostsToDelete != 1 || stats.RetentionDays != 30 {
			t.Fatalf("unexpected stats %+v", stats)
		}
	}
	if _, err := f.store.Posts().FindByIDIncludingDeleted(context.Background(), p.ID); err != nil {
		t.Fatalf("stats must not purge: %v", err)
	}
}

func TestRetentionService_FailureReturnsError(t *testing.T) {
	store := &failingRetentionStore{purgeErr: errors.New("tx aborted")}
	svc := NewRetentionService(store, 30, cache.Disabled(), zerolog.Nop())

	if _, err := svc.Run(context.Background()); err == nil {
		t.Fatal("expected error, got nil")
	}
}
