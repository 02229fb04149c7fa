// Package memory provides in-process repositories. They back the "memory"
// store driver for local development and the service tests.
package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/domain"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/ports"
)

// Store holds users, posts and comments behind a single lock so retention
// purges are atomic.
type Store struct {
	mu sync.RWMutex

	users    map[string]domain.User
	posts    map[string]domain.Post
	comments map[string]domain.Comment
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]domain.User),
		posts:    make(map[string]domain.Post),
		comments: make(map[string]domain.Comment),
	}
}

// Users returns the user repository view of the store.
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// Posts returns the post repository view of the store.
func (s *Store) Posts() *PostRepository { return &PostRepository{s: s} }

// Comments returns the comment repository view of the store.
func (s *Store) Comments() *CommentRepository { return &CommentRepository{s: s} }

// Retention returns the retention view of the store.
func (s *Store) Retention() *RetentionRepository { return &RetentionRepository{s: s} }

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// --- Users ---

type UserRepository struct{ s *Store }

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Username, user.Username) {
			return nil, domain.ErrUserExists
		}
	}
	u := *user
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	r.s.users[u.ID] = u
	return &u, nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.NotFound(domain.KindUser, id)
	}
	return &u, nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Username, username) {
			return &u, nil
		}
	}
	return nil, domain.NotFound(domain.KindUser, username)
}

func (r *UserRepository) List(_ context.Context, filter ports.UserFilter, page domain.PageRequest) ([]*domain.User, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*domain.User
	for _, u := range r.s.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.Keyword != "" && !containsFold(u.Username, filter.Keyword) {
			continue
		}
		out = append(out, &u)
	}
	sortBy(out, page, func(u *domain.User) audited { return audited{id: u.ID, name: u.Username, audit: u.Audit} })
	return paginate(out, page), int64(len(out)), nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return domain.NotFound(domain.KindUser, id)
	}
	delete(r.s.users, id)
	return nil
}

// --- Posts ---

type PostRepository struct{ s *Store }

func (r *PostRepository) Create(_ context.Context, post *domain.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	r.s.posts[post.ID] = *post
	return nil
}

func (r *PostRepository) Update(_ context.Context, post *domain.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[post.ID]; !ok {
		return domain.NotFound(domain.KindPost, post.ID)
	}
	r.s.posts[post.ID] = *post
	return nil
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	p, err := r.FindByIDIncludingDeleted(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.IsDeleted() {
		return nil, domain.NotFound(domain.KindPost, id)
	}
	return p, nil
}

func (r *PostRepository) FindByIDIncludingDeleted(_ context.Context, id string) (*domain.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.posts[id]
	if !ok {
		return nil, domain.NotFound(domain.KindPost, id)
	}
	return &p, nil
}

func (r *PostRepository) List(_ context.Context, filter ports.PostFilter, page domain.PageRequest) ([]*domain.Post, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*domain.Post
	for _, p := range r.s.posts {
		if p.IsDeleted() != filter.OnlyDeleted {
			continue
		}
		if filter.AuthorID != "" && p.AuthorID != filter.AuthorID {
			continue
		}
		if !filter.CreatedSince.IsZero() && p.CreatedAt.Before(filter.CreatedSince) {
			continue
		}
		if filter.Keyword != "" && !containsFold(p.Title, filter.Keyword) && !containsFold(p.Content, filter.Keyword) {
			continue
		}
		out = append(out, &p)
	}
	sortBy(out, page, func(p *domain.Post) audited { return audited{id: p.ID, name: p.Title, audit: p.Audit} })
	return paginate(out, page), int64(len(out)), nil
}

func (r *PostRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[id]; !ok {
		return domain.NotFound(domain.KindPost, id)
	}
	delete(r.s.posts, id)
	for cid, c := range r.s.comments {
		if c.PostID == id {
			delete(r.s.comments, cid)
		}
	}
	return nil
}

// --- Comments ---

type CommentRepository struct{ s *Store }

func (r *CommentRepository) Create(_ context.Context, comment *domain.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	r.s.comments[comment.ID] = *comment
	return nil
}

func (r *CommentRepository) Update(_ context.Context, comment *domain.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.comments[comment.ID]; !ok {
		return domain.NotFound(domain.KindComment, comment.ID)
	}
	r.s.comments[comment.ID] = *comment
	return nil
}

func (r *CommentRepository) FindByID(ctx context.Context, id string) (*domain.Comment, error) {
	c, err := r.FindByIDIncludingDeleted(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.IsDeleted() {
		return nil, domain.NotFound(domain.KindComment, id)
	}
	return c, nil
}

func (r *CommentRepository) FindByIDIncludingDeleted(_ context.Context, id string) (*domain.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.comments[id]
	if !ok {
		return nil, domain.NotFound(domain.KindComment, id)
	}
	return &c, nil
}

func (r *CommentRepository) List(_ context.Context, filter ports.CommentFilter, page domain.PageRequest) ([]*domain.Comment, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*domain.Comment
	for _, c := range r.s.comments {
		if c.IsDeleted() {
			continue
		}
		if filter.PostID != "" && c.PostID != filter.PostID {
			continue
		}
		if filter.AuthorID != "" && c.AuthorID != filter.AuthorID {
			continue
		}
		if filter.Keyword != "" && !containsFold(c.Body, filter.Keyword) {
			continue
		}
		out = append(out, &c)
	}
	sortBy(out, page, func(c *domain.Comment) audited { return audited{id: c.ID, name: c.Body, audit: c.Audit} })
	return paginate(out, page), int64(len(out)), nil
}

// --- Retention ---

type RetentionRepository struct{ s *Store }

func (r *RetentionRepository) CountPurgeable(_ context.Context, threshold time.Time) (ports.PurgeCounts, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var counts ports.PurgeCounts
	expired := make(map[string]struct{})
	for id, p := range r.s.posts {
		if p.PurgeableBefore(threshold) {
			expired[id] = struct{}{}
			counts.Posts++
		}
	}
	for _, c := range r.s.comments {
		_, orphaned := expired[c.PostID]
		if orphaned || c.PurgeableBefore(threshold) {
			counts.Comments++
		}
	}
	return counts, nil
}

func (r *RetentionRepository) Purge(_ context.Context, threshold time.Time) (ports.PurgeCounts, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var counts ports.PurgeCounts
	purged := make(map[string]struct{})
	for id, p := range r.s.posts {
		if p.PurgeableBefore(threshold) {
			purged[id] = struct{}{}
			delete(r.s.posts, id)
			counts.Posts++
		}
	}
	for id, c := range r.s.comments {
		_, orphaned := purged[c.PostID]
		if orphaned || c.PurgeableBefore(threshold) {
			delete(r.s.comments, id)
			counts.Comments++
		}
	}
	return counts, nil
}

// --- helpers ---

type audited struct {
	id    string
	name  string
	audit domain.Audit
}

func sortBy[T any](items []T, page domain.PageRequest, key func(T) audited) {
	slices.SortStableFunc(items, func(a, b T) int {
		ka, kb := key(a), key(b)
		var c int
		switch page.SortBy {
		case "title", "username", "body":
			c = cmp.Compare(strings.ToLower(ka.name), strings.ToLower(kb.name))
		case "updatedAt":
			c = ka.audit.UpdatedAt.Compare(kb.audit.UpdatedAt)
		case "id":
			c = cmp.Compare(ka.id, kb.id)
		default:
			c = ka.audit.CreatedAt.Compare(kb.audit.CreatedAt)
		}
		if c == 0 {
			c = cmp.Compare(ka.id, kb.id)
		}
		if page.Desc {
			return -c
		}
		return c
	})
}

func paginate[T any](items []T, page domain.PageRequest) []T {
	if page.Size <= 0 {
		return items
	}
	start := page.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := min(start+page.Size, len(items))
	return items[start:end]
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
