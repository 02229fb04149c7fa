package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/cache"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/domain"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/ports"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/pkg/metrics"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/security"
)

// PostService implements post authoring and the post soft-delete lifecycle.
type PostService struct {
	repo   ports.PostRepository
	users  ports.UserRepository
	cache  *cache.Layer
	authz  *security.Authorizer
	logger zerolog.Logger
	clock
}

func NewPostService(
	repo ports.PostRepository,
	users ports.UserRepository,
	layer *cache.Layer,
	authz *security.Authorizer,
	logger zerolog.Logger,
	opts ...Option,
) *PostService {
	return &PostService{repo: repo, users: users, cache: layer, authz: authz, logger: logger, clock: newClock(opts)}
}

// evictReads drops every namespace that may hold a stale post read.
func (s *PostService) evictReads(ctx context.Context) {
	s.cache.EvictAll(ctx, cache.NamespacePosts, cache.NamespaceSearch)
}

// Create stores a new post authored by the caller.
func (s *PostService) Create(ctx context.Context, input ports.CreatePostInput) (*domain.Post, error) {
	p, err := s.authz.RequireAuthenticated(ctx)
	if err != nil {
		return nil, err
	}
	if err := required("title", input.Title); err != nil {
		return nil, err
	}
	if err := required("content", input.Content); err != nil {
		return nil, err
	}

	post := &domain.Post{
		Title:          strings.TrimSpace(input.Title),
		Content:        input.Content,
		AuthorID:       p.UserID,
		AuthorUsername: p.Username,
	}
	post.Stamp(p.Username, s.now())

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}
	s.evictReads(ctx)
	metrics.PostsCreatedTotal.Inc()
	s.logger.Info().Str("post_id", post.ID).Str("author", p.Username).Msg("post created")
	return post, nil
}

// Get returns an active post.
func (s *PostService) Get(ctx context.Context, id string) (*domain.Post, error) {
	return cache.GetOrLoad(ctx, s.cache, cache.NamespacePosts, id, func(ctx context.Context) (*domain.Post, error) {
		return s.repo.FindByID(ctx, id)
	})
}

func (s *PostService) List(ctx context.Context, page domain.PageRequest) (domain.Page[*domain.Post], error) {
	page = page.Normalize(postSortFields, "createdAt")
	return s.listCached(ctx, listKey("all", page), ports.PostFilter{}, page)
}

func (s *PostService) Search(ctx context.Context, keyword string, page domain.PageRequest) (domain.Page[*domain.Post], error) {
	keyword = strings.TrimSpace(keyword)
	if err := required("keyword", keyword); err != nil {
		return domain.Page[*domain.Post]{}, err
	}
	page = page.Normalize(postSortFields, "createdAt")
	return s.listCached(ctx, listKey("search", page, strings.ToLower(keyword)), ports.PostFilter{Keyword: keyword}, page)
}

// ListByAuthor lists the active posts of an existing user.
func (s *PostService) ListByAuthor(ctx context.Context, userID string, page domain.PageRequest) (domain.Page[*domain.Post], error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return domain.Page[*domain.Post]{}, err
	}
	page = page.Normalize(postSortFields, "createdAt")
	return s.listCached(ctx, listKey("author", page, userID), ports.PostFilter{AuthorID: userID}, page)
}

// Recent lists posts created within the last days days.
func (s *PostService) Recent(ctx context.Context, days int, page domain.PageRequest) (domain.Page[*domain.Post], error) {
	if days < 1 {
		return domain.Page[*domain.Post]{}, fmt.Errorf("%w: days must be at least 1", domain.ErrInvalidInput)
	}
	since := s.now().AddDate(0, 0, -days)
	page = page.Normalize(postSortFields, "createdAt")
	// Keyed by day count only; the search TTL bounds how far the window drifts.
	return s.listCached(ctx, listKey("recent", page, strconv.Itoa(days)), ports.PostFilter{CreatedSince: since}, page)
}

func (s *PostService) listCached(ctx context.Context, key string, filter ports.PostFilter, page domain.PageRequest) (domain.Page[*domain.Post], error) {
	return cachedPage(ctx, s.cache, cache.NamespaceSearch, key, page, func(ctx context.Context) ([]*domain.Post, int64, error) {
		return s.repo.List(ctx, filter, page)
	})
}

// Update edits an active post. Owner or admin only.
func (s *PostService) Update(ctx context.Context, id string, input ports.UpdatePostInput) (*domain.Post, error) {
	if err := s.authz.RequireOwnerOrAdmin(ctx, domain.KindPost, id); err != nil {
		return nil, err
	}
	if err := required("title", input.Title); err != nil {
		return nil, err
	}
	if err := required("content", input.Content); err != nil {
		return nil, err
	}
	actor, _ := security.PrincipalFrom(ctx)

	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	post.Title = strings.TrimSpace(input.Title)
	post.Content = input.Content
	post.Touch(actor.Username, s.now())

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, err
	}
	s.evictReads(ctx)
	s.logger.Info().Str("post_id", id).Str("actor", actor.Username).Msg("post updated")
	return post, nil
}

// SoftDelete marks a post deleted. Owner or admin only.
func (s *PostService) SoftDelete(ctx context.Context, id string) error {
	if err := s.authz.RequireOwnerOrAdmin(ctx, domain.KindPost, id); err != nil {
		return err
	}
	actor, _ := security.PrincipalFrom(ctx)

	post, err := s.repo.FindByIDIncludingDeleted(ctx, id)
	if err != nil {
		return err
	}
	now := s.now()
	if err := post.MarkDeleted(actor.Username, now); err != nil {
		return &domain.StateError{Kind: domain.KindPost, ID: id, Err: err}
	}
	post.Touch(actor.Username, now)

	if err := s.repo.Update(ctx, post); err != nil {
		return err
	}
	s.cache.EvictAll(ctx, cache.NamespacePosts, cache.NamespaceSearch, cache.NamespaceComments)
	s.logger.Info().Str("post_id", id).Str("actor", actor.Username).Msg("post soft-deleted")
	return nil
}

// Restore brings a soft-deleted post back. Owner or admin only.
func (s *PostService) Restore(ctx context.Context, id string) (*domain.Post, error) {
	if err := s.authz.RequireOwnerOrAdmin(ctx, domain.KindPost, id); err != nil {
		return nil, err
	}
	actor, _ := security.PrincipalFrom(ctx)

	post, err := s.repo.FindByIDIncludingDeleted(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := post.Restore(); err != nil {
		return nil, &domain.StateError{Kind: domain.KindPost, ID: id, Err: err}
	}
	post.Touch(actor.Username, s.now())

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, err
	}
	s.cache.EvictAll(ctx, cache.NamespacePosts, cache.NamespaceSearch, cache.NamespaceComments)
	s.logger.Info().Str("post_id", id).Str("actor", actor.Username).Msg("post restored")
	return post, nil
}

// HardDelete permanently removes a post and its comments in any state. Admin
// only.
func (s *PostService) HardDelete(ctx context.Context, id string) error {
	actor, err := s.authz.RequireAdmin(ctx)
	if err != nil {
		return err
	}
	if _, err := s.repo.FindByIDIncludingDeleted(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.EvictAll(ctx, cache.NamespacePosts, cache.NamespaceSearch, cache.NamespaceComments)
	s.logger.Warn().Str("post_id", id).Str("actor", actor.Username).Msg("post permanently deleted")
	return nil
}

// ListDeleted lists soft-deleted posts: all of them for admins, the caller's
// own otherwise. Never cached.
func (s *PostService) ListDeleted(ctx context.Context, page domain.PageRequest) (domain.Page[*domain.Post], error) {
	p, err := s.authz.RequireAuthenticated(ctx)
	if err != nil {
		return domain.Page[*domain.Post]{}, err
	}
	filter := ports.PostFilter{OnlyDeleted: true}
	if !p.IsAdmin() {
		filter.AuthorID = p.UserID
	}
	page = page.Normalize(postSortFields, "updatedAt")
	posts, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return domain.Page[*domain.Post]{}, err
	}
	return domain.NewPage(posts, page, total), nil
}
