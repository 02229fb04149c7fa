package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/cache"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/domain"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/ports"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/security"
)

// CommentService implements comments on posts and their soft-delete
// lifecycle.
type CommentService struct {
	repo   ports.CommentRepository
	posts  ports.PostRepository
	users  ports.UserRepository
	cache  *cache.Layer
	authz  *security.Authorizer
	logger zerolog.Logger
	clock
}

func NewCommentService(
	repo ports.CommentRepository,
	posts ports.PostRepository,
	users ports.UserRepository,
	layer *cache.Layer,
	authz *security.Authorizer,
	logger zerolog.Logger,
	opts ...Option,
) *CommentService {
	return &CommentService{repo: repo, posts: posts, users: users, cache: layer, authz: authz, logger: logger, clock: newClock(opts)}
}

// Create adds a comment by the caller to an active post.
func (s *CommentService) Create(ctx context.Context, postID, body string) (*domain.Comment, error) {
	p, err := s.authz.RequireAuthenticated(ctx)
	if err != nil {
		return nil, err
	}
	if err := required("body", body); err != nil {
		return nil, err
	}
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		PostID:         postID,
		Body:           strings.TrimSpace(body),
		AuthorID:       p.UserID,
		AuthorUsername: p.Username,
	}
	comment.Stamp(p.Username, s.now())

	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}
	s.cache.EvictAll(ctx, cache.NamespaceComments)
	s.logger.Info().Str("comment_id", comment.ID).Str("post_id", postID).Str("author", p.Username).Msg("comment created")
	return comment, nil
}

// ListByPost lists the active comments of an active post.
func (s *CommentService) ListByPost(ctx context.Context, postID string, page domain.PageRequest) (domain.Page[*domain.Comment], error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return domain.Page[*domain.Comment]{}, err
	}
	page = page.Normalize(commentSortFields, "createdAt")
	return s.listCached(ctx, listKey("post", page, postID), ports.CommentFilter{PostID: postID}, page)
}

func (s *CommentService) ListByAuthor(ctx context.Context, userID string, page domain.PageRequest) (domain.Page[*domain.Comment], error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return domain.Page[*domain.Comment]{}, err
	}
	page = page.Normalize(commentSortFields, "createdAt")
	return s.listCached(ctx, listKey("author", page, userID), ports.CommentFilter{AuthorID: userID}, page)
}

func (s *CommentService) Search(ctx context.Context, keyword string, page domain.PageRequest) (domain.Page[*domain.Comment], error) {
	keyword = strings.TrimSpace(keyword)
	if err := required("keyword", keyword); err != nil {
		return domain.Page[*domain.Comment]{}, err
	}
	page = page.Normalize(commentSortFields, "createdAt")
	return s.listCached(ctx, listKey("search", page, strings.ToLower(keyword)), ports.CommentFilter{Keyword: keyword}, page)
}

func (s *CommentService) listCached(ctx context.Context, key string, filter ports.CommentFilter, page domain.PageRequest) (domain.Page[*domain.Comment], error) {
	return cachedPage(ctx, s.cache, cache.NamespaceComments, key, page, func(ctx context.Context) ([]*domain.Comment, int64, error) {
		return s.repo.List(ctx, filter, page)
	})
}

// Update edits an active comment. Owner or admin only.
func (s *CommentService) Update(ctx context.Context, postID, commentID, body string) (*domain.Comment, error) {
	if err := s.authz.RequireOwnerOrAdmin(ctx, domain.KindComment, commentID); err != nil {
		return nil, err
	}
	if err := required("body", body); err != nil {
		return nil, err
	}
	actor, _ := security.PrincipalFrom(ctx)

	comment, err := s.repo.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.PostID != postID {
		return nil, domain.ErrCommentPostMismatch
	}
	comment.Body = strings.TrimSpace(body)
	comment.Touch(actor.Username, s.now())

	if err := s.repo.Update(ctx, comment); err != nil {
		return nil, err
	}
	s.cache.EvictAll(ctx, cache.NamespaceComments)
	s.logger.Info().Str("comment_id", commentID).Str("actor", actor.Username).Msg("comment updated")
	return comment, nil
}

// SoftDelete marks a comment deleted. Owner or admin only.
func (s *CommentService) SoftDelete(ctx context.Context, postID, commentID string) error {
	if err := s.authz.RequireOwnerOrAdmin(ctx, domain.KindComment, commentID); err != nil {
		return err
	}
	actor, _ := security.PrincipalFrom(ctx)

	comment, err := s.repo.FindByIDIncludingDeleted(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.PostID != postID {
		return domain.ErrCommentPostMismatch
	}
	now := s.now()
	if err := comment.MarkDeleted(actor.Username, now); err != nil {
		return &domain.StateError{Kind: domain.KindComment, ID: commentID, Err: err}
	}
	comment.Touch(actor.Username, now)

	if err := s.repo.Update(ctx, comment); err != nil {
		return err
	}
	s.cache.EvictAll(ctx, cache.NamespaceComments)
	s.logger.Info().Str("comment_id", commentID).Str("actor", actor.Username).Msg("comment soft-deleted")
	return nil
}

// Restore brings a soft-deleted comment back. Owner or admin only.
func (s *CommentService) Restore(ctx context.Context, postID, commentID string) (*domain.Comment, error) {
	if err := s.authz.RequireOwnerOrAdmin(ctx, domain.KindComment, commentID); err != nil {
		return nil, err
	}
	actor, _ := security.PrincipalFrom(ctx)

	comment, err := s.repo.FindByIDIncludingDeleted(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.PostID != postID {
		return nil, domain.ErrCommentPostMismatch
	}
	if err := comment.Restore(); err != nil {
		return nil, &domain.StateError{Kind: domain.KindComment, ID: commentID, Err: err}
	}
	comment.Touch(actor.Username, s.now())

	if err := s.repo.Update(ctx, comment); err != nil {
		return nil, err
	}
	s.cache.EvictAll(ctx, cache.NamespaceComments)
	s.logger.Info().Str("comment_id", commentID).Str("actor", actor.Username).Msg("comment restored")
	return comment, nil
}
