package ports

import (
	"context"
	"time"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/domain"
)

// PostFilter narrows a post listing. Zero values are ignored.
type PostFilter struct {
	Keyword      string    // case-insensitive partial match on title or content
	AuthorID     string    // posts written by this user
	CreatedSince time.Time // created_at >= CreatedSince
	OnlyDeleted  bool      // soft-deleted posts instead of active ones
}

// PostRepository defines persistence operations for posts. Every lookup and
// listing excludes soft-deleted posts unless stated otherwise.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	// Update replaces the mutable fields of an existing post, including its
	// soft-delete marker.
	Update(ctx context.Context, post *domain.Post) error
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	FindByIDIncludingDeleted(ctx context.Context, id string) (*domain.Post, error)
	List(ctx context.Context, filter PostFilter, page domain.PageRequest) ([]*domain.Post, int64, error)
	// Delete removes the post and its comments permanently.
	Delete(ctx context.Context, id string) error
}
