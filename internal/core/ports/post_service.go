package ports

import (
	"context"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/domain"
)

// CreatePostInput carries the fields of a new post. The author is the caller.
type CreatePostInput struct {
	Title   string
	Content string
}

// UpdatePostInput carries the editable fields of a post.
type UpdatePostInput struct {
	Title   string
	Content string
}

// PostService defines use-case operations for posts, including their
// soft-delete lifecycle.
type PostService interface {
	Create(ctx context.Context, input CreatePostInput) (*domain.Post, error)
	Get(ctx context.Context, id string) (*domain.Post, error)
	List(ctx context.Context, page domain.PageRequest) (domain.Page[*domain.Post], error)
	Search(ctx context.Context, keyword string, page domain.PageRequest) (domain.Page[*domain.Post], error)
	ListByAuthor(ctx context.Context, userID string, page domain.PageRequest) (domain.Page[*domain.Post], error)
	Recent(ctx context.Context, days int, page domain.PageRequest) (domain.Page[*domain.Post], error)
	Update(ctx context.Context, id string, input UpdatePostInput) (*domain.Post, error)
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) (*domain.Post, error)
	HardDelete(ctx context.Context, id string) error
	ListDeleted(ctx context.Context, page domain.PageRequest) (domain.Page[*domain.Post], error)
}
