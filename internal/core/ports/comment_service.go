package ports

import (
	"context"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/domain"
)

// CommentService defines use-case operations for comments on posts.
type CommentService interface {
	Create(ctx context.Context, postID, body string) (*domain.Comment, error)
	ListByPost(ctx context.Context, postID string, page domain.PageRequest) (domain.Page[*domain.Comment], error)
	ListByAuthor(ctx context.Context, userID string, page domain.PageRequest) (domain.Page[*domain.Comment], error)
	Search(ctx context.Context, keyword string, page domain.PageRequest) (domain.Page[*domain.Comment], error)
	Update(ctx context.Context, postID, commentID, body string) (*domain.Comment, error)
	SoftDelete(ctx context.Context, postID, commentID string) error
	Restore(ctx context.Context, postID, commentID string) (*domain.Comment, error)
}
