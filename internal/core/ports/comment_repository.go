package ports

import (
	"context"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/domain"
)

// CommentFilter narrows a comment listing. Empty fields are ignored.
type CommentFilter struct {
	PostID   string
	AuthorID string
	Keyword  string // case-insensitive partial match on body
}

// CommentRepository defines persistence operations for comments. Lookups and
// listings exclude soft-deleted comments unless stated otherwise.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	Update(ctx context.Context, comment *domain.Comment) error
	FindByID(ctx context.Context, id string) (*domain.Comment, error)
	FindByIDIncludingDeleted(ctx context.Context, id string) (*domain.Comment, error)
	List(ctx context.Context, filter CommentFilter, page domain.PageRequest) ([]*domain.Comment, int64, error)
}
