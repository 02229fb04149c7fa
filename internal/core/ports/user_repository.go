package ports

import (
	"context"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/domain"
)

// UserFilter narrows a user listing. Empty fields are ignored.
type UserFilter struct {
	Keyword string // case-insensitive partial match on username
	Role    string
}

// UserRepository defines persistence operations for user identities.
type UserRepository interface {
	// Create stores a new user and returns it with its assigned ID.
	// Returns domain.ErrUserExists when the username is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter, page domain.PageRequest) ([]*domain.User, int64, error)
	Delete(ctx context.Context, id string) error
}
