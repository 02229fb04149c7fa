package ports

import (
	"context"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/domain"
)

// UserService defines use-case operations for user accounts.
type UserService interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, page domain.PageRequest) (domain.Page[*domain.User], error)
	Search(ctx context.Context, keyword string, page domain.PageRequest) (domain.Page[*domain.User], error)
	ListByRole(ctx context.Context, role string, page domain.PageRequest) (domain.Page[*domain.User], error)
	Delete(ctx context.Context, id string) error
}
