package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/cache"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/domain"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/ports"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/security"
)

// UserService implements account registration, lookup and removal. It also
// resolves identities for the authentication middleware.
type UserService struct {
	repo   ports.UserRepository
	cache  *cache.Layer
	authz  *security.Authorizer
	logger zerolog.Logger
	clock
}

func NewUserService(repo ports.UserRepository, layer *cache.Layer, authz *security.Authorizer, logger zerolog.Logger, opts ...Option) *UserService {
	return &UserService{repo: repo, cache: layer, authz: authz, logger: logger, clock: newClock(opts)}
}

// Register creates a ROLE_USER account.
func (s *UserService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	return s.CreateWithRole(ctx, username, password, domain.RoleUser)
}

// CreateWithRole creates an account with an explicit role.
func (s *UserService) CreateWithRole(ctx context.Context, username, password, role string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if err := required("username", username); err != nil {
		return nil, err
	}
	if err := required("password", password); err != nil {
		return nil, err
	}
	role, ok := domain.NormalizeRole(role)
	if !ok {
		return nil, fmt.Errorf("%w: unknown role", domain.ErrInvalidInput)
	}

	_, err := s.repo.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, domain.ErrUserExists
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}
	user.Stamp(username, s.now())

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.cache.EvictAll(ctx, cache.NamespaceUsers)
	s.logger.Info().Str("user_id", created.ID).Str("username", created.Username).Str("role", created.Role).Msg("user registered")
	return created, nil
}

// EnsureAdmin creates an admin account unless the username is already taken.
// It reports whether a new account was created.
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	_, err := s.CreateWithRole(ctx, username, password, domain.RoleAdmin)
	if errors.Is(err, domain.ErrUserExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return cache.GetOrLoad(ctx, s.cache, cache.NamespaceUsers, "id:"+id, func(ctx context.Context) (*domain.User, error) {
		return s.repo.FindByID(ctx, id)
	})
}

// LoadIdentity resolves a token subject to a user. Results are read through
// the users cache namespace.
func (s *UserService) LoadIdentity(ctx context.Context, username string) (*domain.User, error) {
	key := "username:" + strings.ToLower(username)
	return cache.GetOrLoad(ctx, s.cache, cache.NamespaceUsers, key, func(ctx context.Context) (*domain.User, error) {
		return s.repo.FindByUsername(ctx, username)
	})
}

func (s *UserService) List(ctx context.Context, page domain.PageRequest) (domain.Page[*domain.User], error) {
	return s.list(ctx, ports.UserFilter{}, page)
}

func (s *UserService) Search(ctx context.Context, keyword string, page domain.PageRequest) (domain.Page[*domain.User], error) {
	if err := required("keyword", keyword); err != nil {
		return domain.Page[*domain.User]{}, err
	}
	return s.list(ctx, ports.UserFilter{Keyword: strings.TrimSpace(keyword)}, page)
}

func (s *UserService) ListByRole(ctx context.Context, role string, page domain.PageRequest) (domain.Page[*domain.User], error) {
	normalized, ok := domain.NormalizeRole(role)
	if !ok {
		return domain.Page[*domain.User]{}, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
	}
	return s.list(ctx, ports.UserFilter{Role: normalized}, page)
}

func (s *UserService) list(ctx context.Context, filter ports.UserFilter, page domain.PageRequest) (domain.Page[*domain.User], error) {
	page = page.Normalize(userSortFields, "createdAt")
	users, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return domain.Page[*domain.User]{}, err
	}
	return domain.NewPage(users, page, total), nil
}

// Delete removes an account. Admin only.
func (s *UserService) Delete(ctx context.Context, id string) error {
	actor, err := s.authz.RequireAdmin(ctx)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.EvictAll(ctx, cache.NamespaceUsers, cache.NamespacePosts, cache.NamespaceSearch, cache.NamespaceComments)
	s.logger.Info().Str("user_id", id).Str("actor", actor.Username).Msg("user deleted")
	return nil
}
