package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/domain"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/ports"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/security"
)

// AuthService exchanges credentials for a bearer token.
type AuthService struct {
	repo   ports.UserRepository
	tokens *security.TokenManager
	logger zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, tokens *security.TokenManager, logger zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, logger: logger}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.logger.Warn().Str("username", username).Msg("login rejected")
		return nil, domain.ErrInvalidCredentials
	}

	token, _, err := s.tokens.Issue(user, map[string]any{"role": user.Role})
	if err != nil {
		return nil, err
	}

	return &ports.LoginResult{
		Token:     token,
		Type:      "Bearer",
		Username:  user.Username,
		Role:      user.Role,
		ExpiresIn: int64(s.tokens.Lifetime().Seconds()),
	}, nil
}
