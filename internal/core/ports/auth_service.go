package ports

import (
	"context"
)

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token     string
	Type      string
	Username  string
	Role      string
	ExpiresIn int64 // seconds
}

// AuthService exchanges credentials for a bearer token.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
}
