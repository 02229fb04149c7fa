// Package security issues and verifies bearer tokens, carries the caller's
// identity through request contexts and decides resource ownership.
package security

import (
	"context"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/domain"
)

// Principal is the authenticated identity of the current request.
type Principal struct {
	UserID   string
	Username string
	Role     string
}

// PrincipalFromUser builds a Principal from a stored user.
func PrincipalFromUser(u *domain.User) Principal {
	return Principal{UserID: u.ID, Username: u.Username, Role: u.Role}
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == domain.RoleAdmin
}

// Authorities lists the granted authorities of the principal.
func (p Principal) Authorities() []string {
	if p.Role == "" {
		return nil
	}
	return []string{p.Role}
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal stored in ctx, if any.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	if !ok || p.Username == "" {
		return Principal{}, false
	}
	return p, true
}
