package security

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/domain"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/pkg/metrics"
)

// Decision is the typed outcome of an ownership check. Callers must inspect it
// (or use Err) before mutating anything.
type Decision int

const (
	DenyAnonymous Decision = iota
	DenyNotOwner
	AllowAdmin
	AllowOwner
)

func (d Decision) String() string {
	switch d {
	case AllowAdmin:
		return "allow_admin"
	case AllowOwner:
		return "allow_owner"
	case DenyNotOwner:
		return "deny_not_owner"
	default:
		return "deny_anonymous"
	}
}

// Allowed reports whether the decision grants access.
func (d Decision) Allowed() bool {
	return d == AllowAdmin || d == AllowOwner
}

// Err converts a denial into the error surfaced to clients.
func (d Decision) Err() error {
	switch d {
	case AllowAdmin, AllowOwner:
		return nil
	case DenyNotOwner:
		return domain.ErrAccessDenied
	default:
		return domain.ErrAuthenticationRequired
	}
}

// PostFinder loads posts regardless of their soft-delete state.
type PostFinder interface {
	FindByIDIncludingDeleted(ctx context.Context, id string) (*domain.Post, error)
}

// CommentFinder loads comments regardless of their soft-delete state.
type CommentFinder interface {
	FindByIDIncludingDeleted(ctx context.Context, id string) (*domain.Comment, error)
}

// Authorizer decides whether the caller may mutate a specific resource.
//
// The check is point-in-time: a resource can change owner or disappear between
// IsOwnerOrAdmin and the mutation that follows it. No lock spans the two steps.
type Authorizer struct {
	posts          PostFinder
	comments       CommentFinder
	concealMissing bool
	log            zerolog.Logger
}

// AuthorizerOption customises an Authorizer.
type AuthorizerOption func(*Authorizer)

// WithConcealMissing makes a missing resource surface as ErrAccessDenied
// instead of a not-found error, so callers learn nothing about existence.
func WithConcealMissing(conceal bool) AuthorizerOption {
	return func(a *Authorizer) { a.concealMissing = conceal }
}

// NewAuthorizer returns an Authorizer backed by the given finders.
func NewAuthorizer(posts PostFinder, comments CommentFinder, log zerolog.Logger, opts ...AuthorizerOption) *Authorizer {
	a := &Authorizer{posts: posts, comments: comments, log: log}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// IsOwnerOrAdmin evaluates, in order: authentication presence, the admin
// short-circuit, then ownership of the resource (soft-deleted included).
// A resource that cannot be found yields DenyNotOwner together with a
// *domain.NotFoundError (or domain.ErrAccessDenied when concealing).
func (a *Authorizer) IsOwnerOrAdmin(ctx context.Context, kind domain.Kind, id string) (Decision, error) {
	p, ok := PrincipalFrom(ctx)
	if !ok {
		return a.record(kind, DenyAnonymous), nil
	}
	if p.IsAdmin() {
		return a.record(kind, AllowAdmin), nil
	}

	owner, err := a.ownerOf(ctx, kind, id)
	if err != nil {
		a.record(kind, DenyNotOwner)
		if errors.Is(err, domain.ErrNotFound) && a.concealMissing {
			return DenyNotOwner, domain.ErrAccessDenied
		}
		return DenyNotOwner, err
	}
	if owner == "" || owner != p.UserID {
		a.log.Debug().
			Str("kind", string(kind)).
			Str("id", id).
			Str("user", p.Username).
			Msg("ownership check denied")
		return a.record(kind, DenyNotOwner), nil
	}
	return a.record(kind, AllowOwner), nil
}

// RequireOwnerOrAdmin is the guard invoked at the start of every mutating use
// case. It returns nil only when the caller may proceed.
func (a *Authorizer) RequireOwnerOrAdmin(ctx context.Context, kind domain.Kind, id string) error {
	d, err := a.IsOwnerOrAdmin(ctx, kind, id)
	if err != nil {
		return err
	}
	return d.Err()
}

// RequireAuthenticated returns the caller or domain.ErrAuthenticationRequired.
func (a *Authorizer) RequireAuthenticated(ctx context.Context) (Principal, error) {
	p, ok := PrincipalFrom(ctx)
	if !ok {
		return Principal{}, domain.ErrAuthenticationRequired
	}
	return p, nil
}

// RequireAdmin returns the caller when it holds the admin role.
func (a *Authorizer) RequireAdmin(ctx context.Context) (Principal, error) {
	p, err := a.RequireAuthenticated(ctx)
	if err != nil {
		return Principal{}, err
	}
	if !p.IsAdmin() {
		return Principal{}, domain.ErrAccessDenied
	}
	return p, nil
}

func (a *Authorizer) ownerOf(ctx context.Context, kind domain.Kind, id string) (string, error) {
	switch kind {
	case domain.KindPost:
		post, err := a.posts.FindByIDIncludingDeleted(ctx, id)
		if err != nil {
			return "", err
		}
		return post.OwnerID(), nil
	case domain.KindComment:
		comment, err := a.comments.FindByIDIncludingDeleted(ctx, id)
		if err != nil {
			return "", err
		}
		return comment.OwnerID(), nil
	default:
		return "", fmt.Errorf("ownership of %q: %w", kind, domain.ErrInvalidInput)
	}
}

func (a *Authorizer) record(kind domain.Kind, d Decision) Decision {
	metrics.AuthzDecisionsTotal.WithLabelValues(string(kind), d.String()).Inc()
	return d
}
