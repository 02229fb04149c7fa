package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound               = errors.New("resource not found")
	ErrAuthenticationRequired = errors.New("please authenticate")
	ErrAccessDenied           = errors.New("not permitted")
	ErrIllegalState           = errors.New("illegal state")
	ErrTokenMalformed         = errors.New("token malformed")
	ErrUserExists             = errors.New("user already exists")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidInput           = errors.New("invalid input")
	ErrCommentPostMismatch    = errors.New("comment does not belong to this post")
)

// Kind names a resource type in errors, cache keys and authorization checks.
type Kind string

const (
	KindPost    Kind = "post"
	KindComment Kind = "comment"
	KindUser    Kind = "user"
)

// NotFoundError identifies the missing resource. It matches ErrNotFound.
type NotFoundError struct {
	Kind Kind
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NotFound builds a *NotFoundError.
func NotFound(kind Kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// StateError reports a lifecycle conflict on a specific resource. It matches
// ErrIllegalState through Err.
type StateError struct {
	Kind Kind
	ID   string
	Err  error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Kind, e.ID, e.Err)
}

func (e *StateError) Unwrap() error { return e.Err }
