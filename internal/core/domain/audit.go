package domain

import (
	"fmt"
	"time"
)

// ErrAlreadyDeleted and ErrNotDeleted are the two lifecycle conflicts. Both
// match ErrIllegalState.
var (
	ErrAlreadyDeleted = fmt.Errorf("%w: already deleted", ErrIllegalState)
	ErrNotDeleted     = fmt.Errorf("%w: not deleted", ErrIllegalState)
)

// Audit carries creation and modification metadata shared by all entities.
type Audit struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy string    `json:"created_by,omitempty"`
	UpdatedBy string    `json:"updated_by,omitempty"`
}

// Stamp initialises the audit fields of a new entity.
func (a *Audit) Stamp(actor string, now time.Time) {
	a.CreatedAt = now
	a.UpdatedAt = now
	a.CreatedBy = actor
	a.UpdatedBy = actor
}

// Touch records a modification.
func (a *Audit) Touch(actor string, now time.Time) {
	a.UpdatedAt = now
	a.UpdatedBy = actor
}

// SoftDelete holds the recoverable-deletion marker of a deletable resource.
// DeletedAt and DeletedBy are always set together or cleared together.
//
// Lifecycle: Active -> SoftDeleted (MarkDeleted) -> Active (Restore), or
// SoftDeleted -> Purged once the retention window has elapsed.
type SoftDelete struct {
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	DeletedBy string     `json:"deleted_by,omitempty"`
}

// IsDeleted reports whether the resource is soft-deleted.
func (s SoftDelete) IsDeleted() bool {
	return s.DeletedAt != nil
}

// MarkDeleted moves an active resource to the soft-deleted state.
func (s *SoftDelete) MarkDeleted(actor string, now time.Time) error {
	if s.IsDeleted() {
		return ErrAlreadyDeleted
	}
	at := now
	s.DeletedAt = &at
	s.DeletedBy = actor
	return nil
}

// Restore clears the soft-delete marker.
func (s *SoftDelete) Restore() error {
	if !s.IsDeleted() {
		return ErrNotDeleted
	}
	s.DeletedAt = nil
	s.DeletedBy = ""
	return nil
}

// PurgeableBefore reports whether the resource was soft-deleted strictly
// before threshold.
func (s SoftDelete) PurgeableBefore(threshold time.Time) bool {
	return s.DeletedAt != nil && s.DeletedAt.Before(threshold)
}
