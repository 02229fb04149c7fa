package domain

import (
	"errors"
	"testing"
	"time"
)

func TestSoftDelete_Lifecycle(t *testing.T) {
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	var s SoftDelete

	if s.IsDeleted() {
		t.Fatalf("zero value must be active")
	}
	if err := s.Restore(); !errors.Is(err, ErrNotDeleted) || !errors.Is(err, ErrIllegalState) {
		t.Fatalf("restore of active resource: got %v", err)
	}

	if err := s.MarkDeleted("alice", now); err != nil {
		t.Fatalf("mark deleted: %v", err)
	}
	if !s.IsDeleted() || !s.DeletedAt.Equal(now) || s.DeletedBy != "alice" {
		t.Fatalf("unexpected marker: %+v", s)
	}
	if err := s.MarkDeleted("bob", now.Add(time.Hour)); !errors.Is(err, ErrAlreadyDeleted) {
		t.Fatalf("second delete: got %v", err)
	}
	if s.DeletedBy != "alice" || !s.DeletedAt.Equal(now) {
		t.Fatalf("failed delete must not change the marker: %+v", s)
	}

	if err := s.Restore(); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if s.IsDeleted() || s.DeletedBy != "" {
		t.Fatalf("restore must clear both fields: %+v", s)
	}
}

func TestSoftDelete_PurgeableBefore(t *testing.T) {
	deletedAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := SoftDelete{DeletedAt: &deletedAt, DeletedBy: "alice"}

	if !s.PurgeableBefore(deletedAt.Add(time.Nanosecond)) {
		t.Fatalf("expected purgeable after the threshold passes")
	}
	if s.PurgeableBefore(deletedAt) {
		t.Fatalf("deletion exactly at the threshold is not purgeable")
	}
	if (SoftDelete{}).PurgeableBefore(deletedAt.Add(time.Hour)) {
		t.Fatalf("active resources are never purgeable")
	}
}

func TestAudit_StampAndTouch(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var a Audit
	a.Stamp("alice", t0)
	a.Touch("admin", t0.Add(time.Minute))

	if !a.CreatedAt.Equal(t0) || a.CreatedBy != "alice" {
		t.Fatalf("touch must keep creation data: %+v", a)
	}
	if !a.UpdatedAt.Equal(t0.Add(time.Minute)) || a.UpdatedBy != "admin" {
		t.Fatalf("touch must record modification: %+v", a)
	}
}

func TestNormalizeRole(t *testing.T) {
	for in, want := range map[string]string{
		"admin":      RoleAdmin,
		"ADMIN":      RoleAdmin,
		"ROLE_ADMIN": RoleAdmin,
		" user ":     RoleUser,
		"role_user":  RoleUser,
	} {
		got, ok := NormalizeRole(in)
		if !ok || got != want {
			t.Fatalf("NormalizeRole(%q) = %q, %v", in, got, ok)
		}
	}
	if _, ok := NormalizeRole("editor"); ok {
		t.Fatalf("unknown role accepted")
	}
}

func TestErrors(t *testing.T) {
	err := NotFound(KindPost, "42")
	if !errors.Is(err, ErrNotFound) || err.Error() != "post not found: 42" {
		t.Fatalf("unexpected not found error: %v", err)
	}

	se := &StateError{Kind: KindComment, ID: "7", Err: ErrAlreadyDeleted}
	if !errors.Is(se, ErrIllegalState) {
		t.Fatalf("state error must match ErrIllegalState")
	}
}
