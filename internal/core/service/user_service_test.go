package service

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/cache"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/domain"
)

func TestUserService_Register_Success(t *testing.T) {
	f := newFixture(t, nil)

	user, err := f.users.Register(context.Background(), "alice", "pass123")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("unexpected role: %s", user.Role)
	}
}

func TestUserService_Register_Duplicate(t *testing.T) {
	f := newFixture(t, nil)

	_, _ = f.users.Register(context.Background(), "bob", "pass")
	_, err := f.users.Register(context.Background(), "BOB", "pass2")
	assertErrorIs(t, err, domain.ErrUserExists)
}

func TestUserService_Register_Validation(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.users.Register(context.Background(), "", "pass")
	assertErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.users.CreateWithRole(context.Background(), "carol", "pass", "superuser")
	assertErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUserService_EnsureAdminIsIdempotent(t *testing.T) {
	f := newFixture(t, nil)

	created, err := f.users.EnsureAdmin(context.Background(), "root", "secret")
	if err != nil || !created {
		t.Fatalf("expected admin created, got %v %v", created, err)
	}
	created, err = f.users.EnsureAdmin(context.Background(), "root", "secret")
	if err != nil || created {
		t.Fatalf("expected no-op on second call, got %v %v", created, err)
	}
}

func TestUserService_LoadIdentityNotCachedWhenMissing(t *testing.T) {
	f := newFixture(t, cache.NewMemory(0))

	_, err := f.users.LoadIdentity(context.Background(), "dave")
	assertErrorIs(t, err, domain.ErrNotFound)

	if _, err := f.users.Register(context.Background(), "dave", "pass"); err != nil {
		t.Fatalf("register: %v", err)
	}
	u, err := f.users.LoadIdentity(context.Background(), "dave")
	if err != nil {
		t.Fatalf("expected identity after registration, got %v", err)
	}
	if u.Username != "dave" {
		t.Fatalf("unexpected user %+v", u)
	}
}

func TestUserService_DeleteAdminOnly(t *testing.T) {
	f := newFixture(t, nil)
	alice := f.user(t, "alice", domain.RoleUser)
	admin := f.user(t, "admin", domain.RoleAdmin)
	victim, _ := f.users.Register(context.Background(), "victim", "pass")

	assertErrorIs(t, f.users.Delete(alice, victim.ID), domain.ErrAccessDenied)
	assertErrorIs(t, f.users.Delete(context.Background(), victim.ID), domain.ErrAuthenticationRequired)

	if err := f.users.Delete(admin, victim.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	_, err := f.users.Get(context.Background(), victim.ID)
	assertErrorIs(t, err, domain.ErrNotFound)
}

func TestUserService_ListByRole(t *testing.T) {
	f := newFixture(t, nil)
	f.user(t, "alice", domain.RoleUser)
	f.user(t, "admin", domain.RoleAdmin)

	page, err := f.users.ListByRole(context.Background(), "admin", firstPage())
	if err != nil {
		t.Fatalf("list by role: %v", err)
	}
	if page.Total != 1 || page.Items[0].Username != "admin" {
		t.Fatalf("unexpected page %+v", page)
	}

	_, err = f.users.ListByRole(context.Background(), "guest", firstPage())
	assertErrorIs(t, err, domain.ErrInvalidInput)
}
