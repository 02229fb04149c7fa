package domain

import "strings"

const (
	RoleAdmin = "ROLE_ADMIN"
	RoleUser  = "ROLE_USER"
)

// User models an authenticated actor in the system.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-" msgpack:"-"`
	Role         string `json:"role"`
	Audit
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// NormalizeRole maps "admin", "ADMIN" and "ROLE_ADMIN" style inputs to the
// stored role name. It returns false for anything that is not a known role.
func NormalizeRole(role string) (string, bool) {
	r := strings.ToUpper(strings.TrimSpace(role))
	if !strings.HasPrefix(r, "ROLE_") {
		r = "ROLE_" + r
	}
	switch r {
	case RoleAdmin, RoleUser:
		return r, true
	default:
		return "", false
	}
}
