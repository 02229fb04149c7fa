package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/domain"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/security"
)

// RequireAuthenticated rejects anonymous requests with
// domain.ErrAuthenticationRequired.
func RequireAuthenticated() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := security.PrincipalFrom(c.Request().Context()); !ok {
				return domain.ErrAuthenticationRequired
			}
			return next(c)
		}
	}
}

// RequireRole enforces role-based access control. Anonymous requests get
// domain.ErrAuthenticationRequired, other roles domain.ErrAccessDenied.
func RequireRole(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := security.PrincipalFrom(c.Request().Context())
			if !ok {
				return domain.ErrAuthenticationRequired
			}
			if _, ok := allowed[p.Role]; !ok {
				return domain.ErrAccessDenied
			}
			return next(c)
		}
	}
}
