package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/domain"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/pkg/metrics"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/security"
)

// UsernameKey is the echo context key holding the authenticated username for
// request logging.
const UsernameKey = "username"

// IdentityLoader resolves a token subject to a stored user.
type IdentityLoader interface {
	LoadIdentity(ctx context.Context, username string) (*domain.User, error)
}

// TokenVerifier is the subset of security.TokenManager used by Authenticate.
type TokenVerifier interface {
	ExtractSubject(token string) (string, error)
	Validate(token string, expected *domain.User) bool
}

// Authenticate turns a bearer token into a security.Principal stored in the
// request context. It never rejects a request: any failure continues
// anonymously and is left to the route guards and service checks. The
// request without the principal is restored once the handler chain returns.
func Authenticate(tokens TokenVerifier, identities IdentityLoader, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			original := c.Request()
			ctx := original.Context()

			if _, ok := security.PrincipalFrom(ctx); ok {
				return next(c)
			}

			authHeader := original.Header.Get("Authorization")
			if authHeader == "" {
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				reject(log, c, "bad_scheme", nil)
				return next(c)
			}
			token := strings.TrimSpace(parts[1])

			subject, err := tokens.ExtractSubject(token)
			if err != nil {
				reject(log, c, "malformed", err)
				return next(c)
			}

			user, err := identities.LoadIdentity(ctx, subject)
			if err != nil {
				reject(log, c, "unknown_subject", err)
				return next(c)
			}

			if !tokens.Validate(token, user) {
				reject(log, c, "invalid", nil)
				return next(c)
			}

			principal := security.PrincipalFromUser(user)
			c.SetRequest(original.WithContext(security.WithPrincipal(ctx, principal)))
			defer c.SetRequest(original)
			c.Set(UsernameKey, principal.Username)

			return next(c)
		}
	}
}

func reject(log zerolog.Logger, c echo.Context, reason string, err error) {
	metrics.AuthRejectionsTotal.WithLabelValues(reason).Inc()
	log.Warn().
		Err(err).
		Str("reason", reason).
		Str("path", c.Request().URL.Path).
		Msg("bearer token rejected, continuing anonymously")
}
