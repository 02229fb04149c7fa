package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/domain"
)

const defaultTokenLifetime = 24 * time.Hour

// reserved claims are always set by Issue and cannot be overridden by extras.
var reservedClaims = []string{"sub", "iat", "exp"}

// TokenManager issues and verifies HS256-signed bearer tokens. The signing
// key is read-only after construction and safe for concurrent use.
type TokenManager struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

// TokenOption customises a TokenManager.
type TokenOption func(*TokenManager)

// WithClock overrides the wall clock used for issuing and validating tokens.
func WithClock(now func() time.Time) TokenOption {
	return func(m *TokenManager) { m.now = now }
}

// NewTokenManager returns a TokenManager signing with secret. A non-positive
// lifetime falls back to 24 hours.
func NewTokenManager(secret string, lifetime time.Duration, opts ...TokenOption) *TokenManager {
	if lifetime <= 0 {
		lifetime = defaultTokenLifetime
	}
	m := &TokenManager{secret: []byte(secret), lifetime: lifetime, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Lifetime returns the configured token lifetime.
func (m *TokenManager) Lifetime() time.Duration {
	return m.lifetime
}

// Issue signs a token for user carrying extraClaims. The subject is the
// username; issued-at and expiry are derived from the current time.
func (m *TokenManager) Issue(user *domain.User, extraClaims map[string]any) (string, time.Time, error) {
	if user == nil || user.Username == "" {
		return "", time.Time{}, fmt.Errorf("issue token: %w", domain.ErrInvalidInput)
	}

	now := m.now().Truncate(time.Second)
	expiresAt := now.Add(m.lifetime)

	claims := jwt.MapClaims{}
	for k, v := range extraClaims {
		claims[k] = v
	}
	for _, k := range reservedClaims {
		delete(claims, k)
	}
	claims["sub"] = user.Username
	claims["iat"] = now.Unix()
	claims["exp"] = expiresAt.Unix()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("issue token: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate reports whether token carries a valid signature, names expected as
// its subject and has not expired. Malformed input yields false.
func (m *TokenManager) Validate(token string, expected *domain.User) bool {
	if expected == nil || token == "" {
		return false
	}
	claims, err := m.parse(token, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil {
		return false
	}
	sub, err := claims.GetSubject()
	if err != nil || sub != expected.Username {
		return false
	}
	return true
}

// ExtractSubject returns the subject of a correctly signed token. Expiry is
// not checked here; Validate decides whether the token is still usable.
func (m *TokenManager) ExtractSubject(token string) (string, error) {
	claims, err := m.parse(token, jwt.WithoutClaimsValidation())
	if err != nil {
		return "", fmt.Errorf("extract subject: %w", err)
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("extract subject: %w", domain.ErrTokenMalformed)
	}
	return sub, nil
}

func (m *TokenManager) parse(token string, opts ...jwt.ParserOption) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return m.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, err
		}
		return nil, errors.Join(domain.ErrTokenMalformed, err)
	}
	if !tkn.Valid {
		return nil, domain.ErrTokenMalformed
	}
	return claims, nil
}
