package security

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/domain"
)

var (
	carol = &domain.User{ID: "u-1", Username: "carol", Role: domain.RoleUser}
	dave  = &domain.User{ID: "u-2", Username: "dave", Role: domain.RoleUser}
)

func fixedClock(at time.Time) TokenOption {
	return WithClock(func() time.Time { return at })
}

func TestTokenManager_IssueAndValidate(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	tm := NewTokenManager("secret", time.Hour, fixedClock(now))

	token, exp, err := tm.Issue(carol, map[string]any{"role": carol.Role, "sub": "mallory"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !exp.Equal(now.Add(time.Hour)) {
		t.Fatalf("expected expiry %s, got %s", now.Add(time.Hour), exp)
	}
	if !tm.Validate(token, carol) {
		t.Fatalf("expected token to validate for its subject")
	}
	if tm.Validate(token, dave) {
		t.Fatalf("token must not validate for another user")
	}

	sub, err := tm.ExtractSubject(token)
	if err != nil || sub != "carol" {
		t.Fatalf("extra claims must not override the subject, got %q, %v", sub, err)
	}
}

func TestTokenManager_Expiry(t *testing.T) {
	issuedAt := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	token, _, err := NewTokenManager("secret", time.Hour, fixedClock(issuedAt)).Issue(carol, nil)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	expiresAt := issuedAt.Add(time.Hour)
	if !NewTokenManager("secret", time.Hour, fixedClock(expiresAt.Add(-time.Second))).Validate(token, carol) {
		t.Fatalf("token must be valid one second before expiry")
	}
	if NewTokenManager("secret", time.Hour, fixedClock(expiresAt)).Validate(token, carol) {
		t.Fatalf("token must not be valid at its expiry instant")
	}

	later := NewTokenManager("secret", time.Hour, fixedClock(expiresAt.Add(time.Second)))
	if later.Validate(token, carol) {
		t.Fatalf("expired token validated")
	}
	// the subject stays readable so the caller can be identified in logs
	if sub, err := later.ExtractSubject(token); err != nil || sub != "carol" {
		t.Fatalf("expected subject of expired token, got %q, %v", sub, err)
	}
}

func TestTokenManager_RejectsTamperedSignature(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	token, _, err := tm.Issue(carol, nil)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	dot := strings.LastIndex(token, ".")
	signingInput, encoded := token[:dot], token[dot+1:]
	sig, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("decode signature: %v", err)
	}

	for i := range sig {
		tampered := bytes.Clone(sig)
		tampered[i] ^= 0x01
		forged := signingInput + "." + base64.RawURLEncoding.EncodeToString(tampered)
		if tm.Validate(forged, carol) {
			t.Fatalf("signature with byte %d flipped validated", i)
		}
		if _, err := tm.ExtractSubject(forged); !errors.Is(err, domain.ErrTokenMalformed) {
			t.Fatalf("byte %d: expected ErrTokenMalformed, got %v", i, err)
		}
	}
}

func TestTokenManager_RejectsForeignAndMalformedTokens(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	foreign, _, _ := NewTokenManager("other", time.Hour).Issue(carol, nil)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "carol",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none token: %v", err)
	}

	for name, token := range map[string]string{
		"foreign secret": foreign,
		"alg none":       none,
		"garbage":        "abc.def.ghi",
		"empty":          "",
	} {
		if tm.Validate(token, carol) {
			t.Fatalf("%s: validated", name)
		}
		if _, err := tm.ExtractSubject(token); !errors.Is(err, domain.ErrTokenMalformed) {
			t.Fatalf("%s: expected ErrTokenMalformed, got %v", name, err)
		}
	}
}

func TestTokenManager_MissingSubject(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := tm.ExtractSubject(token); !errors.Is(err, domain.ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}

func TestTokenManager_IssueRequiresUsername(t *testing.T) {
	tm := NewTokenManager("secret", 0)
	if tm.Lifetime() != 24*time.Hour {
		t.Fatalf("expected default lifetime, got %s", tm.Lifetime())
	}
	if _, _, err := tm.Issue(&domain.User{}, nil); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	token, _, _ := tm.Issue(carol, nil)
	if strings.Count(token, ".") != 2 {
		t.Fatalf("expected a compact JWS, got %q", token)
	}
}
