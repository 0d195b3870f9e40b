// ABOUTME: Tests for JWT token issuing and verification
// ABOUTME: Covers round-trips, expiry, tampering and claim validation

package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenTestSecret is a 32-byte secret that meets MinSecretLength requirement.
var tokenTestSecret = []byte("token-round-trip-secret-32bytes!")

func newTestIssuer(t *testing.T) *Issuer {
	t.Helper()
	issuer, err := NewIssuer(tokenTestSecret, "HS256", time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer failed: %v", err)
	}
	return issuer
}

func TestNewIssuer_ShortSecret(t *testing.T) {
	if _, err := NewIssuer([]byte("too-short"), "HS256", time.Hour); err == nil {
		t.Error("expected error for a secret below MinSecretLength")
	}
}

func TestNewIssuer_UnknownAlgorithm(t *testing.T) {
	if _, err := NewIssuer(tokenTestSecret, "RS256", time.Hour); err == nil {
		t.Error("expected error for a non-HMAC algorithm")
	}
}

func TestNewIssuer_Defaults(t *testing.T) {
	issuer, err := NewIssuer(tokenTestSecret, "", 0)
	if err != nil {
		t.Fatalf("NewIssuer failed: %v", err)
	}
	if issuer.TTL() != DefaultTokenTTL {
		t.Errorf("expected default TTL %v, got %v", DefaultTokenTTL, issuer.TTL())
	}
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	issuer := newTestIssuer(t)

	token, err := issuer.Issue(42)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	userID, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if userID != 42 {
		t.Errorf("expected user id 42, got %d", userID)
	}
}

func TestIssueVerify_AllAlgorithms(t *testing.T) {
	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		issuer, err := NewIssuer(tokenTestSecret, alg, time.Hour)
		if err != nil {
			t.Fatalf("NewIssuer(%s) failed: %v", alg, err)
		}
		token, err := issuer.Issue(7)
		if err != nil {
			t.Fatalf("Issue(%s) failed: %v", alg, err)
		}
		userID, err := issuer.Verify(token)
		if err != nil {
			t.Fatalf("Verify(%s) failed: %v", alg, err)
		}
		if userID != 7 {
			t.Errorf("%s: expected user id 7, got %d", alg, userID)
		}
	}
}

func TestVerify_Expired(t *testing.T) {
	issuer := newTestIssuer(t)

	// Hand-craft a token whose expiry is already in the past
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": "42",
		"iat": now.Add(-2 * time.Hour).Unix(),
		"exp": now.Add(-time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tokenTestSecret)
	if err != nil {
		t.Fatalf("signing expired token: %v", err)
	}

	if _, err := issuer.Verify(token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestVerify_Tampered(t *testing.T) {
	issuer := newTestIssuer(t)

	token, err := issuer.Issue(42)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	// Flip a character in the payload segment
	parts := strings.Split(token, ".")
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	parts[1] = string(payload)

	if _, err := issuer.Verify(strings.Join(parts, ".")); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer := newTestIssuer(t)

	other, err := NewIssuer([]byte("a-completely-different-32b-secret"), "HS256", time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer failed: %v", err)
	}
	token, err := other.Issue(42)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := issuer.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	issuer := newTestIssuer(t)

	if _, err := issuer.Verify("not.a.jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerify_MissingSubject(t *testing.T) {
	issuer := newTestIssuer(t)

	now := time.Now()
	claims := jwt.MapClaims{
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tokenTestSecret)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}

	if _, err := issuer.Verify(token); !errors.Is(err, ErrMissingClaim) {
		t.Errorf("expected ErrMissingClaim, got %v", err)
	}
}

func TestVerify_NonNumericSubject(t *testing.T) {
	issuer := newTestIssuer(t)

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": "not-a-number",
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tokenTestSecret)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}

	if _, err := issuer.Verify(token); !errors.Is(err, ErrMissingClaim) {
		t.Errorf("expected ErrMissingClaim, got %v", err)
	}
}
