// ABOUTME: JWT token issuing and verification for authenticating API requests
// ABOUTME: Uses HMAC signing with configurable secret, algorithm and TTL

package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the minimum signing secret length in bytes
const MinSecretLength = 32

// DefaultTokenTTL is the token lifetime used when none is configured
const DefaultTokenTTL = 30 * time.Minute

// Token errors
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrMissingClaim = errors.New("missing required claim")
)

// signingMethods maps configurable algorithm names to their HMAC methods.
// Only the HMAC family is supported; rotating the secret invalidates all
// previously issued tokens.
var signingMethods = map[string]jwt.SigningMethod{
	"HS256": jwt.SigningMethodHS256,
	"HS384": jwt.SigningMethodHS384,
	"HS512": jwt.SigningMethodHS512,
}

// TokenVerifier defines the interface for token verification
type TokenVerifier interface {
	Verify(tokenString string) (userID int64, err error)
}

// Issuer issues and verifies HMAC-signed JWTs carrying a user identity
// in the "sub" claim.
type Issuer struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
}

// NewIssuer creates a token issuer. The secret must be at least
// MinSecretLength bytes, algorithm one of HS256, HS384 or HS512
// (empty defaults to HS256), and ttl defaults to DefaultTokenTTL
// when zero or negative.
func NewIssuer(secret []byte, algorithm string, ttl time.Duration) (*Issuer, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("signing secret must be at least %d bytes, got %d", MinSecretLength, len(secret))
	}

	if algorithm == "" {
		algorithm = "HS256"
	}
	method, ok := signingMethods[algorithm]
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}

	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	return &Issuer{secret: secret, method: method, ttl: ttl}, nil
}

// TTL returns the configured token lifetime.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue creates a signed token for the given user ID, expiring after the
// configured TTL.
func (i *Issuer) Issue(userID int64) (string, error) {
	return i.IssueWithTTL(userID, i.ttl)
}

// IssueWithTTL creates a signed token with an explicit lifetime.
func (i *Issuer) IssueWithTTL(userID int64, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(userID, 10),
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(i.method, claims)
	return token.SignedString(i.secret)
}

// Verify validates the token signature and expiry and extracts the user ID
// from the "sub" claim. An unverified claim is never trusted.
func (i *Issuer) Verify(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Only HMAC methods are acceptable; anything else is a forgery attempt
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrExpiredToken
		}
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return 0, fmt.Errorf("%w: sub", ErrMissingClaim)
	}

	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: sub", ErrMissingClaim)
	}

	return userID, nil
}
