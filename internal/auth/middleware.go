// ABOUTME: HTTP middleware for JWT authentication on task endpoints
// ABOUTME: Extracts bearer token from Authorization header and adds identity to context

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/hivelabs/taskhive/internal/store"
)

// UserLookup resolves a token subject to a stored user.
type UserLookup interface {
	GetUserByID(ctx context.Context, id int64) (*store.User, error)
}

// extractBearerToken extracts a bearer token from the Authorization header.
// Returns the token and an error message (empty if successful).
func extractBearerToken(authHeader string) (string, string) {
	if authHeader == "" {
		return "", "missing authorization header"
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", "invalid authorization header format"
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", "empty token"
	}
	return token, ""
}

// RequireAuth creates an HTTP middleware that extracts and validates bearer
// tokens. On success the resolved Identity is added to the request context;
// any failure aborts the request with 401 before it reaches a handler.
// This is the single enforcement point for authenticated routes.
func RequireAuth(users UserLookup, verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, errMsg := extractBearerToken(r.Header.Get("Authorization"))
			if errMsg != "" {
				unauthorized(w, errMsg)
				return
			}

			userID, err := verifier.Verify(token)
			if err != nil {
				// One generic message for tampered, malformed and expired tokens
				unauthorized(w, "invalid token")
				return
			}

			user, err := users.GetUserByID(r.Context(), userID)
			if err != nil {
				unauthorized(w, "invalid token")
				return
			}

			identity := &Identity{UserID: user.ID, Email: user.Email}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"` + msg + `"}`))
}
