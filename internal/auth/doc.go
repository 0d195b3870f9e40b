// Package auth provides authentication for taskhive.
//
// # Credentials
//
// Passwords are hashed with bcrypt (HashPassword/CheckPassword). Hashes are
// salted and slow on purpose; verification is constant time.
//
// # Tokens
//
// API clients authenticate with HMAC-signed JWTs issued at login:
//
//	issuer, err := auth.NewIssuer(secret, "HS256", 30*time.Minute)
//	token, err := issuer.Issue(userID)
//	userID, err := issuer.Verify(token)
//
// The "sub" claim carries the user id. Tokens are verified statelessly; there
// is no revocation list, expiry is the only invalidation mechanism, and
// rotating the secret invalidates everything issued before.
//
// # Middleware
//
// RequireAuth guards a route subtree. It extracts the bearer token from the
// Authorization header, verifies it, confirms the subject user still exists,
// and attaches an Identity to the request context:
//
//	r.Use(auth.RequireAuth(store, issuer))
//
// Handlers read the identity back with IdentityFromContext or
// MustIdentityFromContext.
package auth
