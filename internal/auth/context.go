// ABOUTME: Authentication context for tracking identity through request handlers
// ABOUTME: Provides WithIdentity/IdentityFromContext for propagating auth info via context

package auth

import (
	"context"
)

// Identity holds the authenticated user information extracted from a request.
// It is populated by the auth middleware and retrieved from context in handlers.
type Identity struct {
	UserID int64
	Email  string
}

// identityKey is the key type for storing Identity in context.Context.
type identityKey struct{}

// WithIdentity returns a new context with the Identity attached.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext retrieves the Identity from the context, returning nil if not present.
func IdentityFromContext(ctx context.Context) *Identity {
	val := ctx.Value(identityKey{})
	if val == nil {
		return nil
	}
	id, ok := val.(*Identity)
	if !ok {
		return nil
	}
	return id
}

// MustIdentityFromContext retrieves the Identity from the context, panicking if not present.
func MustIdentityFromContext(ctx context.Context) *Identity {
	id := IdentityFromContext(ctx)
	if id == nil {
		panic("auth: Identity not found in context")
	}
	return id
}
