package auth

import (
	"context"
)

var userCtxKey = &contextKey{"user"}
var claimsCtxKey = &contextKey{"claims"}

type contextKey struct {
	name string
}

// WithUserContext sets the public user in the given context
func WithUserContext(ctx context.Context, user *PublicUser) context.Context {
	return context.WithValue(ctx, userCtxKey, user)
}

// UserFromContext finds the public user from the context.
func UserFromContext(ctx context.Context) (*PublicUser, bool) {
	raw, ok := ctx.Value(userCtxKey).(*PublicUser)
	return raw, ok
}

// WithClaimsContext sets the verified token claims in the given context
func WithClaimsContext(ctx context.Context, claims *TokenClaims) context.Context {
	return context.WithValue(ctx, claimsCtxKey, claims)
}

// ClaimsFromContext extracts the verified token claims from the context
func ClaimsFromContext(ctx context.Context) (*TokenClaims, bool) {
	raw, ok := ctx.Value(claimsCtxKey).(*TokenClaims)
	return raw, ok
}
