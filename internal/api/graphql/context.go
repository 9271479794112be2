package graphql

import (
	"context"

	"github.com/accountsvc/user-service/internal/core/token"
)

type contextKey struct{}

var claimsContextKey contextKey

// WithClaims attaches verified identity claims to a request context. A nil
// claims value leaves the context anonymous; resolvers treat a bad or missing
// token identically (optional auth — guards decide later).
func WithClaims(ctx context.Context, claims *token.Claims) context.Context {
	if claims == nil {
		return ctx
	}
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFrom returns the claims attached to ctx, or nil for anonymous callers.
func ClaimsFrom(ctx context.Context) *token.Claims {
	claims, _ := ctx.Value(claimsContextKey).(*token.Claims)
	return claims
}
