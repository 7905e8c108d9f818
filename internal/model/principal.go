package model

import "context"

type principalKey struct{}

type principal struct {
	user  *User
	token string
}

// WithPrincipal attaches the authenticated user and the bearer token it
// presented. Repositories forward the token to the event platform.
func WithPrincipal(ctx context.Context, user *User, token string) context.Context {
	return context.WithValue(ctx, principalKey{}, principal{user: user, token: token})
}

// UserFromContext returns the authenticated user, or nil
func UserFromContext(ctx context.Context) *User {
	if p, ok := ctx.Value(principalKey{}).(principal); ok {
		return p.user
	}
	return nil
}

// TokenFromContext returns the bearer token, or ""
func TokenFromContext(ctx context.Context) string {
	if p, ok := ctx.Value(principalKey{}).(principal); ok {
		return p.token
	}
	return ""
}
