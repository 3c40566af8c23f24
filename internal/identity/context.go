package identity

import (
	"context"

	"github.com/trusthub/trusthub/internal/rbac"
)

type identityContextKey struct{}
type jtiContextKey struct{}

// ContextWith stores the session identity and its token JTI in the context.
func ContextWith(ctx context.Context, id SessionIdentity, jti string) context.Context {
	ctx = context.WithValue(ctx, identityContextKey{}, &id)
	if jti != "" {
		ctx = context.WithValue(ctx, jtiContextKey{}, jti)
	}
	return ctx
}

// FromContext extracts the session identity from the context.
func FromContext(ctx context.Context) (SessionIdentity, bool) {
	v, ok := ctx.Value(identityContextKey{}).(*SessionIdentity)
	if !ok || v == nil {
		return SessionIdentity{}, false
	}
	return *v, true
}

// RoleFromContext extracts just the global role; shaped to satisfy
// rbac.RoleResolver.
func RoleFromContext(ctx context.Context) (rbac.Role, bool) {
	id, ok := FromContext(ctx)
	if !ok {
		return "", false
	}
	return id.Role, true
}

// JTIFromContext returns the JTI of the token the request authenticated with.
func JTIFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(jtiContextKey{}).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
