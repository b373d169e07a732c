package auth

import (
	"context"

	"github.com/petcommunity/petcommunity/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const authContextKey contextKey = "auth_context"

// ContextWithAuth adds AuthContext to the context.
func ContextWithAuth(ctx context.Context, auth *model.AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey, auth)
}

// AuthFromContext retrieves AuthContext from the context.
// Returns nil if not present.
func AuthFromContext(ctx context.Context) *model.AuthContext {
	auth, ok := ctx.Value(authContextKey).(*model.AuthContext)
	if !ok {
		return nil
	}
	return auth
}

// UserIDFromContext returns the authenticated user id, or false when the
// request did not pass through the bearer middleware.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	auth := AuthFromContext(ctx)
	if auth == nil {
		return 0, false
	}
	return auth.UserID, true
}
