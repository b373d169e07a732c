package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/petcommunity/petcommunity/internal/auth"
	"github.com/petcommunity/petcommunity/internal/model"
	"github.com/petcommunity/petcommunity/internal/service"
)

// IdentityResolver turns a bearer token into a caller identity.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, token string) (*model.AuthContext, error)
}

// Auth returns a middleware that requires a valid bearer token.
// Missing or invalid tokens get 401; a token whose identity is not a user id
// string gets 422.
func Auth(resolver IdentityResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				logAuthFailure(logger, r, "missing_token")
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid bearer token")
				return
			}

			identity, err := resolver.ResolveIdentity(r.Context(), token)
			if err != nil {
				if errors.Is(err, service.ErrIdentityType) {
					logAuthFailure(logger, r, "invalid_identity")
					writeError(w, http.StatusUnprocessableEntity, "INVALID_IDENTITY", "Token identity must be a user id string")
					return
				}
				logAuthFailure(logger, r, "invalid_token")
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid bearer token")
				return
			}

			ctx := auth.ContextWithAuth(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken returns the token from "Authorization: Bearer <token>".
// The scheme is matched case-insensitively.
func extractBearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func logAuthFailure(logger *slog.Logger, r *http.Request, reason string) {
	logger.Warn("authentication failed",
		slog.String("reason", reason),
		slog.String("ip", r.RemoteAddr),
		slog.String("endpoint", r.Method+" "+r.URL.Path),
		slog.String("request_id", GetRequestID(r.Context())),
	)
}
