package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/Raj-3200/depthndecoy/internal/auth"
)

type contextKey string

const userContextKey contextKey = "user"

// TokenVerifier resolves a bearer token to the authenticated user.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*auth.User, error)
}

// AuthMiddleware resolves the Authorization header when present.
// Routes that require a user call requireUser; public routes just get
// the user in context when the client sent a valid token.
func AuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				respondError(w, http.StatusUnauthorized, "invalid_token", "malformed authorization header")
				return
			}

			user, err := verifier.VerifyToken(r.Context(), token)
			if err != nil {
				respondError(w, http.StatusUnauthorized, "invalid_token", "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func userFromContext(ctx context.Context) *auth.User {
	if user, ok := ctx.Value(userContextKey).(*auth.User); ok {
		return user
	}
	return nil
}

// requireUser writes a 401 and returns nil when the request carries no
// authenticated user.
func requireUser(w http.ResponseWriter, r *http.Request) *auth.User {
	user := userFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return nil
	}
	return user
}
