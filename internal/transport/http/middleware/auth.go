package middleware

import (
	"context"
	"net/http"
	"strings"

	"hourbank/internal/domain/auth"
)

type ctxKey string

const ctxKeyPrincipal ctxKey = "principal"

// Auth attaches the bearer token's principal when the token is valid. Requests
// without one pass through unauthenticated; handlers and RequirePermission
// decide what that means.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, parts[1])
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithPrincipal(r.Context(), auth.PrincipalFromClaims(claims))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func WithPrincipal(ctx context.Context, p *auth.Principal) context.Context {
	return context.WithValue(ctx, ctxKeyPrincipal, p)
}

// GetPrincipal returns nil for unauthenticated requests.
func GetPrincipal(ctx context.Context) *auth.Principal {
	p, _ := ctx.Value(ctxKeyPrincipal).(*auth.Principal)
	return p
}
