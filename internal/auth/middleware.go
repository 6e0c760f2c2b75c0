package auth

import (
	"context"
	"net/http"

	"github.com/symplora/leave-management/internal"
	"github.com/symplora/leave-management/internal/transport"
	"github.com/symplora/leave-management/pkg/logger"
)

type contextKey string

const claimsContextKey contextKey = "auth_claims"

// ClaimsFromContext returns the verified claims placed by Middleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*Claims)
	return claims, ok
}

// Middleware verifies the bearer token and stores the claims on the request
// context. Optionally restricts the route to the given roles; with no roles
// listed any authenticated user passes.
func Middleware(tokens *TokenManager, roles ...Role) func(http.Handler) http.Handler {
	base := transport.NewBaseHandler(logger.L())

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := base.ExtractTokenFromHeader(r)
			if tokenString == "" {
				base.WriteError(w, http.StatusUnauthorized, "Authorization header required", string(internal.ErrCodeInvalidToken))
				return
			}

			claims, err := tokens.ValidateToken(tokenString)
			if err != nil {
				base.HandleServiceError(w, err)
				return
			}
			if claims.TokenType != "access" {
				base.HandleServiceError(w, internal.ErrInvalidToken)
				return
			}

			if len(roles) > 0 && !roleAllowed(claims.Role, roles) {
				base.WriteError(w, http.StatusForbidden, "Insufficient permissions", string(internal.ErrCodeForbidden))
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func roleAllowed(role Role, allowed []Role) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}
