package httpserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/stockware/stockroom/pkg/auth"
	"github.com/stockware/stockroom/pkg/logger"
)

type contextKey string

// ClaimsContextKey carries the validated JWT claims of a request
const ClaimsContextKey contextKey = "claims"

// AuthMiddleware validates the bearer token and stores the claims in
// the request context
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}

		claims, err := auth.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			logger.Warn(r.Context()).
				Err(err).
				Str("path", r.URL.Path).
				Msg("Token validation failed")
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromContext returns the claims stored by AuthMiddleware
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*auth.Claims)
	return claims, ok
}
