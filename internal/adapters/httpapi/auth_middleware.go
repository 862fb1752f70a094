package httpapi

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// NewAdminTokenMiddleware enforces Authorization: Bearer <token> for admin routes.
//
// An empty token rejects every request, so callers only install it when a token is configured.
func NewAdminTokenMiddleware(token string) func(http.Handler) http.Handler {
	want := []byte(token)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if authz == "" {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing Authorization header", nil)
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(authz, prefix) {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "malformed Authorization header", nil)
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, prefix))
			if raw == "" {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token", nil)
				return
			}
			if len(want) == 0 || subtle.ConstantTimeCompare([]byte(raw), want) != 1 {
				writeError(w, r, http.StatusForbidden, "FORBIDDEN", "invalid admin token", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
