package auth

import (
	"net/http"

	"github.com/mind-engage/interview-coach/internal/rbac"
)

// AttachStaticRole gives every request the same role and no subject. It
// stands in for JWTMiddleware when auth is disabled.
func AttachStaticRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(rbac.WithRole(r.Context(), role)))
		})
	}
}
