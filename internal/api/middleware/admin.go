package middleware

import (
	"net/http"

	"github.com/Rrens/legal-assistant/internal/api/response"
)

// AdminChecker reports whether the admin session is open
type AdminChecker interface {
	IsAdmin() bool
}

// RequireAdmin rejects requests with 403 until the admin has logged in
func RequireAdmin(gate AdminChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !gate.IsAdmin() {
				response.Forbidden(w, "admin login required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
