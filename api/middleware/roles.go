package middleware

import (
	"net/http"

	"github.com/hostelworks/roster-backend/pkg/config"
	"github.com/hostelworks/roster-backend/pkg/enums"
)

const loginPath = "/login"

// RequireAuth redirects anonymous requests to the login page. Nothing about
// the reason is disclosed.
func RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if UserFromContext(r.Context()) == nil {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin gates a route to admin sessions. When auth is disabled the
// roster surface is open and the gate is a no-op.
func RequireAdmin(app config.AppConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !app.AuthEnabled {
				next.ServeHTTP(w, r)
				return
			}
			user := UserFromContext(r.Context())
			if user == nil || user.Role != enums.RoleAdmin {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole gates a route to sessions carrying the given role,
// unconditionally. The admin dashboard uses this so it stays closed even in
// an open-roster deployment.
func RequireRole(role enums.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil || user.Role != role {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
