package middleware

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/incident-management/internal/useraccess"
)

// RequirePermissions creates a middleware that rejects callers whose resolved
// access record carries none of the named permission flags.
func RequirePermissions(permissions ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := useraccess.RecordFromContext(r.Context())
			if user == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			hasPermission := false
			for _, name := range permissions {
				if user.Permissions.Has(name) {
					hasPermission = true
					break
				}
			}

			if !hasPermission {
				slog.Warn("access denied: caller lacks required permissions",
					"email", user.Email,
					"role_title", user.RoleTitle,
					"required_permissions", permissions)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
