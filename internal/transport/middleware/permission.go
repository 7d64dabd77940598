package middleware

import (
	"log/slog"
	"net/http"

	"github.com/acfortier/garage-backoffice/internal/auth"
)

// RequireDashboard gates the back-office surface: direction, dev and rh
// identities pass, and so does the legacy employee gate. Finer rules stay in
// the services.
func RequireDashboard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := auth.ActorFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		if !auth.CanAccessDashboard(actor) {
			slog.Warn("dashboard access denied",
				"user_id", actor.UserID,
				"grade", actor.Grade)
			http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
