package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/acfortier/garage-backoffice/internal/appointment"
	"github.com/acfortier/garage-backoffice/internal/auth"
	"github.com/acfortier/garage-backoffice/internal/dashboard"
	"github.com/acfortier/garage-backoffice/internal/partner"
	"github.com/acfortier/garage-backoffice/internal/recruitment"
	"github.com/acfortier/garage-backoffice/internal/review"
	"github.com/acfortier/garage-backoffice/internal/team"
	"github.com/acfortier/garage-backoffice/internal/transport/middleware"
	"github.com/acfortier/garage-backoffice/internal/transport/swagger"
	"github.com/acfortier/garage-backoffice/internal/user"
)

type Handlers struct {
	Auth        *auth.Handler
	User        *user.Handler
	Recruitment *recruitment.Handler
	Review      *review.Handler
	Appointment *appointment.Handler
	Team        *team.Handler
	Partner     *partner.Handler
	Dashboard   *dashboard.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve the OpenAPI document at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		// Health check routes
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
			sr.Post("/employee-gate", h.Auth.EmployeeGate)
		})

		// Public site surface: no auth required
		r.Post("/users/register", h.User.Register)
		r.Get("/team", h.Team.List)
		r.Get("/partners", h.Partner.List)
		r.Get("/reviews", h.Review.Approved)
		r.Get("/recruitment/status", h.Recruitment.Status)
		r.Post("/applications", h.Recruitment.Submit)

		// Routes for any logged-in identity
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/users/me", h.User.GetCurrentUser)
			pr.Post("/reviews", h.Review.Submit)

			pr.Post("/appointments", h.Appointment.Book)
			pr.Get("/appointments/mine", h.Appointment.Mine)
			pr.Post("/appointments/{id}/cancel", h.Appointment.Cancel)
		})

		// Back-office surface: a staff identity or the employee gate
		r.Group(func(br chi.Router) {
			br.Use(h.Auth.GateOrAuthMiddleware)
			br.Use(middleware.RequireDashboard)

			br.Get("/dashboard/notifications", h.Dashboard.Notifications)

			br.Route("/admin/users", func(ur chi.Router) {
				ur.Get("/", h.User.List)
				ur.Patch("/{id}", h.User.Update)
				ur.Delete("/{id}", h.User.Delete)
			})

			br.Route("/admin/applications", func(ar chi.Router) {
				ar.Get("/", h.Recruitment.ListApplications)
				ar.Patch("/{id}/status", h.Recruitment.Advance)
				ar.Delete("/{id}", h.Recruitment.DeleteApplication)
			})

			br.Route("/admin/recruitment", func(rr chi.Router) {
				rr.Post("/open", h.Recruitment.OpenRecruitment)
				rr.Post("/close", h.Recruitment.CloseRecruitment)
				rr.Get("/sessions", h.Recruitment.ListSessions)
				rr.Post("/sessions", h.Recruitment.CreateSession)
				rr.Delete("/sessions/{id}", h.Recruitment.DeleteSession)
			})

			br.Route("/admin/reviews", func(vr chi.Router) {
				vr.Get("/", h.Review.List)
				vr.Patch("/{id}/approve", h.Review.Approve)
				vr.Patch("/{id}/reject", h.Review.Reject)
				vr.Delete("/{id}", h.Review.Delete)
			})

			br.Route("/admin/appointments", func(ar chi.Router) {
				ar.Get("/", h.Appointment.List)
				ar.Patch("/{id}/status", h.Appointment.Respond)
				ar.Delete("/{id}", h.Appointment.Delete)
			})

			br.Route("/admin/team", func(tr chi.Router) {
				tr.Post("/", h.Team.Create)
				tr.Patch("/{id}", h.Team.Update)
				tr.Post("/{id}/move", h.Team.Move)
				tr.Delete("/{id}", h.Team.Delete)
			})

			br.Route("/admin/partners", func(pr chi.Router) {
				pr.Post("/", h.Partner.Create)
				pr.Patch("/{id}", h.Partner.Update)
				pr.Delete("/{id}", h.Partner.Delete)
			})
		})
	})
}
