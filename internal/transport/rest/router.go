package rest

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/frahmantamala/incident-management/internal/auth"
	"github.com/frahmantamala/incident-management/internal/document"
	"github.com/frahmantamala/incident-management/internal/incident"
	"github.com/frahmantamala/incident-management/internal/lessons"
	"github.com/frahmantamala/incident-management/internal/observation"
	"github.com/frahmantamala/incident-management/internal/transport/middleware"
	"github.com/frahmantamala/incident-management/internal/transport/swagger"
	"github.com/frahmantamala/incident-management/internal/useraccess"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers bundles everything the router mounts. Nil members are skipped, so
// deployments can run without optional subsystems (document storage, mail).
type Handlers struct {
	Auth        *auth.Handler
	UserAccess  *useraccess.Handler
	Incident    *incident.Handler
	Observation *observation.Handler
	Lessons     *lessons.Handler
	Document    *document.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS(splitOrigins(allowedOrigins)))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		// Health check route
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		if h.Auth != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", h.Auth.Login)
				sr.Post("/refresh", h.Auth.RefreshToken)
				sr.Post("/logout", h.Auth.Logout)
			})
		}

		if h.Auth == nil {
			return
		}

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			// Caller's resolved access record
			if h.UserAccess != nil {
				pr.Get("/users/me", h.UserAccess.Me)
				pr.Get("/user-access", h.UserAccess.Lookup)
			}

			// Incident routes
			if h.Incident != nil {
				pr.Route("/incidents", func(ir chi.Router) {
					ir.Post("/", h.Incident.CreateIncident)
					ir.Get("/", h.Incident.ListIncidents)
					ir.Get("/my", h.Incident.MyIncidents)
					ir.Get("/{id}", h.Incident.GetIncident)
					ir.Post("/{id}/submit", h.Incident.SubmitIncident)
					ir.Patch("/{id}/rca", h.Incident.UpdateRCA)
					ir.Patch("/{id}/close", h.Incident.CloseIncident)
					ir.Delete("/{id}", h.Incident.DeleteIncident)

					if h.Document != nil {
						ir.Get("/{id}/attachments/upload-url", h.Document.PresignUpload)
					}
				})
			}

			// Observation routes
			if h.Observation != nil {
				pr.Route("/observations", func(or chi.Router) {
					or.Post("/", h.Observation.CreateObservation)
					or.Get("/", h.Observation.ListObservations)
					or.Get("/{id}", h.Observation.GetObservation)
					or.Patch("/{id}/resolve", h.Observation.ResolveObservation)
				})
			}

			// Lessons learned routes
			if h.Lessons != nil {
				pr.Route("/lessons", func(lr chi.Router) {
					lr.Post("/", h.Lessons.CreateLesson)
					lr.Get("/", h.Lessons.ListLessons)
					lr.Get("/{id}", h.Lessons.GetLesson)

					lr.Group(func(ar chi.Router) {
						ar.Use(middleware.RequirePermissions(useraccess.PermApproveLessonsLearned))
						ar.Patch("/{id}/approve", h.Lessons.ApproveLesson)
					})
				})
			}

			// Attachment download by stored key
			if h.Document != nil {
				pr.Get("/attachments/download-url", h.Document.PresignDownload)
			}
		})
	})
}

func splitOrigins(allowedOrigins string) []string {
	if allowedOrigins == "" {
		return nil
	}
	parts := strings.Split(allowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
