package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/community-ops/internal/community"
	"github.com/frahmantamala/community-ops/internal/dashboard"
	"github.com/frahmantamala/community-ops/internal/report"
	"github.com/frahmantamala/community-ops/internal/session"
	"github.com/frahmantamala/community-ops/internal/transport/middleware"
	"github.com/frahmantamala/community-ops/internal/transport/swagger"
	"github.com/frahmantamala/community-ops/internal/visibility"
)

// Handlers collects everything the router mounts.
type Handlers struct {
	Session       *session.Handler
	AccessControl *AccessControlHandler
	Visibility    *visibility.Handler
	Community     *community.Handler
	Report        *report.Handler
	Dashboard     *dashboard.Handler
	VisibilityMW  *visibility.Middleware
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// OpenAPI spec at root plus the swagger UI
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Session routes
		r.Route("/session", func(sr chi.Router) {
			sr.Post("/login", h.Session.Login)
			sr.Post("/refresh", h.Session.RefreshToken)
			sr.Post("/logout", h.Session.Logout)
		})

		// Access template catalog is static reference data, no auth needed.
		r.Get("/access/templates", h.AccessControl.GetTemplates)

		// Protected routes that require a resolved principal
		r.Group(func(pr chi.Router) {
			pr.Use(h.Session.AuthMiddleware)

			pr.Get("/session/me", h.Session.GetCurrentUser)
			pr.Post("/session/role", h.Session.SwitchRole)

			pr.Get("/access/summary", h.AccessControl.GetSummary)
			pr.Get("/access/check", h.AccessControl.CheckAccess)
			pr.Post("/access/request", h.Visibility.ComposeAccessRequest)

			pr.Get("/communities", h.Community.GetCommunities)
			pr.Get("/communities/{id}", h.Community.GetCommunity)

			pr.Route("/reports", func(rr chi.Router) {
				rr.Get("/", h.Report.ListReports)
				rr.Post("/", h.Report.CreateReport)
				rr.Post("/from-template", h.Report.CreateFromTemplate)
				rr.Get("/{id}", h.Report.GetReport)
				rr.Put("/{id}", h.Report.UpdateReport)
				rr.Delete("/{id}", h.Report.DeleteReport)
			})

			// Dashboard routes sit behind the community visibility gate.
			pr.Group(func(dr chi.Router) {
				dr.Use(h.VisibilityMW.RequireCommunity("communityID"))
				dr.Get("/dashboard/{communityID}", h.Dashboard.GetDashboard)
			})
		})
	})
}
