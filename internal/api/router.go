package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	mw "github.com/vendorguard/vendorguard/internal/middleware"
	"github.com/vendorguard/vendorguard/internal/services"
)

// Router wires HTTP routes to the service layer. Authentication is
// resolved by middleware; every handler re-derives the acting user
// from the request context and passes it down.
type Router struct {
	Auth          *services.AuthService
	Assessments   *services.AssessmentService
	Suppliers     *services.SupplierService
	Submissions   *services.SubmissionService
	Notifications *services.NotificationService
	Export        *services.ExportService
	Analytics     *services.AnalyticsService
}

func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(mw.SecureHeaders)
	r.Use(mw.CORS)
	r.Use(mw.NoStore)
	r.Use(mw.WithAuth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", rt.handleRegister)
		r.Post("/auth/login", rt.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireAuth)

			r.Route("/assessments", func(r chi.Router) {
				r.Get("/", rt.handleListAssessments)
				r.Post("/", rt.handleCreateAssessment)
				r.Get("/{id}", rt.handleGetAssessment)
				r.Get("/{id}/questions", rt.handleListQuestions)
				r.Post("/{id}/questions", rt.handleAddQuestion)
				r.Post("/{id}/submissions", rt.handleStartSubmission)
			})

			r.Route("/suppliers", func(r chi.Router) {
				r.Get("/", rt.handleListSuppliers)
				r.Post("/", rt.handleInviteSupplier)
				r.Get("/{id}", rt.handleGetSupplier)
			})
			r.Post("/invitations/{token}/accept", rt.handleAcceptInvitation)

			r.Route("/submissions", func(r chi.Router) {
				r.Put("/{id}/answers", rt.handleSaveAnswer)
				r.Post("/{id}/submit", rt.handleSubmit)
				r.Post("/{id}/review", rt.handleReview)
				r.Put("/{id}/evidence-status", rt.handleEvidenceStatus)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", rt.handleListNotifications)
				r.Post("/{id}/read", rt.handleMarkRead)
			})

			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(services.RoleVendor, services.RoleAdmin))
				r.Get("/export/results", rt.handleExportResults)
				r.Get("/analytics/summary", rt.handleAnalyticsSummary)
			})
		})
	})

	return r
}
