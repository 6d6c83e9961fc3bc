package routes

import (
	"dispatch-app/backend/internal/api"
	"dispatch-app/backend/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterAPIRoutes mounts everything under /api. tokens may be nil, in
// which case the API is open.
func RegisterAPIRoutes(r chi.Router, handlers *api.Handlers, deps *api.Dependencies, tokens middleware.TokenValidator, uploads *middleware.RateLimiter) {
	r.Route("/api", func(a chi.Router) {
		a.Use(middleware.InFlightMiddleware(deps.Metrics, "api"))
		if tokens != nil {
			a.Use(middleware.AuthMiddleware(tokens))
		}

		a.Route("/jobs", func(jobs chi.Router) {
			jobs.Get("/", handlers.ListJobs())
			jobs.Post("/", handlers.CreateJob())
			jobs.Post("/bulk", handlers.BulkCreateJobs())

			jobs.Route("/{id}", func(job chi.Router) {
				job.Get("/", handlers.GetJob())
				job.Put("/", handlers.UpdateJob())
				job.Patch("/", handlers.UpdateJob())
				job.Delete("/", handlers.DeleteJob())
				job.Post("/assign", handlers.AssignJob())
				job.Post("/unassign", handlers.UnassignJob())
				job.Post("/status", handlers.ChangeJobStatus())
				job.Patch("/workflow", handlers.PatchJobWorkflow())
			})
		})

		a.Route("/drivers", func(drivers chi.Router) {
			drivers.Get("/", handlers.ListDrivers())
			drivers.Post("/", handlers.CreateDriver())
			drivers.Get("/{id}", handlers.GetDriver())
			drivers.Put("/{id}", handlers.UpdateDriver())
			drivers.Patch("/{id}", handlers.UpdateDriver())
			drivers.Delete("/{id}", handlers.DeleteDriver())
		})

		a.Route("/imports", func(imports chi.Router) {
			imports.With(uploads.Middleware).Post("/", handlers.UploadImport())
			imports.Get("/template", handlers.ImportTemplate())
			imports.Get("/{id}", handlers.GetImport())
			imports.Post("/{id}/commit", handlers.CommitImport())
			imports.Delete("/{id}", handlers.DiscardImport())
		})

		a.Route("/analytics", func(analytics chi.Router) {
			analytics.Get("/summary", handlers.AnalyticsSummary())
			analytics.Get("/reports/{report}", handlers.Report())
		})
		a.Get("/calendar", handlers.Calendar())
	})
}
