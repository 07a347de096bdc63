package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var defaultOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// SetupRoutes configures all API routes.
func SetupRoutes(h *Handlers, hc *HealthChecker, origins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(Metrics)

	if len(origins) == 0 {
		origins = defaultOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{
			"X-Import-Received", "X-Import-Valid", "X-Import-Inserted",
			"X-Import-Skipped-Invalid", "X-Import-Skipped-Duplicate-Email",
			"X-Import-Skipped-Duplicate-Fallback", "X-Import-Skipped-Suppressed",
			"X-Import-Skipped-Other",
		},
		MaxAge: 300,
	}))

	// Ops
	if hc != nil {
		r.Get("/health", hc.HandleHealth)
		r.Get("/health/live", hc.HandleLiveness)
		r.Get("/health/ready", hc.HandleReadiness)
		r.Get("/health/db", hc.HandleDBStats)
	} else {
		r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	}
	r.Handle("/metrics", promhttp.Handler())

	// Prospects
	r.Route("/prospects", func(r chi.Router) {
		r.Get("/", h.ListProspects)
		r.Post("/", h.CreateProspect)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetProspect)
			r.Patch("/", h.UpdateProspect)
			r.Delete("/", h.DeleteProspect)
			r.Patch("/archive", h.ArchiveProspect)
			r.Patch("/restore", h.RestoreProspect)
			r.Patch("/suppress", h.SuppressProspect)
			r.Patch("/unsuppress", h.UnsuppressProspect)
			r.Get("/notes", h.ListNotes)
			r.Post("/notes", h.CreateNote)
			r.Get("/fit", h.ScoreProspect)
			r.Post("/push", h.PushProspect)
		})
	})
	r.Delete("/notes/{id}", h.DeleteNote)

	// Sources
	r.Route("/sources", func(r chi.Router) {
		r.Get("/", h.ListSources)
		r.Post("/", h.CreateSource)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetSource)
			r.Patch("/", h.UpdateSource)
			r.Delete("/", h.DeleteSource)
			r.Post("/prospects/bulk", h.BulkImportProspects)
			r.Post("/score", h.ScoreSource)
			r.Post("/export", h.ExportSource)
		})
	})

	// Campaigns and social posts
	r.Route("/campaigns", func(r chi.Router) {
		r.Get("/", h.ListCampaigns)
		r.Post("/", h.CreateCampaign)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetCampaign)
			r.Patch("/", h.UpdateCampaign)
			r.Delete("/", h.DeleteCampaign)
			r.Get("/posts", h.ListPosts)
			r.Post("/posts", h.CreatePost)
			r.Post("/posts/suggestions", h.SuggestPosts)
		})
	})
	r.Patch("/posts/{id}", h.UpdatePost)
	r.Delete("/posts/{id}", h.DeletePost)

	// Enrichment
	r.Get("/domains/{host}", h.GetDomainProfile)

	return r
}
