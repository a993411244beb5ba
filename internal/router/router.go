package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/d8app/d8-backend/app/logger"
	"github.com/d8app/d8-backend/internal/api"
	"github.com/d8app/d8-backend/internal/api/images"
	"github.com/d8app/d8-backend/internal/api/profiles"
	"github.com/d8app/d8-backend/internal/api/recommendation"
)

// Dependencies carries the wired handlers and services the router
// exposes over HTTP.
type Dependencies struct {
	Recommendations *recommendation.Handler
	Profiles        *profiles.Handler
	Images          *images.Service
	AIConfigured    bool
	Logger          *slog.Logger
}

func SetupRouter(deps Dependencies, timeout time.Duration) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(logger.StructuredLogger(deps.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.StripSlashes)
	r.Use(chimiddleware.Timeout(timeout))
	r.Use(chimiddleware.Compress(5, "application/json"))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/", deps.rootHandler)
	r.Get("/health", deps.healthHandler)
	r.Get("/image-service-status", deps.imageStatusHandler)

	r.Post("/recommendations", deps.Recommendations.GetRecommendations)
	r.Post("/explore", deps.Recommendations.GetExploreIdeas)
	r.Post("/feedback", deps.Profiles.RecordFeedback)
	r.Post("/interactions", deps.Profiles.RecordInteraction)

	return r
}

func (d Dependencies) rootHandler(w http.ResponseWriter, r *http.Request) {
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"service": "d8-backend",
		"message": "AI-powered date recommendation API",
		"endpoints": map[string]string{
			"recommendations":      "POST /recommendations",
			"explore":              "POST /explore",
			"feedback":             "POST /feedback",
			"interactions":         "POST /interactions",
			"health":               "GET /health",
			"image_service_status": "GET /image-service-status",
		},
	})
}

func (d Dependencies) healthHandler(w http.ResponseWriter, r *http.Request) {
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"services": map[string]bool{
			"ai":     d.AIConfigured,
			"images": d.Images != nil,
		},
	})
}

func (d Dependencies) imageStatusHandler(w http.ResponseWriter, r *http.Request) {
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"providers": d.Images.Status(),
	})
}
