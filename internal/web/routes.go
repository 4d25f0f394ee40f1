package web

import (
	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/photo-analyzer/internal/web/handlers"
	"github.com/kozaktomas/photo-analyzer/internal/web/middleware"
)

func (s *Server) setupRoutes() {
	// Create handlers
	analyzeHandler := handlers.NewAnalyzeHandler(s.analyzer, s.fetcher, s.logger)
	readyHandler := handlers.NewReadyHandler(s.analyzer.Detector(), s.logger)

	// Liveness and static documents
	s.router.Get("/", handlers.Root)
	s.router.Get("/health", handlers.HealthCheck)
	s.router.Get("/ready", readyHandler.Ready)
	s.router.Get("/measurements/guide", handlers.MeasurementsGuide)
	s.router.Get("/openapi.json", handlers.OpenAPI)

	// Analysis runs the pose model, so it is rate limited per client
	s.router.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(s.config.RateLimit, s.logger))

		r.Post("/analyze-photo", analyzeHandler.AnalyzePhoto)
		r.Post("/analyze-photo-file", analyzeHandler.AnalyzePhotoFile)
	})
}
