package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/kozaktomas/photo-analyzer/internal/analyzer"
	"github.com/kozaktomas/photo-analyzer/internal/config"
	"github.com/kozaktomas/photo-analyzer/internal/constants"
	"github.com/kozaktomas/photo-analyzer/internal/web/middleware"
)

// Server represents the web server
type Server struct {
	config     *config.Config
	router     *chi.Mux
	httpServer *http.Server
	analyzer   *analyzer.Analyzer
	fetcher    analyzer.ImageFetcher
	logger     *logrus.Logger
}

// NewServer creates a new web server
func NewServer(cfg *config.Config, a *analyzer.Analyzer, fetcher analyzer.ImageFetcher, logger *logrus.Logger) *Server {
	r := chi.NewRouter()

	s := &Server{
		config:   cfg,
		router:   r,
		analyzer: a,
		fetcher:  fetcher,
		logger:   logger,
	}

	// Set up middleware stack
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(constants.RequestTimeout))
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// Set up routes
	s.setupRoutes()

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      constants.RequestTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          log.New(logger.WriterLevel(logrus.WarnLevel), "", 0),
	}

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.WithFields(logrus.Fields{
		"addr":     s.httpServer.Addr,
		"detector": s.analyzer.Detector().Name(),
	}).Info("starting web server")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down web server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

// Router returns the chi router for testing
func (s *Server) Router() *chi.Mux {
	return s.router
}
