package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"gochisq/app"
	"gochisq/internal"
)

// maxBodyBytes caps request bodies; tables are small
const maxBodyBytes = 1 << 20

// Server exposes the evaluation service over JSON/HTTP
type Server struct {
	router  *chi.Mux
	service *app.EvaluationService
	logger  *internal.Logger
	config  Config
}

// Config holds HTTP server settings
type Config struct {
	Port           string
	RequestTimeout time.Duration
}

// NewServer creates a server with middleware and routes configured
func NewServer(service *app.EvaluationService, logger *internal.Logger, config Config) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = 30 * time.Second
	}
	s := &Server{
		router:  chi.NewRouter(),
		service: service,
		logger:  logger,
		config:  config,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures HTTP middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.config.RequestTimeout))
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/tests", s.handleListTests)
		r.Post("/tests/{name}", s.handleEvaluate)
		r.Post("/batch", s.handleBatch)
		r.Post("/power-divergence", s.handlePowerDivergence)
		r.Get("/critical-value", s.handleCriticalValue)
		r.Get("/evaluations", s.handleListEvaluations)
		r.Get("/evaluations/{id}", s.handleGetEvaluation)
	})
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := ":" + s.config.Port
	s.logger.Info("starting categorical test API on %s", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}
