// Package web provides the HTTP API over the validation engine.
//
// It is a thin collaborator shell: schemas and rows come in as JSON, the
// result envelope goes back out unchanged. No persistence, delivery, or UI
// lives here.
package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/rowforge/rowforge/internal/config"
	"github.com/rowforge/rowforge/internal/engine"
	"github.com/rowforge/rowforge/internal/web/middleware"
)

// Server is the HTTP server for the import validation API.
type Server struct {
	service *engine.Service
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server
}

// NewServer creates a new Server instance.
func NewServer(service *engine.Service, cfg *config.Config) *Server {
	s := &Server{
		service: service,
		cfg:     cfg,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(middleware.Logger)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(chimiddleware.Compress(5))
	s.router.Use(chimiddleware.Timeout(s.cfg.Server.RequestTimeout))

	// The importer is embedded in third-party pages, so the API is called
	// cross-origin by design.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         s.cfg.CORS.MaxAge,
	}))

	if s.cfg.Rate.Enabled {
		limiter := newRateLimiter(s.cfg.Rate.RequestsPerMinute)
		s.router.Use(limiter.middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Preset schemas
		r.Get("/schemas", s.handleListSchemas)
		r.Get("/schemas/{schemaKey}", s.handleGetSchema)

		// Synchronous validation for small datasets
		r.Post("/validate", s.handleValidate)

		// Asynchronous import jobs
		r.Post("/imports", s.handleStartImport)
		r.Get("/imports/{jobID}/progress", s.handleImportProgress)
		r.Get("/imports/{jobID}/result", s.handleImportResult)
		r.Delete("/imports/{jobID}", s.handleCancelImport)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}
