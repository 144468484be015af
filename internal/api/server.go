// Package api provides the HTTP API surface: routing, request DTOs, and
// handlers over the service layer.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/skillforge/skillforge-server/internal/config"
	"github.com/skillforge/skillforge-server/internal/ratelimit"
	"github.com/skillforge/skillforge-server/internal/service"
	"github.com/skillforge/skillforge-server/internal/store"
	"github.com/skillforge/skillforge-server/internal/validation"
)

// Services bundles the service layer dependencies for the API server.
type Services struct {
	Course         *service.CourseService
	Tag            *service.TagService
	User           *service.UserService
	Educator       *service.EducatorService
	Recommendation *service.RecommendationService
	Search         *service.SearchService
}

// Server is the HTTP API server.
type Server struct {
	config     *config.Config
	store      *store.Store
	services   *Services
	router     *chi.Mux
	api        huma.API
	httpServer *http.Server
	logger     *slog.Logger
	validator  *validation.Validator

	// recLimiter throttles recommendation requests per viewer; the
	// pipeline reads the full candidate pool per request.
	recLimiter *ratelimit.KeyedRateLimiter
}

// New creates a fully wired API server.
func New(cfg *config.Config, st *store.Store, services *Services, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Viewer-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	humaConfig := huma.DefaultConfig("SkillForge API", "1.0.0")
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		config:     cfg,
		store:      st,
		services:   services,
		router:     router,
		api:        api,
		logger:     logger,
		validator:  validation.New(),
		recLimiter: ratelimit.New(cfg.Server.RecommendRPS, cfg.Server.RecommendBurst),
	}

	s.registerHealthRoutes()
	s.registerCourseRoutes()
	s.registerTagRoutes()
	s.registerUserRoutes()
	s.registerEducatorRoutes()
	s.registerRecommendationRoutes()

	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s
}

// Start begins serving HTTP requests. Blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server, draining in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	s.recLimiter.Stop()
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the underlying router, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}
