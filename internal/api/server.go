package api

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"railannouncements/internal/announcement"
	"railannouncements/internal/api/handlers"
	"railannouncements/internal/api/middleware"
	"railannouncements/internal/config"
	"railannouncements/internal/darwin"
	"railannouncements/internal/presets"
	"railannouncements/internal/rtt"
)

// Deps are the collaborators the HTTP surface is built on.
type Deps struct {
	DB        *sql.DB
	Presets   *presets.Store
	Enricher  *darwin.Enricher
	RTT       *rtt.Client
	Registry  *announcement.Registry
	PresetCfg config.PresetConfig
}

type Server struct {
	cfg    config.ServerConfig
	db     *sql.DB
	logger *log.Logger

	saveLimiter *middleware.RateLimiter
	srv         *http.Server
}

func NewServer(cfg config.ServerConfig, deps Deps, logger *log.Logger) (*Server, error) {
	s := &Server{
		cfg:         cfg,
		db:          deps.DB,
		logger:      logger,
		saveLimiter: middleware.NewRateLimiter(deps.PresetCfg.SaveRatePerMinute, time.Minute),
	}

	handler, err := s.routes(deps)
	if err != nil {
		s.saveLimiter.Stop()
		return nil, err
	}

	s.srv = &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s, nil
}

// Handler exposes the router for in-process tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

func (s *Server) Start() error {
	s.logger.Printf("api: starting server on %s", s.srv.Addr)
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		s.logger.Printf("api: server stopped")
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Print("api: shutting down server")
	s.saveLimiter.Stop()
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Printf("api: error during server shutdown: %v", err)
		return err
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Printf("api: error closing database: %v", err)
		} else {
			s.logger.Print("api: database connection closed")
		}
	}
	return nil
}

func (s *Server) routes(deps Deps) (http.Handler, error) {
	presetHandler, err := handlers.NewPresetHandler(deps.Presets, deps.PresetCfg.MaxStateBytes, s.logger)
	if err != nil {
		return nil, err
	}
	departures := handlers.NewDeparturesHandler(deps.Enricher, s.logger)
	rttHandler := handlers.NewRTTHandler(deps.RTT, s.logger)
	announcements := handlers.NewAnnouncementHandler(deps.Registry, s.logger)
	health := handlers.NewHealthHandler(deps.DB)

	r := chi.NewRouter()

	r.Use(middleware.Logging(s.logger))
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.Security)
	r.Use(middleware.Compression(middleware.DefaultCompressionConfig()))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json;charset=UTF-8")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":true,"message":"Not found"}` + "\n"))
	})

	r.Get("/healthz", health.Health)

	r.Get("/get-services", departures.GetServices)
	r.Get("/get-service-rtt", rttHandler.GetService)

	r.With(s.saveLimiter.Handler).Post("/save-announcement", presetHandler.Save)
	r.Get("/get-announcement", presetHandler.Load)

	r.Get("/systems", announcements.ListSystems)
	r.Post("/systems/{systemID}/{tabID}", announcements.Build)

	return r, nil
}
