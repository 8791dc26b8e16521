package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/brightwave/imagegen/pipeline"
)

// Logger defines the logging surface the HTTP layer needs.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// ImageService is the pipeline surface the HTTP layer depends on. The
// handlers translate wire shapes and status codes only; all generation
// logic lives behind this interface.
type ImageService interface {
	Generate(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
	GenerateBatch(ctx context.Context, reqs []pipeline.Request) ([]pipeline.BatchItem, error)
}

// Server exposes the image pipeline over HTTP.
type Server struct {
	svc ImageService
	cfg *Config
	log Logger
}

// NewServer builds a Server over an ImageService.
func NewServer(svc ImageService, cfg *Config, log Logger) *Server {
	return &Server{svc: svc, cfg: cfg, log: log}
}

// Routes assembles the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	r.Get("/healthz", s.handleHealthz)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/images", s.handleGenerate)
		r.Post("/images/batch", s.handleGenerateBatch)
	})

	return r
}
