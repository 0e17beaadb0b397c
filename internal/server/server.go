// Package server exposes the traversal, expansion, and quiz features as a
// JSON API for the interactive graph front end.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/conceptmap/conceptmap/internal/config"
	"github.com/conceptmap/conceptmap/internal/logger"
	"github.com/conceptmap/conceptmap/internal/quiz"
	"github.com/conceptmap/conceptmap/internal/wikidata"
)

// GraphClient is the data-access surface the API handlers need.
// *wikidata.Client satisfies it; tests substitute fakes.
type GraphClient interface {
	SearchEntities(ctx context.Context, term string) ([]wikidata.Candidate, error)
	GetEntity(ctx context.Context, id string) (*wikidata.Entity, error)
	ResolveLabels(ctx context.Context, ids []string) map[string]string
	FetchLevel(ctx context.Context, sources []string, limit int) (*wikidata.LevelResult, error)
	FetchReverse(ctx context.Context, targets []string, limit int) (*wikidata.LevelResult, error)
}

// QuizService generates study questions from triples.
type QuizService interface {
	Generate(ctx context.Context, triples []quiz.Triple, format string, graphEntities []string, model string) (string, error)
	Models(ctx context.Context) ([]string, error)
}

// Server wraps a chi router over the graph client and quiz generator.
type Server struct {
	router chi.Router
	client GraphClient
	quiz   QuizService
	cfg    *config.Config
	log    *logger.Logger
}

// New creates a Server and mounts its routes.
func New(cfg *config.Config, client GraphClient, quizService QuizService, log *logger.Logger) *Server {
	s := &Server{
		client: client,
		quiz:   quizService,
		cfg:    cfg,
		log:    log,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins(cfg.Server.CORSOrigins),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", s.handleHealth)
	r.Post("/api/search", s.handleSearch)
	r.Post("/api/traverse", s.handleTraverse)
	r.Post("/api/expand", s.handleExpand)
	r.Get("/api/models", s.handleModels)
	r.Post("/api/generate", s.handleGenerate)

	s.router = r
	return s
}

// Handler returns the mounted router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe runs the HTTP server until the context is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.ListenAddr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 3 * time.Minute, // quiz generation can be slow
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.log.Infow("server listening", "addr", s.cfg.Server.ListenAddr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func allowedOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
