// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes retrieval and the per-paper actions over a JSON
// HTTP API.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/pdiddy/paperscout/internal/codesearch"
	"github.com/pdiddy/paperscout/internal/library"
	"github.com/pdiddy/paperscout/internal/search"
	"github.com/pdiddy/paperscout/internal/summarize"
)

// Retriever runs one paper retrieval.
type Retriever interface {
	Retrieve(ctx context.Context, req search.Request) search.Outcome
}

// Summarizer condenses paper text.
type Summarizer interface {
	Summarize(ctx context.Context, text string, lang summarize.Lang, mode summarize.Mode) (string, error)
}

// CodeFinder looks up repositories for a paper.
type CodeFinder interface {
	FindCode(ctx context.Context, q codesearch.Query, maxResults int) []codesearch.Repo
}

// Deps are the collaborators behind the API. Summarizer may be nil when
// no model credentials are configured; the endpoint then answers 503.
type Deps struct {
	Retriever  Retriever
	Summarizer Summarizer
	Library    library.Store
	Finder     CodeFinder
	Gatherer   prometheus.Gatherer

	// Defaults applied when a request leaves them unset.
	MaxResults     int
	FetchLimit     int
	Lang           summarize.Lang
	CodeMaxResults int

	// CORSOrigins enables CORS for these origins when non-empty.
	CORSOrigins []string
}

// Server is the HTTP API server.
type Server struct {
	deps       Deps
	router     chi.Router
	httpServer *http.Server
	logger     zerolog.Logger
}

// New builds a server listening on addr.
func New(addr string, deps Deps, logger zerolog.Logger) *Server {
	s := &Server{
		deps:   deps,
		logger: logger.With().Str("component", "http-server").Logger(),
	}
	s.router = s.buildRouter()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(requestIDHeader)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(s.logger))
	r.Use(middleware.Recoverer)
	if len(s.deps.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.deps.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
			ExposedHeaders: []string{middleware.RequestIDHeader},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", s.healthHandler)
	if s.deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/papers", s.searchPapers)
		r.Get("/venues", s.listVenues)
		r.Post("/summarize", s.summarizePaper)
		r.Post("/cite", s.citePaper)
		r.Post("/code", s.findCode)

		r.Get("/library", s.listLibrary)
		r.Post("/library", s.addToLibrary)
		r.Delete("/library", s.clearLibrary)
		r.Get("/library/bibtex", s.exportLibrary)
	})
	return r
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info().Str("address", s.httpServer.Addr).Msg("HTTP server starting")
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on HTTP address: %w", err)
	}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}
