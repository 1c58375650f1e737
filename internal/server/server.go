// Package server exposes the generate operation over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/loookla/readme-generator-parth/internal/domain"
	"github.com/loookla/readme-generator-parth/internal/readme"
)

// maxBodyBytes bounds request bodies; a generate request is a single URL.
const maxBodyBytes = 1 << 20

// Generator runs the README pipeline for one repository URL.
type Generator interface {
	Generate(ctx context.Context, repoURL string) (*domain.ResponseEnvelope, error)
}

// Server represents the API server.
type Server struct {
	router    *chi.Mux
	server    *http.Server
	generator Generator
	metrics   http.Handler
	logger    *log.Logger
}

// NewServer creates a new API server. metricsHandler may be nil.
func NewServer(addr string, generator Generator, metricsHandler http.Handler, logger *log.Logger) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		generator: generator,
		metrics:   metricsHandler,
		logger:    logger,
	}
	s.setupRoutes()

	// Generation waits on two upstream services, so the write timeout is generous.
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestID)
	s.router.Use(s.recoverer)

	s.router.Get("/health", s.handleHealth)
	s.router.Post("/api/generate", s.handleGenerate)
	s.router.Post("/api/preview", s.handlePreview)
	if s.metrics != nil {
		s.router.Method(http.MethodGet, "/metrics", s.metrics)
	}
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Start starts the API server.
func (s *Server) Start() error {
	s.logger.Printf("Server: listening on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

type generateRequest struct {
	RepoURL string `json:"repoUrl"`
}

type previewRequest struct {
	Document string `json:"document"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.writeError(w, r, &domain.Error{
			Code:    domain.CodeMissingRepoURL,
			Kind:    domain.KindInput,
			Message: "Request body must be a JSON object with a repoUrl field",
			Err:     err,
		})
		return
	}

	env, err := s.generator.Generate(r.Context(), req.RepoURL)
	if err != nil {
		s.writeError(w, r, domain.AsError(err))
		return
	}
	s.logger.Printf("Server: [%s] generated %s (%d warnings)", requestIDFrom(r.Context()), env.FileName, len(env.Errors))
	writeJSON(w, http.StatusOK, env)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.writeError(w, r, &domain.Error{
			Code:    domain.CodeInvalidRequest,
			Kind:    domain.KindInput,
			Message: "Request body must be a JSON object with a document field",
			Err:     err,
		})
		return
	}
	html, err := readme.RenderHTML(req.Document)
	if err != nil {
		s.writeError(w, r, domain.NewInternalError(err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(html)
}

// writeError logs the full cause and sends only the client-safe message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, de *domain.Error) {
	s.logger.Printf("Server: [%s] %v", requestIDFrom(r.Context()), de)
	writeJSON(w, de.HTTPStatus(), de.Response())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type requestIDKey struct{}

// requestID tags every request with a UUID, echoed in X-Request-ID.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		start := time.Now()
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
		s.logger.Printf("Server: [%s] %s %s (%s)", id, r.Method, r.URL.Path, time.Since(start).Round(time.Millisecond))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// recoverer turns handler panics into an INTERNAL_ERROR response.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.writeError(w, r, domain.NewInternalError(fmt.Errorf("panic: %v", rec)))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
