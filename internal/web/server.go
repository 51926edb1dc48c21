// Package web exposes the classification operations over a small HTTP API,
// for callers that keep a gallery warm instead of rebuilding it per CLI run.
package web

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kozaktomas/face-sorter/internal/faceapi"
	"github.com/kozaktomas/face-sorter/internal/gallery"
)

// Server serves the face classification API. The gallery is built at startup
// from the labeled folder and can be rebuilt on demand; requests see a
// consistent snapshot.
type Server struct {
	pipe       *faceapi.Pipeline
	labeledDir string
	threshold  float64
	policy     gallery.Policy

	mu      sync.RWMutex
	gallery *gallery.Gallery

	router     *chi.Mux
	httpServer *http.Server
}

// NewServer creates a web server for the given labeled folder.
func NewServer(pipe *faceapi.Pipeline, labeledDir string, threshold float64, policy gallery.Policy, host string, port int) *Server {
	r := chi.NewRouter()

	s := &Server{
		pipe:       pipe,
		labeledDir: labeledDir,
		threshold:  threshold,
		policy:     policy,
		router:     r,
	}

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(5 * time.Minute))

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // uploads of large images
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/gallery", s.handleGallery)
		r.Post("/gallery/reload", s.handleReload)
		r.Get("/validate", s.handleValidate)
		r.Post("/recognise", s.handleRecognise)
		r.Post("/none", s.handleAddNone)
	})
}

// Rebuild rebuilds the gallery from the current labeled folder contents.
func (s *Server) Rebuild(ctx context.Context) error {
	g, err := gallery.Build(ctx, s.labeledDir, s.pipe, gallery.BuildOptions{Policy: s.policy})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.gallery = g
	s.mu.Unlock()

	log.Printf("gallery ready: %d examples across %d labels", g.Size(), len(g.Labels()))
	return nil
}

// currentGallery returns the gallery snapshot for one request.
func (s *Server) currentGallery() *gallery.Gallery {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gallery
}

// Start builds the initial gallery and starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	if err := s.Rebuild(ctx); err != nil {
		return fmt.Errorf("initial gallery build: %w", err)
	}

	log.Printf("Starting web server on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down web server...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

// Router returns the chi router for testing.
func (s *Server) Router() http.Handler {
	return s.router
}
