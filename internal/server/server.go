// Package server exposes the browser interface: an embedded single-page
// UI, a JSON API over the store and pipeline, and media file serving.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mysomang/mytalk/internal/assembly"
	"github.com/mysomang/mytalk/internal/config"
	"github.com/mysomang/mytalk/internal/script"
	"github.com/mysomang/mytalk/internal/store"
	"github.com/mysomang/mytalk/internal/tts"
)

//go:embed web
var webFS embed.FS

// Server holds the shared state behind the HTTP handlers. Settings are
// mutable through the API, so access goes through the mutex.
type Server struct {
	store  *store.Store
	logger *slog.Logger

	// Backends override the settings-derived defaults when non-nil.
	generator script.Generator
	provider  tts.Provider
	assembler *assembly.FFmpegAssembler

	mu       sync.RWMutex
	settings config.Settings
}

// WithBackends injects explicit generation and synthesis backends.
func (s *Server) WithBackends(g script.Generator, p tts.Provider, a *assembly.FFmpegAssembler) *Server {
	s.generator = g
	s.provider = p
	s.assembler = a
	return s
}

func New(st *store.Store, settings config.Settings, logger *slog.Logger) *Server {
	return &Server{
		store:    st,
		settings: settings,
		logger:   logger,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleIndex)
	mux.Handle("/media/", http.StripPrefix("/media/", http.FileServer(http.Dir(s.store.DataDir()))))
	mux.HandleFunc("/api/settings", s.handleSettings)
	mux.HandleFunc("/api/projects", s.handleProjects)
	mux.HandleFunc("/api/projects/", s.handleProject)
	mux.HandleFunc("/api/generate/script", s.handleGenerateScript)
	mux.HandleFunc("/api/generate/audio", s.handleGenerateAudio)
	mux.HandleFunc("/api/voices", s.handleVoices)

	return s.traced(mux)
}

// ListenAndServe blocks serving HTTP until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("server listening", "addr", addr)
	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// traced wraps every request in a span and an access log line.
func (s *Server) traced(next http.Handler) http.Handler {
	tracer := otel.Tracer("mytalk/server")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), r.Method+" "+r.URL.Path)
		span.SetAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.target", r.URL.Path),
		)
		defer span.End()

		start := time.Now()
		next.ServeHTTP(w, r.WithContext(ctx))
		s.logger.InfoContext(ctx, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"elapsed", time.Since(start).Round(time.Millisecond))
	})
}

func (s *Server) currentSettings() config.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "encode response", http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
