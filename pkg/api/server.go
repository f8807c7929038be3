package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/SaharZo321/sahar-backgammon/pkg/ai"
)

// ServerConfig holds the server configuration.
type ServerConfig struct {
	Host              string        // host to bind to (default "localhost")
	Port              int           // port to listen on (default 8080)
	ReadTimeout       time.Duration // read timeout (default 30s)
	WriteTimeout      time.Duration // write timeout (default 30s)
	IdleTimeout       time.Duration // idle timeout (default 60s)
	MaxCommandWorkers int           // max concurrent command operations (default 100)
	MaxSearchWorkers  int           // max concurrent search operations (default 4)
}

// DefaultConfig returns a ServerConfig with sensible defaults.
func DefaultConfig() ServerConfig {
	return ServerConfig{
		Host:              "localhost",
		Port:              8080,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxCommandWorkers: 100,
		MaxSearchWorkers:  4,
	}
}

// Server is the HTTP API server.
type Server struct {
	config   ServerConfig
	registry *Registry
	handlers *Handlers
	server   *http.Server
	pool     *WorkerPool
	log      zerolog.Logger
	version  string
}

// NewServer creates an API server with its own registry, searcher and
// worker pool.
func NewServer(config ServerConfig, version string, log zerolog.Logger) *Server {
	pool := NewWorkerPool(PoolConfig{
		MaxCommandWorkers: config.MaxCommandWorkers,
		MaxSearchWorkers:  config.MaxSearchWorkers,
	})
	registry := NewRegistry()
	handlers := NewHandlers(registry, ai.New(), pool, version, log)

	return &Server{
		config:   config,
		registry: registry,
		handlers: handlers,
		pool:     pool,
		log:      log,
		version:  version,
	}
}

// Registry returns the game registry.
func (s *Server) Registry() *Registry {
	return s.registry
}

// Pool returns the worker pool for monitoring.
func (s *Server) Pool() *WorkerPool {
	return s.pool
}

// corsMiddleware adds CORS headers for browser access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs all requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()
	h := s.handlers

	mux.HandleFunc("GET /api/health", h.Health)

	mux.HandleFunc("POST /api/games", h.CreateGame)
	mux.HandleFunc("GET /api/games/{id}", h.GetGame)
	mux.HandleFunc("DELETE /api/games/{id}", h.DeleteGame)

	mux.HandleFunc("POST /api/games/{id}/roll", h.Roll)
	mux.HandleFunc("GET /api/games/{id}/moves", h.Moves)
	mux.HandleFunc("POST /api/games/{id}/moves", h.Move)
	mux.HandleFunc("POST /api/games/{id}/undo", h.Undo)
	mux.HandleFunc("POST /api/games/{id}/switch", h.Switch)

	mux.HandleFunc("POST /api/games/{id}/bot", h.Bot)
	mux.HandleFunc("GET /api/games/{id}/hint", h.Hint)

	mux.HandleFunc("GET /api/games/{id}/events", h.Events)
	mux.HandleFunc("GET /api/games/{id}/ws", h.WebSocket)

	return corsMiddleware(s.loggingMiddleware(mux))
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.setupRoutes(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	s.log.Info().
		Str("addr", addr).
		Str("version", s.version).
		Msg("starting backgammon API server")

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// ListenAndServeWithGracefulShutdown starts the server and drains it on
// SIGINT/SIGTERM.
func (s *Server) ListenAndServeWithGracefulShutdown() error {
	errChan := make(chan error, 1)

	go func() {
		if err := s.Start(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		s.log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.log.Info().Msg("server stopped gracefully")
	return nil
}
