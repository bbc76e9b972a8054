// Package server runs the Factify HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/factify-ai/factify/internal/api"
	"github.com/factify-ai/factify/internal/config"
	"github.com/factify-ai/factify/internal/pipeline"
	"github.com/factify-ai/factify/internal/providers"
	"github.com/factify-ai/factify/internal/server/endpoints"
	"github.com/factify-ai/factify/internal/store"
	"github.com/factify-ai/factify/internal/svcctx"
)

// Server is the main Factify HTTP server. It owns the analysis pipeline and
// the in-memory document store for the lifetime of the process.
type Server struct {
	httpServer *http.Server
	pipeline   *pipeline.Manager
	docStore   store.DocumentStore
	configMgr  *config.Manager
	logger     *slog.Logger

	// services holds all core services for context enrichment
	services *svcctx.Services

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8080)
	Port int
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Client overrides the oracle client built from configuration (tests)
	Client providers.LLMClient
	// SwaggerSpecPath overrides the swagger.json location
	SwaggerSpecPath string
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	client := cfg.Client
	pipeCfg := pipeline.Config{Logger: cfg.Logger}
	if cfg.ConfigManager != nil {
		c := cfg.ConfigManager.Get()
		if client == nil {
			client = providers.NewOpenAIClient(c.ToOpenAIConfig())
		}
		pipeCfg.Model = c.OpenAI.Model
		pipeCfg.MaxPagesClassification = c.Pipeline.MaxPagesClassification
		pipeCfg.MaxPromptChars = c.Pipeline.MaxPromptChars
		pipeCfg.MaxPagesExtraction = c.Pipeline.MaxPagesExtraction
	}
	if client == nil {
		return nil, errors.New("no oracle client configured")
	}

	pipe, err := pipeline.New(client, pipeCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline: %w", err)
	}

	s := &Server{
		pipeline:  pipe,
		docStore:  store.NewMemoryStore(),
		configMgr: cfg.ConfigManager,
		logger:    cfg.Logger,
	}

	s.services = &svcctx.Services{
		Pipeline:      s.pipeline,
		Store:         s.docStore,
		ConfigManager: s.configMgr,
		Logger:        s.logger,
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All(endpoints.Config{SwaggerSpecPath: cfg.SwaggerSpecPath}) {
		s.endpointRegistry.Register(ep)
	}

	// Set up HTTP server
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requirePipeline)

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:      s.withServices(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute, // Analysis requests block on the oracle
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Start starts the server. It blocks until the context is cancelled or an
// error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			s.setNotRunning()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown performs graceful shutdown of the HTTP server.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Pipeline returns the analysis pipeline.
func (s *Server) Pipeline() *pipeline.Manager {
	return s.pipeline
}

// Handler returns the fully wired HTTP handler (tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if s.services != nil {
			ctx = svcctx.WithServices(ctx, s.services)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requirePipeline is middleware that ensures the analysis pipeline exists.
// Returns 503 Service Unavailable otherwise.
func (s *Server) requirePipeline(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.pipeline == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"pipeline not configured"}`))
			return
		}
		next(w, r)
	}
}
