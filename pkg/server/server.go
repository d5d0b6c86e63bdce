package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"instructions-hq/extractor/pkg/config"
	"instructions-hq/extractor/pkg/proxy"
	"instructions-hq/extractor/pkg/proxy/handlers"
	"instructions-hq/extractor/pkg/proxy/middleware"
	"instructions-hq/extractor/pkg/proxy/types"
	"instructions-hq/extractor/pkg/quota"
	"instructions-hq/extractor/pkg/telemetry/health"
	"instructions-hq/extractor/pkg/telemetry/metrics"
)

// GeneratePath is the route of the extraction endpoint.
const GeneratePath = "/generate"

// Dependencies are the collaborators the server routes requests to.
// Quota and Generator are required; the rest may be nil.
type Dependencies struct {
	Quota     quota.Store
	Generator handlers.Generator
	Metrics   *metrics.Collector
	Health    *health.Checker
	Logger    *slog.Logger
	Version   health.VersionInfo

	// Clock replaces time.Now for quota decisions.
	Clock func() time.Time
}

// healthReporter is implemented by generators that track upstream health.
type healthReporter interface {
	IsHealthy() bool
}

// Server is the extractor's HTTP server.
type Server struct {
	config       *config.Config
	deps         Dependencies
	logger       *slog.Logger
	handler      http.Handler
	httpServer   *http.Server
	listener     net.Listener
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer builds the route table and middleware chain. It registers the
// "quota" and "generation" readiness checks on deps.Health when present.
func NewServer(cfg *config.Config, deps Dependencies) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("server: config is required")
	}
	if deps.Quota == nil {
		return nil, errors.New("server: quota store is required")
	}
	if deps.Generator == nil {
		return nil, errors.New("server: generator is required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	s := &Server{
		config: cfg,
		deps:   deps,
		logger: deps.Logger.With("component", "server"),
	}

	if deps.Health != nil {
		s.registerHealthChecks(deps.Health)
	}
	s.handler = s.setupRoutes()

	return s, nil
}

func (s *Server) registerHealthChecks(checker *health.Checker) {
	store := s.deps.Quota
	checker.RegisterCheck("quota", func(ctx context.Context) error {
		_, _, err := store.Get(ctx, "")
		return err
	})

	if reporter, ok := s.deps.Generator.(healthReporter); ok {
		checker.RegisterCheck("generation", func(ctx context.Context) error {
			if !reporter.IsHealthy() {
				return errors.New("provider marked unhealthy")
			}
			return nil
		})
	}
}

// setupRoutes configures HTTP routes and the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	opts := []handlers.Option{
		handlers.WithMaxBodyBytes(s.config.Server.MaxBodyBytes),
		handlers.WithLogger(s.deps.Logger),
	}
	if s.deps.Metrics != nil {
		opts = append(opts, handlers.WithRecorder(s.deps.Metrics))
	}
	if s.deps.Clock != nil {
		opts = append(opts, handlers.WithClock(s.deps.Clock))
	}
	mux.Handle(GeneratePath, handlers.NewGenerateHandler(s.deps.Quota, s.deps.Generator, opts...))

	tel := s.config.Telemetry
	if tel.Health.Enabled && s.deps.Health != nil {
		health.Register(mux, s.deps.Health, health.Paths{
			Liveness:  tel.Health.LivenessPath,
			Readiness: tel.Health.ReadinessPath,
			Version:   tel.Health.VersionPath,
		}, s.deps.Version)
	}
	if tel.Metrics.Enabled && s.deps.Metrics != nil {
		mux.Handle(tel.Metrics.Path, s.deps.Metrics.Handler())
	}

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_ = proxy.WriteError(w, http.StatusNotFound, types.MsgNotFound)
	})

	var recorder middleware.HTTPRecorder
	if s.deps.Metrics != nil {
		recorder = s.deps.Metrics
	}

	return middleware.Chain(mux,
		middleware.RecoveryMiddleware(s.deps.Logger),
		middleware.LoggingMiddleware(s.deps.Logger),
		middleware.RequestIDMiddleware,
		middleware.MetricsMiddleware(recorder),
		middleware.CORSMiddleware(s.config.Server.CORS),
	)
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Listen binds the configured listen address. Start calls it when needed;
// calling it first lets the caller learn the bound address before serving.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return nil
	}
	ln, err := net.Listen("tcp", s.config.Server.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Server.ListenAddress, err)
	}
	s.listener = ln
	return nil
}

// Addr returns the bound address, or "" before Listen.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Start serves until ctx is cancelled or the server fails, then shuts down
// gracefully within server.shutdown_timeout.
func (s *Server) Start(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return errors.New("server is already running")
	}
	s.isRunning = true
	srvCfg := s.config.Server
	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadTimeout:       srvCfg.ReadTimeout,
		ReadHeaderTimeout: srvCfg.ReadTimeout,
		WriteTimeout:      srvCfg.WriteTimeout,
		IdleTimeout:       srvCfg.IdleTimeout,
		MaxHeaderBytes:    srvCfg.MaxHeaderBytes,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}
	ln := s.listener
	httpServer := s.httpServer
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting extractor server", "address", ln.Addr().String())
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		return err
	}
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.RLock()
		running := s.isRunning
		httpServer := s.httpServer
		s.mu.RUnlock()
		if !running || httpServer == nil {
			return
		}

		timeout := s.config.Server.ShutdownTimeout
		if timeout <= 0 {
			timeout = config.DefaultShutdownTimeout
		}
		s.logger.Info("initiating graceful shutdown", "timeout", timeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("extractor server stopped")
	})

	return shutdownErr
}

// IsRunning reports whether the server is serving.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}
