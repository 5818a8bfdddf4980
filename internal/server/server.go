// Package server wires the HTTP API together: the catalog client, the
// Neo4j graph store, the SQLite stores, and the optional managed Neo4j
// container.
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

	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/api"
	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/catalog"
	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/config"
	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/covers"
	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/db"
	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/graph"
	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/hand"
	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/home"
	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/layout"
	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/server/endpoints"
	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/svcctx"
)

// Server is the main bookshelf HTTP server. When manage_container is
// enabled it also owns the Neo4j container lifecycle, starting it on
// server start and stopping it on shutdown.
type Server struct {
	httpServer *http.Server
	configMgr  *config.Manager
	home       *home.Dir
	logger     *slog.Logger

	dockerManager *graph.DockerManager
	graphStore    *graph.Store

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
	Port string
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Home is the bookshelf home directory
	Home *home.Dir
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.ConfigManager == nil {
		return nil, errors.New("config manager is required")
	}
	if cfg.Home == nil {
		return nil, errors.New("home directory is required")
	}

	s := &Server{
		configMgr: cfg.ConfigManager,
		home:      cfg.Home,
		logger:    cfg.Logger,
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All(endpoints.Config{
		SwaggerSpecPath: endpoints.GetSwaggerSpecPath(),
	}) {
		s.endpointRegistry.Register(ep)
	}

	// Set up HTTP server
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      s.withCORS(s.withServices(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // shelving a batch fetches covers per book
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Start starts the server and its backing stores. It blocks until the
// context is cancelled or an error occurs. When manage_container is
// enabled an existing Neo4j container is validated against the config
// before reuse.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	conf := s.configMgr.Get()

	if conf.Neo4j.ManageContainer {
		if err := s.startNeo4jContainer(ctx, conf); err != nil {
			s.setNotRunning()
			return err
		}
	}

	boltURI := conf.Neo4j.URI
	if s.dockerManager != nil {
		boltURI = s.dockerManager.BoltURL()
	}

	graphStore, err := graph.NewStore(boltURI, conf.Neo4j.Username, conf.Neo4jPassword(), s.logger)
	if err != nil {
		_ = s.shutdown()
		return fmt.Errorf("failed to create graph store: %w", err)
	}
	s.graphStore = graphStore

	if err := graphStore.Ping(ctx); err != nil {
		_ = s.shutdown()
		return fmt.Errorf("Neo4j health check failed: %w", err)
	}
	s.logger.Info("Neo4j is ready", "uri", boltURI)

	dbPath := conf.SQLite.Path
	if dbPath == "" {
		dbPath = s.home.DatabasePath()
	}
	sqlDB, err := db.Open(dbPath)
	if err != nil {
		_ = s.shutdown()
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer sqlDB.Close()

	handStore, err := hand.NewStore(sqlDB)
	if err != nil {
		_ = s.shutdown()
		return fmt.Errorf("failed to init hand store: %w", err)
	}
	layoutStore, err := layout.NewStore(sqlDB)
	if err != nil {
		_ = s.shutdown()
		return fmt.Errorf("failed to init layout store: %w", err)
	}

	coverResolver := covers.NewResolver(covers.Config{
		GoogleAPIKey: conf.GoogleAPIKey(),
		Logger:       s.logger,
	})
	catalogClient := catalog.NewClient(conf.Catalog.Endpoint, s.logger)
	catalogResolver := catalog.NewResolver(catalogClient, coverResolver, s.logger)

	rebuilder := layout.NewRebuilder(graphStore, layoutStore,
		conf.Shelf.BooksPerShelf, conf.Shelf.TotalShelves, s.logger)

	s.services = &svcctx.Services{
		Config:    s.configMgr,
		Catalog:   catalogResolver,
		Graph:     graphStore,
		Hand:      handStore,
		Layout:    layoutStore,
		Rebuilder: rebuilder,
		Docker:    s.dockerManager,
		Logger:    s.logger,
		Home:      s.home,
	}

	// Start HTTP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			_ = s.shutdown()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// startNeo4jContainer brings up the managed Neo4j container.
func (s *Server) startNeo4jContainer(ctx context.Context, conf *config.Config) error {
	if err := s.home.EnsureNeo4jDataDir(); err != nil {
		return fmt.Errorf("failed to create Neo4j data dir: %w", err)
	}

	mgr, err := graph.NewDockerManager(graph.DockerConfig{
		ContainerName: conf.Neo4j.Container.Name,
		Image:         conf.Neo4j.Container.Image,
		DataPath:      s.home.Neo4jDataPath(),
		BoltPort:      conf.Neo4j.Container.BoltPort,
		HTTPPort:      conf.Neo4j.Container.HTTPPort,
		Username:      conf.Neo4j.Username,
		Password:      conf.Neo4jPassword(),
	})
	if err != nil {
		return fmt.Errorf("failed to create Neo4j manager: %w", err)
	}
	s.dockerManager = mgr

	if err := mgr.ValidateExisting(ctx); err != nil {
		return fmt.Errorf("existing Neo4j container incompatible: %w", err)
	}

	s.logger.Info("starting Neo4j container")
	if err := mgr.Start(ctx); err != nil {
		return fmt.Errorf("failed to start Neo4j: %w", err)
	}
	return nil
}

// shutdown performs graceful shutdown of the HTTP server, the graph
// driver, and the managed Neo4j container.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	if s.graphStore != nil {
		if err := s.graphStore.Close(shutdownCtx); err != nil {
			s.logger.Error("graph store close error", "error", err)
		}
	}

	if s.dockerManager != nil {
		s.logger.Info("stopping Neo4j container")
		if err := s.dockerManager.Stop(shutdownCtx); err != nil {
			s.logger.Error("Neo4j stop error", "error", err)
		}
		if err := s.dockerManager.Close(); err != nil {
			s.logger.Error("Neo4j manager close error", "error", err)
		}
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

// withCORS answers preflight requests and stamps the configured origin
// on every response. The origin is read per request so config reloads
// take effect without a restart.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := s.configMgr.Get().CORSOrigin
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireInit is middleware that ensures the server is fully initialized.
// Returns 503 Service Unavailable if the backing stores aren't ready.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.services == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"server not fully initialized"}`))
			return
		}
		next(w, r)
	}
}
