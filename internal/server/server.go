package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/afrimarkets/dashboard/internal/market"
	"github.com/afrimarkets/dashboard/internal/model"
)

// Synchronizer is the part of market.Synchronizer the server uses.
type Synchronizer interface {
	Snapshot() (model.Snapshot, bool)
	State() market.State
	Loading() bool
	Connectivity() model.ConnectivityStatus
	AutoRefresh() bool
	ToggleAutoRefresh() bool
	RefreshMarkets(ctx context.Context)
	Recheck(ctx context.Context) model.ConnectivityStatus
}

// Streamer upgrades /ws requests.
type Streamer interface {
	ServeWS(w http.ResponseWriter, r *http.Request, greeting any) error
}

// Pinger is an optional dependency reported on /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config holds server configuration.
type Config struct {
	Port           int
	RequestTimeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithStream enables GET /ws.
func WithStream(s Streamer) Option {
	return func(srv *Server) {
		srv.stream = s
	}
}

// WithDependency adds a named dependency to the health report.
func WithDependency(name string, p Pinger) Option {
	return func(srv *Server) {
		srv.deps[name] = p
	}
}

// Server is the dashboard HTTP server.
type Server struct {
	cfg    Config
	sync   Synchronizer
	stream Streamer
	deps   map[string]Pinger
	logger *slog.Logger

	engine *gin.Engine
	http   *http.Server
}

// New creates a Server and registers its routes.
func New(cfg Config, sync Synchronizer, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:    cfg,
		sync:   sync,
		deps:   make(map[string]Pinger),
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	gin.SetMode(gin.ReleaseMode)
	s.engine = gin.New()
	s.engine.Use(gin.Recovery(), s.requestLogger())
	s.routes()

	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() {
	s.engine.GET("/health", s.health)

	v1 := s.engine.Group("/api/v1")
	if s.cfg.RequestTimeout > 0 {
		v1.Use(Timeout(s.cfg.RequestTimeout))
	}
	v1.Use(Error())
	{
		v1.GET("/status", s.getStatus)
		v1.POST("/status/check", s.checkStatus)
		v1.GET("/markets", s.getMarkets)
		v1.GET("/markets/options/:key", s.getOptions)
		v1.POST("/markets/refresh", s.refreshMarkets)
		v1.POST("/auto-refresh/toggle", s.toggleAutoRefresh)
	}

	if s.stream != nil {
		s.engine.GET("/ws", s.serveWS)
	}
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting http server", "port", s.cfg.Port)
		if err := s.http.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
