// Package api exposes the REST surface: beach listings with live or
// simulated conditions, the comprehensive per-beach endpoint, quota
// usage, and the health/metrics endpoints.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/beachhui/conditions/internal/domain"
	"github.com/beachhui/conditions/internal/observability"
	"github.com/beachhui/conditions/internal/quota"
	"github.com/beachhui/conditions/internal/store"
)

// Conditions is the aggregation service the handlers call into.
type Conditions interface {
	GetComprehensive(ctx context.Context, slug string) (store.Beach, domain.Conditions, error)
	GetBeachData(ctx context.Context, beach store.Beach) domain.Conditions
	CheckReadiness(ctx context.Context) error
}

// BeachLister lists the seeded beaches.
type BeachLister interface {
	ListBeaches(ctx context.Context) ([]store.Beach, error)
}

// QuotaReader reports per-provider API usage.
type QuotaReader interface {
	AllUsage() []quota.Usage
}

// Server bundles router and dependencies for the REST API.
type Server struct {
	agg       Conditions
	beaches   BeachLister
	quotas    QuotaReader
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics
	liveLimit int
	engine    *gin.Engine
}

// NewServer constructs a server with routes and middleware.
func NewServer(agg Conditions, beaches BeachLister, quotas QuotaReader, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics, liveLimit int) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		agg:       agg,
		beaches:   beaches,
		quotas:    quotas,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
		liveLimit: liveLimit,
		engine:    engine,
	}
	s.registerRoutes()
	return s
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server and blocks until the context is cancelled,
// then drains connections within the shutdown timeout.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.engine,
	}

	s.metrics.ServerRunning.Set(1)
	defer s.metrics.ServerRunning.Set(0)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("http server stopping", "reason", ctx.Err())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/readyz", s.handleReady)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.engine.Group("/api/v1")
	v1.GET("/beaches", s.handleListBeaches)
	v1.GET("/beaches/:slug/comprehensive", s.handleComprehensive)
	v1.GET("/quota", s.handleQuota)
}

func (s *Server) handleReady(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.agg.CheckReadiness(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
