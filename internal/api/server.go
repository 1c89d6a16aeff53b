// Package api serves the design engine over HTTP.
//
// Endpoints:
//
//	POST /v1/evaluate     evaluate one beam
//	POST /v1/batch        evaluate a schedule of beams
//	POST /v1/optimize     rank bar arrangements for a required area or moment
//	POST /v1/sensitivity  rank inputs by their effect on utilization
//	POST /v1/cutlist      bar bending schedule and cutting plan
//	GET  /healthz         liveness
//	GET  /metrics         Prometheus metrics
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alexiusacademia/rcbeam/internal/compliance"
	"github.com/alexiusacademia/rcbeam/internal/cutting"
	"github.com/alexiusacademia/rcbeam/internal/logging"
	"github.com/alexiusacademia/rcbeam/internal/optimize"
	"github.com/alexiusacademia/rcbeam/internal/sensitivity"
)

// MaxBatchSize bounds the beams accepted by one batch request.
const MaxBatchSize = 1000

// Server wires the engine components to HTTP handlers.
type Server struct {
	Engine    *compliance.Engine
	Optimizer *optimize.Optimizer
	Analyzer  *sensitivity.Analyzer
	Cutting   cutting.Options
	Workers   int

	log      *logging.Logger
	registry *prometheus.Registry
	metrics  *Metrics
}

// NewServer creates a server with its own metrics registry.
func NewServer(engine *compliance.Engine, opt *optimize.Optimizer, an *sensitivity.Analyzer, cut cutting.Options, workers int, log *logging.Logger) *Server {
	if log == nil {
		log = logging.Nop()
	}
	reg := prometheus.NewRegistry()
	return &Server{
		Engine:    engine,
		Optimizer: opt,
		Analyzer:  an,
		Cutting:   cut,
		Workers:   workers,
		log:       log,
		registry:  reg,
		metrics:   NewMetrics(reg),
	}
}

// Router builds the gin engine.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.metrics.middleware(), s.requestLog())

	r.GET("/healthz", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	v1 := r.Group("/v1")
	v1.POST("/evaluate", s.evaluate)
	v1.POST("/batch", s.batch)
	v1.POST("/optimize", s.optimize)
	v1.POST("/sensitivity", s.sensitivity)
	v1.POST("/cutlist", s.cutlist)
	return r
}

// requestLog logs one line per request.
func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String())
	}
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Info("server stopped")
	return nil
}
