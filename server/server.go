// Package server exposes the migration planning API over HTTP. It owns the
// lifecycle glue: records in storage, one background workflow goroutine per
// accepted migration, and pause/resume/cancel control over running workflows.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/erentorlak/storemigrate/storage"
	"github.com/erentorlak/storemigrate/workflow"
)

// WorkflowRunner executes migration workflows. *workflow.Orchestrator is
// the production implementation; tests substitute stubs.
type WorkflowRunner interface {
	ExecuteControlled(ctx context.Context, in workflow.Input, ctrl *workflow.Control) *workflow.FinalState
}

// Server wires the HTTP API to storage and the workflow orchestrator.
type Server struct {
	store    storage.Store
	runner   WorkflowRunner
	logger   *slog.Logger
	registry *prometheus.Registry

	runs *runRegistry

	// wg tracks background workflow goroutines for clean shutdown.
	wg sync.WaitGroup
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithMetricsRegistry sets the Prometheus registry served at /metrics.
func WithMetricsRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) { s.registry = reg }
}

// New builds a Server.
func New(store storage.Store, runner WorkflowRunner, opts ...Option) *Server {
	s := &Server{
		store:    store,
		runner:   runner,
		logger:   slog.Default(),
		registry: prometheus.NewRegistry(),
		runs:     newRunRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	api := r.Group("/api/v1")
	{
		migrations := api.Group("/migrations")
		{
			migrations.POST("", s.handleCreate)
			migrations.GET("", s.handleList)
			migrations.GET("/:id", s.handleGet)
			migrations.GET("/:id/workflow-status", s.handleWorkflowStatus)
			migrations.POST("/:id/pause", s.handlePause)
			migrations.POST("/:id/resume", s.handleResume)
			migrations.DELETE("/:id", s.handleDelete)
		}
	}
	return r
}

// Wait blocks until all background workflow goroutines finish. Intended
// for shutdown paths and tests.
func (s *Server) Wait() {
	s.wg.Wait()
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "storemigrate",
	})
}

// runRegistry tracks live workflow runs so the API can pause, resume, and
// cancel them.
type runRegistry struct {
	mu   sync.Mutex
	runs map[string]*activeRun
}

type activeRun struct {
	ctrl   *workflow.Control
	cancel context.CancelFunc
}

func newRunRegistry() *runRegistry {
	return &runRegistry{runs: make(map[string]*activeRun)}
}

func (r *runRegistry) add(id string, run *activeRun) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[id] = run
}

func (r *runRegistry) get(id string) (*activeRun, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[id]
	return run, ok
}

func (r *runRegistry) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.runs, id)
}
