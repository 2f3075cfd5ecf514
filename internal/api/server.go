// Package api serves the OKR services as a JSON HTTP API.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/alexanderramin/okra/internal/intelligence"
	"github.com/alexanderramin/okra/internal/progress"
	"github.com/alexanderramin/okra/internal/service"
	"github.com/alexanderramin/okra/internal/telemetry"
)

// Services groups everything the handlers call. Suggestions and Gatherer
// are optional; their routes answer 503 and 404 when nil.
type Services struct {
	Objectives  service.ObjectiveService
	KeyResults  service.KeyResultService
	Initiatives service.InitiativeService
	Metrics     service.SuccessMetricService
	Dashboard   service.DashboardService
	Preview     service.PreviewService
	Suggestions intelligence.SuggestionService
	Calc        progress.Calculator
	Gatherer    prometheus.Gatherer
}

type Options struct {
	Logger *slog.Logger
	// CORSOrigins enables CORS for the listed origins; "*" allows all.
	CORSOrigins []string
}

type Server struct {
	svc    Services
	logger *slog.Logger
	engine *gin.Engine
}

func NewServer(svc Services, opts Options) *Server {
	gin.SetMode(gin.ReleaseMode)

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(logger))
	if len(opts.CORSOrigins) > 0 {
		engine.Use(cors.New(corsConfig(opts.CORSOrigins)))
	}

	s := &Server{svc: svc, logger: logger, engine: engine}
	s.routes()
	return s
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}

func (s *Server) routes() {
	r := s.engine
	r.GET("/healthz", s.health)
	if s.svc.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(telemetry.Handler(s.svc.Gatherer)))
	}

	v1 := r.Group("/api/v1")
	v1.GET("/dashboard", s.dashboard)
	v1.POST("/preview", s.preview)

	objectives := v1.Group("/objectives")
	{
		objectives.GET("", s.listObjectives)
		objectives.POST("", s.createObjective)
		objectives.GET("/:ref", s.getObjective)
		objectives.PUT("/:ref", s.updateObjective)
		objectives.DELETE("/:ref", s.deleteObjective)
		objectives.POST("/:ref/archive", s.archiveObjective)
		objectives.POST("/:ref/unarchive", s.unarchiveObjective)
		objectives.GET("/:ref/key-results", s.listKeyResults)
		objectives.POST("/:ref/key-results", s.createKeyResult)
	}

	keyResults := v1.Group("/key-results")
	{
		keyResults.GET("/:ref", s.getKeyResult)
		keyResults.PUT("/:ref", s.updateKeyResult)
		keyResults.DELETE("/:ref", s.deleteKeyResult)
		keyResults.GET("/:ref/check-ins", s.keyResultHistory)
		keyResults.POST("/:ref/check-ins", s.keyResultCheckIn)
		keyResults.GET("/:ref/suggestions", s.suggest)
		keyResults.GET("/:ref/initiatives", s.listInitiatives)
		keyResults.POST("/:ref/initiatives", s.createInitiative)
	}

	initiatives := v1.Group("/initiatives")
	{
		initiatives.GET("/:ref", s.getInitiative)
		initiatives.PUT("/:ref/status", s.setInitiativeStatus)
		initiatives.DELETE("/:ref", s.deleteInitiative)
		initiatives.GET("/:ref/tasks", s.listTasks)
		initiatives.POST("/:ref/tasks", s.addTask)
		initiatives.GET("/:ref/success-metrics", s.listMetrics)
		initiatives.POST("/:ref/success-metrics", s.createMetric)
	}

	tasks := v1.Group("/tasks")
	{
		tasks.POST("/:ref/done", s.completeTask)
		tasks.POST("/:ref/reopen", s.reopenTask)
		tasks.DELETE("/:ref", s.deleteTask)
	}

	metrics := v1.Group("/success-metrics")
	{
		metrics.GET("/:ref", s.getMetric)
		metrics.PUT("/:ref", s.updateMetric)
		metrics.DELETE("/:ref", s.deleteMetric)
		metrics.GET("/:ref/check-ins", s.metricHistory)
		metrics.POST("/:ref/check-ins", s.metricCheckIn)
	}
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http_listen", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http: %w", err)
	}
	s.logger.Info("http_stopped")
	return nil
}
