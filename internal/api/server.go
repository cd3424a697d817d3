// Package api exposes the read path over HTTP: filtered listings and
// analytics snapshots. It never writes to the store and is safe to run
// concurrently with an in-progress ingestion cycle.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/jobradar/jobradar/internal/model"
	"github.com/jobradar/jobradar/internal/stats"
)

// Server wires the HTTP API around a JobStore.
type Server struct {
	store  model.JobStore
	addr   string
	logger *slog.Logger

	// now is overridable in tests so "jobs today" is deterministic.
	now func() time.Time
}

// New creates a Server listening on addr.
func New(store model.JobStore, addr string, logger *slog.Logger) *Server {
	return &Server{
		store:  store,
		addr:   addr,
		logger: logger,
		now:    time.Now,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	r.Use(cors.New(corsCfg))

	r.GET("/", s.handleRoot)
	r.GET("/jobs", s.handleJobs)
	r.GET("/analytics", s.handleAnalytics)

	return r
}

// Start runs the server until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Router(),
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Job Board API is running"})
}

// handleJobs serves filtered listings. All filters are optional and
// AND-combined; malformed filter values are treated as absent, never a 400.
func (s *Server) handleJobs(c *gin.Context) {
	f := model.Filter{
		Search:         c.Query("search"),
		Location:       c.Query("location"),
		EmploymentType: c.Query("type"),
	}
	if raw := c.Query("remote"); raw != "" {
		if remote, err := strconv.ParseBool(raw); err == nil {
			f.Remote = &remote
		}
	}

	jobs, err := s.store.Query(c.Request.Context(), f)
	if err != nil {
		s.logger.Error("listing query failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	if jobs == nil {
		jobs = []model.Job{}
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(jobs),
		"jobs":  jobs,
	})
}

// handleAnalytics serves a statistics snapshot recomputed from the full
// corpus on every call.
func (s *Server) handleAnalytics(c *gin.Context) {
	jobs, err := s.store.All(c.Request.Context())
	if err != nil {
		s.logger.Error("analytics scan failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "analytics failed"})
		return
	}

	c.JSON(http.StatusOK, stats.Compute(s.now(), jobs))
}
