package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/aevon-lab/rainfall-explorer/internal/ingestion"
	"github.com/aevon-lab/rainfall-explorer/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// DatasetStatus reports the active snapshot.
type DatasetStatus interface {
	Current() (*ingestion.Snapshot, error)
}

// Options wires the optional pieces of the server.
type Options struct {
	Mode        string // debug | release
	DB          Pinger // nil when no database is configured
	Dataset     DatasetStatus
	Metrics     *observability.Metrics
	MetricsPath string // empty disables /metrics
}

type Server struct {
	Engine  *gin.Engine
	Addr    string
	db      Pinger
	dataset DatasetStatus
}

func New(addr string, opts Options) *Server {
	if opts.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	if opts.Metrics != nil {
		r.Use(opts.Metrics.GinMiddleware())
	}

	s := &Server{
		Engine:  r,
		Addr:    addr,
		db:      opts.DB,
		dataset: opts.Dataset,
	}

	r.GET("/health", s.healthHandler)
	if opts.MetricsPath != "" {
		r.GET(opts.MetricsPath, gin.WrapH(promhttp.Handler()))
	}

	return s
}

// healthHandler reports unhealthy when no dataset is loaded or the database is unreachable.
func (s *Server) healthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	body := gin.H{"status": "healthy"}
	status := http.StatusOK

	if s.dataset != nil {
		snap, err := s.dataset.Current()
		if err != nil {
			status = http.StatusServiceUnavailable
			body["status"] = "unhealthy"
			body["dataset"] = "not loaded"
		} else {
			body["dataset"] = gin.H{
				"version":   snap.Version.String(),
				"records":   snap.Series.Len(),
				"loaded_at": snap.LoadedAt,
			}
		}
	}

	if s.db != nil {
		if err := s.db.PingContext(ctx); err != nil {
			slog.Error("Health check failed: database unreachable", "error", err)
			status = http.StatusServiceUnavailable
			body["status"] = "unhealthy"
			body["database"] = "unreachable"
		} else {
			body["database"] = "connected"
		}
	}

	c.JSON(status, body)
}

func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("Starting HTTP Server...", "address", s.Addr)

	go func() {
		<-ctx.Done()
		slog.Info("Stopping HTTP Server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP Server forced to shutdown", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
