package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/USA-RedDragon/zcash-rcli/internal/config"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// HealthCheck reports whether the most recent poll of the daemon succeeded.
type HealthCheck func() error

// Server exposes the watch metrics over HTTP.
type Server struct {
	metricsServer *http.Server
	listener      net.Listener
	stopped       atomic.Bool
	config        *config.Config
}

const defTimeout = 10 * time.Second

// NewServer builds the metrics server. tp is only used when
// watch.tracing.enabled is set; nil means the global provider.
func NewServer(config *config.Config, gatherer prometheus.Gatherer, health HealthCheck, tp trace.TracerProvider) *Server {
	gin.SetMode(gin.ReleaseMode)
	if config.Watch.Metrics.PProf.Enabled {
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false

	if config.Watch.Metrics.PProf.Enabled {
		pprof.Register(r)
	}

	applyMiddleware(r, config, "metrics", tp)
	applyRoutes(r, gatherer, health)

	return &Server{
		metricsServer: &http.Server{
			Addr:              net.JoinHostPort(config.Watch.Metrics.Host, fmt.Sprint(config.Watch.Metrics.Port)),
			ReadHeaderTimeout: defTimeout,
			WriteTimeout:      defTimeout,
			Handler:           r,
		},
		config: config,
	}
}

// Start binds the listener and serves in the background. Bind errors are
// returned; later serve errors are logged.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.metricsServer.Addr)
	if err != nil {
		return err
	}
	s.listener = listener

	go func() {
		if err := s.metricsServer.Serve(listener); err != nil && !s.stopped.Load() {
			slog.Error("Metrics server error", "error", err.Error())
		}
	}()
	slog.Info("Metrics server started", "address", listener.Addr().String())
	return nil
}

// Addr is the bound address, useful when the configured port is 0.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.metricsServer.Addr
	}
	return s.listener.Addr().String()
}

func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.stopped.Store(true)

	errGrp := errgroup.Group{}
	errGrp.Go(func() error {
		return s.metricsServer.Shutdown(ctx)
	})
	return errGrp.Wait()
}
