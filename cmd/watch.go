package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"syscall"
	"time"

	"github.com/USA-RedDragon/zcash-rcli/internal/jsonrpc"
	"github.com/USA-RedDragon/zcash-rcli/internal/metrics"
	"github.com/USA-RedDragon/zcash-rcli/internal/poller"
	"github.com/USA-RedDragon/zcash-rcli/internal/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/ztrue/shutdown"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/sync/errgroup"
)

func newWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Poll zcashd and serve its chain state as Prometheus metrics",
		Args:  cobra.NoArgs,
		RunE:  runWatch,
	}
}

func runWatch(cmd *cobra.Command, _ []string) error {
	annotations := cmd.Root().Annotations
	slog.Info("zcash-rcli watch", "version", annotations["version"], "commit", annotations["commit"])

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(registry)

	opts := []jsonrpc.Option{jsonrpc.WithObserver(m)}
	var tp *sdktrace.TracerProvider
	if cfg.Watch.Tracing.Enabled {
		tp, err = server.NewTracerProvider(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		otel.SetTracerProvider(tp)
		opts = append(opts, jsonrpc.WithTracerProvider(tp))
		slog.Info("Tracing enabled", "endpoint", cfg.Watch.Tracing.OTLPEndpoint)
	}

	client, err := newClient(cfg, opts...)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	p := poller.New(client, m)

	slog.Info("Starting metrics server")
	srv := server.NewServer(cfg, registry, p.Healthy, otel.GetTracerProvider())
	err = srv.Start()
	if err != nil {
		return fmt.Errorf("failed to start metrics server: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	pollGrp := errgroup.Group{}
	pollGrp.Go(func() error {
		p.Run(ctx, cfg.Watch.Interval)
		return nil
	})
	slog.Info("Watching zcashd", "url", client.URL(), "interval", cfg.Watch.Interval)

	stop := func(_ os.Signal) {
		slog.Info("Shutting down")
		cancel()

		errGrp := errgroup.Group{}
		errGrp.Go(pollGrp.Wait)
		errGrp.Go(srv.Stop)

		err := errGrp.Wait()
		if err != nil {
			slog.Error("Shutdown error", "error", err.Error())
		}
		if tp != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				slog.Error("Tracer shutdown error", "error", err.Error())
			}
		}
		slog.Info("Shutdown complete")
	}

	if annotations["version"] == "testing" {
		doneChannel := make(chan struct{})
		go func() {
			wait := 2 * cfg.Watch.Interval
			slog.Info("Sleeping before shutdown", "duration", wait)
			time.Sleep(wait)
			slog.Info("Sending SIGTERM")
			stop(syscall.SIGTERM)
			doneChannel <- struct{}{}
		}()
		<-doneChannel
	} else {
		shutdown.AddWithParam(stop)
		shutdown.Listen(syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	}

	return nil
}
