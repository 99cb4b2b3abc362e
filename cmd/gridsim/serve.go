package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"smartgrid_simulator/internal/api"
	"smartgrid_simulator/internal/config"
	"smartgrid_simulator/internal/logger"
	"smartgrid_simulator/internal/metrics"
	"smartgrid_simulator/internal/planner"
	"smartgrid_simulator/internal/ws"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the REST API, WebSocket and metrics endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			ln, err := net.Listen("tcp", cfg.Server.Addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", cfg.Server.Addr, err)
			}
			return serve(cmd.Context(), ln, cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "override server.addr")
	return cmd
}

// serve runs the HTTP server on ln until ctx is canceled.
func serve(ctx context.Context, ln net.Listener, cfg *config.Config) error {
	log := logger.New("server")
	if !strings.EqualFold(cfg.Logging.Level, "debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	var (
		rec          metrics.Recorder = metrics.NopRecorder{}
		metricsRoute http.Handler
	)
	if cfg.Server.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		prom, err := metrics.NewPromRecorder(reg)
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		rec = prom
		metricsRoute = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	p := newPlanner(cfg, planner.Options{CacheSize: cfg.Server.CacheSize, Recorder: rec})
	wsLog := logger.New("ws")
	hub := ws.NewHub(wsLog)

	router := api.NewRouter(p, api.Options{
		Defaults: cfg.Scenario,
		Metrics:  metricsRoute,
		WS:       ws.NewHandler(hub, p, cfg.Scenario, wsLog),
		Logger:   logger.New("api"),
	})
	srv := &http.Server{
		Handler:           api.WithCORS(router, cfg.Server.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("listening on %s (seed %d)", ln.Addr(), p.Seed())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		log.Infof("server stopped")
		return nil
	})
	return g.Wait()
}
