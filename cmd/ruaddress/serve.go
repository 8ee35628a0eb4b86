package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/iEmiya/ruaddress/api"
	"github.com/iEmiya/ruaddress/internal/cache"
	"github.com/iEmiya/ruaddress/internal/engine"
	"github.com/iEmiya/ruaddress/internal/metrics"
	"github.com/iEmiya/ruaddress/internal/source"
)

const shutdownTimeout = 10 * time.Second

func createServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides the configuration)")
	return cmd
}

func (a *app) serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	opts := []engine.Option{engine.WithMetrics(metrics.New(reg))}

	if c := cache.Open(a.cfg.Cache); c != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := c.Ping(pingCtx)
		cancel()
		if err != nil {
			a.logger.Warn("redis unavailable, cache disabled", "addr", a.cfg.Cache.RedisAddr, "error", err)
			_ = c.Close()
		} else {
			a.logger.Info("redis cache enabled", "addr", a.cfg.Cache.RedisAddr)
			opts = append(opts, engine.WithCache(c))
		}
	}

	eng := engine.NewEngine(a.cfg, a.logger, opts...)
	defer func() { _ = eng.Close() }()

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(eng, a.cfg.Server, api.Options{
		Sources: func() (source.Source, error) {
			return source.Open(a.cfg.Source, a.logger)
		},
		Gatherer: reg,
		Logger:   a.logger,
	})

	srv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("starting server", "addr", srv.Addr, "data_dir", a.cfg.DataDir)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
