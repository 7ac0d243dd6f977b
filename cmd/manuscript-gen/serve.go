package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"manuscript-gen/internal/wire"
	"manuscript-gen/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the remote single-prompt HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)

	app, cleanup, err := wire.InitializeServer(ctx, cfg)
	if err != nil {
		logger.Error(ctx, "failed to initialize server", err)
		return err
	}
	defer cleanup()

	addr := fmt.Sprintf("%s:%d", cfg.Server.HTTP.Host, cfg.Server.HTTP.Port)
	servers := []*http.Server{{
		Addr:         addr,
		Handler:      app.Engine(),
		ReadTimeout:  cfg.Server.HTTP.ReadTimeout,
		WriteTimeout: cfg.Server.HTTP.WriteTimeout,
		IdleTimeout:  cfg.Server.HTTP.IdleTimeout,
	}}

	mc := cfg.Observability.Metrics
	if mc.Enabled && mc.Port > 0 && mc.Port != cfg.Server.HTTP.Port {
		mux := http.NewServeMux()
		mux.Handle(mc.Path, promhttp.Handler())
		servers = append(servers, &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Server.HTTP.Host, mc.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		srv := srv
		g.Go(func() error {
			log.Info("http server starting", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server...")

		// 优雅关闭
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error("server forced to shutdown", "addr", srv.Addr, "error", err)
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error(ctx, "http server error", err)
		return err
	}
	log.Info("server exited")
	return nil
}
