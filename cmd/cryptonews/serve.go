package main

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/deusflow/cryptonews/internal/app"
	"github.com/deusflow/cryptonews/internal/config"
	"github.com/deusflow/cryptonews/internal/logger"
	"github.com/deusflow/cryptonews/internal/metrics"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run on a schedule with /health, /metrics and a /ws live feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := buildService(cmd, app.Options{Publish: true, Live: true})
			if err != nil {
				return err
			}
			defer svc.Close()

			if v, _ := cmd.Flags().GetDuration("interval"); v > 0 {
				svc.Config.RunInterval = v
			}
			return serve(cmd.Context(), svc)
		},
	}
	addPathFlags(cmd)
	cmd.Flags().Duration("interval", 0, "Run interval (overrides RUN_INTERVAL_MINUTES)")
	return cmd
}

func serve(ctx context.Context, svc *app.Service) error {
	cfg := svc.Config

	g, ctx := errgroup.WithContext(ctx)

	// Runs started over HTTP finish before serve returns and the store is closed.
	var triggered sync.WaitGroup
	defer triggered.Wait()

	srv := &http.Server{
		Addr:              ":" + cfg.MonitoringPort,
		Handler:           routes(ctx, svc, &triggered),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		logger.Info("Starting monitoring server", "port", cfg.MonitoringPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		err := config.WatchRules(ctx, cfg.RulesConfigPath, func(rules *config.Rules) {
			rules.ApplyOverrides(cfg)
			svc.Runner.SetRules(rules)
		})
		if err != nil {
			logger.Warn("Rules hot reload disabled", "path", cfg.RulesConfigPath, "error", err)
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("Scheduler started", "interval", cfg.RunInterval)
		runOnce(ctx, svc)

		ticker := time.NewTicker(cfg.RunInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				runOnce(ctx, svc)
			}
		}
	})

	return g.Wait()
}

// routes serves monitoring, the live feed and manual run triggers. Triggered
// runs share ctx and are tracked in triggered.
func routes(ctx context.Context, svc *app.Service, triggered *sync.WaitGroup) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", metrics.Global.HealthHandler)
	mux.HandleFunc("GET /metrics", metrics.Global.MetricsHandler)
	if svc.Hub != nil {
		mux.Handle("GET /ws", svc.Hub)
	}
	mux.HandleFunc("POST /run", func(w http.ResponseWriter, r *http.Request) {
		if ctx.Err() != nil {
			http.Error(w, "shutting down", http.StatusServiceUnavailable)
			return
		}
		triggered.Add(1)
		go func() {
			defer triggered.Done()
			runOnce(ctx, svc)
		}()
		w.WriteHeader(http.StatusAccepted)
	})
	return mux
}

func runOnce(ctx context.Context, svc *app.Service) {
	if _, err := svc.Runner.Run(ctx); err != nil {
		logger.Error("Run failed", "error", err)
	}
}
