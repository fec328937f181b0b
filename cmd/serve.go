package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"phishfeatures/internal/api"
	"phishfeatures/internal/api/handler/v1handler"
	"phishfeatures/internal/config"
	"phishfeatures/internal/extractor"
	"phishfeatures/internal/worker"
	"phishfeatures/pkg/logger"
	"phishfeatures/pkg/metrics"
	"phishfeatures/pkg/storage/postgres"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func setupServer(ctx context.Context, cfg *config.Config, ext extractor.Extractor) func(ctx context.Context) {
	server, err := api.NewServer(api.Deps{
		Deps: v1handler.Deps{Extractor: ext},
	}, api.NewOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not create webserver", zap.Error(err))
	}

	go func() {
		logger.Info(ctx, "starting webserver...", zap.String("addr", cfg.HTTP.Addr))
		if err := server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "could not start webserver", zap.Error(err))
			}
		}
	}()

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping webserver...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop webserver", zap.Error(err))
		}
	}
}

func setupExtractor(ctx context.Context, cfg *config.Config, pgsql *postgres.PgSQL) extractor.Extractor {
	mp, err := metrics.NewMeterProvider(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Fatal(ctx, "could not create meter provider", zap.Error(err))
	}

	opts := extractor.NewOptions(cfg)
	opts.MeterProvider = mp

	ext, err := extractor.New(pgsql, opts)
	if err != nil {
		logger.Fatal(ctx, "could not create extractor", zap.Error(err))
	}

	return ext
}

func setupWorker(ctx context.Context, cfg *config.Config, pgsql *postgres.PgSQL, ext extractor.Extractor) func(ctx context.Context) {
	riverClient, err := worker.Start(ctx, pgsql.Pool, ext, worker.Options{
		MaxWorkers: cfg.Extractor.MaxWorkers,
	})
	if err != nil {
		logger.Fatal(ctx, "could not start workers", zap.Error(err))
	}
	logger.Info(ctx, "workers started", zap.Int("maxWorkers", cfg.Extractor.MaxWorkers))

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping workers...")
		if err := riverClient.Stop(ctx); err != nil {
			logger.Error(ctx, "could not stop workers", zap.Error(err))
		}
	}
}

// serveCommand constructs the 'serve' subcommand that runs the API server and
// the batch extraction workers until SIGINT or SIGTERM.
func serveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts API server and background workers",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			pgsql, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			ext := setupExtractor(ctx, cfg, pgsql)

			// workers outlive ctx until stopped below, so they get a fresh context
			stopWorkers := setupWorker(context.WithoutCancel(ctx), cfg, pgsql, ext)
			stopWebserver := setupServer(ctx, cfg, ext)

			// wait for interrupt
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
			defer cancel()

			stopWebserver(shutdownCtx)
			stopWorkers(shutdownCtx)
		},
	}

	return cmd
}
