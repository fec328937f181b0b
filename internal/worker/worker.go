// Package worker runs the River client that processes background jobs.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"phishfeatures/internal/extractor"
	"phishfeatures/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"go.uber.org/zap/exp/zapslog"
)

const defaultMaxWorkers = 100

// Options configure the River client.
type Options struct {
	// MaxWorkers is the number of jobs of the default queue run concurrently.
	MaxWorkers int
}

// NewClient builds a River client with every worker of the service registered.
func NewClient(ctx context.Context,
	dbPool *pgxpool.Pool,
	extractor extractor.Extractor,
	options Options) (*river.Client[pgx.Tx], error) {
	if options.MaxWorkers <= 0 {
		options.MaxWorkers = defaultMaxWorkers
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewExtractionWorker(extractor))

	riverClient, err := river.NewClient(riverpgxv5.New(dbPool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: options.MaxWorkers},
		},
		Workers: workers,
		Logger:  slog.New(zapslog.NewHandler(logger.Get(ctx).Core())),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create river queue client: %w", err)
	}

	return riverClient, nil
}

// Start builds the River client and starts working jobs until ctx is done or
// the client is stopped.
func Start(ctx context.Context,
	dbPool *pgxpool.Pool,
	extractor extractor.Extractor,
	options Options) (*river.Client[pgx.Tx], error) {
	riverClient, err := NewClient(ctx, dbPool, extractor, options)
	if err != nil {
		return nil, err
	}

	if err := riverClient.Start(ctx); err != nil {
		return nil, fmt.Errorf("could not start river queue client: %w", err)
	}

	return riverClient, nil
}
