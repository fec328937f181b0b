package worker

import (
	"context"
	"errors"
	"fmt"
	"phishfeatures/internal/extractor"
	"phishfeatures/pkg/logger"
	"phishfeatures/pkg/serrors"

	"github.com/riverqueue/river"
	"go.uber.org/zap"
)

// ExtractionWorker runs batch extraction jobs. A job whose URL has no pending
// extraction left is cancelled; any other error is returned so River retries
// it until the job's max attempts.
type ExtractionWorker struct {
	river.WorkerDefaults[extractor.JobArgs]

	extractor extractor.Extractor
}

func NewExtractionWorker(extractor extractor.Extractor) *ExtractionWorker {
	return &ExtractionWorker{
		extractor: extractor,
	}
}

func (w *ExtractionWorker) Work(ctx context.Context, job *river.Job[extractor.JobArgs]) error {
	ctx = logger.WithFields(ctx,
		zap.Int64("jobID", job.ID),
		zap.Int("attempt", job.Attempt),
		zap.String("URL", job.Args.URL))

	if err := w.extractor.Process(ctx, job.Args.URL); err != nil {
		if errors.Is(err, serrors.ErrConflict) {
			logger.Info(ctx, "no pending extraction left, cancelling job")

			return river.JobCancel(err) //nolint: wrapcheck
		}

		logger.Error(ctx, "error in extracting features", zap.Error(err))

		return fmt.Errorf("could not extract features: %w", err)
	}

	logger.Info(ctx, "features extracted successfully")

	return nil
}
