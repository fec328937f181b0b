package extractor

import (
	"context"
	"fmt"
	"phishfeatures/internal/config"
	"phishfeatures/pkg/domain"
	"phishfeatures/pkg/features"
	"phishfeatures/pkg/logger"
	"phishfeatures/pkg/serrors"
	"phishfeatures/pkg/storage"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const instrumentationName = "phishfeatures/internal/extractor"

// extraction modes, used as the "mode" attribute of the instruments
const (
	modePreview = "preview"
	modeSync    = "sync"
	modeBatch   = "batch"
)

// Options configure how batch jobs are enqueued and how results are reused.
type Options struct {
	// MaxAttempts is the number of times a batch job runs before its
	// extractions are marked failed.
	MaxAttempts int
	// ResultCacheTTL is how long a completed job keeps new jobs for the same
	// URL from being enqueued. Requests in that window reuse the stored vector.
	ResultCacheTTL time.Duration
	// MaxBatchSize caps the number of URLs of one Enqueue call. Zero means no cap.
	MaxBatchSize int

	// MeterProvider defaults to the global provider.
	MeterProvider metric.MeterProvider
	// TracerProvider defaults to the global provider.
	TracerProvider trace.TracerProvider
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		MaxAttempts:    cfg.Extractor.MaxAttempts,
		ResultCacheTTL: cfg.Extractor.ResultCacheTTL,
		MaxBatchSize:   cfg.Extractor.MaxBatchSize,
	}
}

type extractor struct {
	options Options
	storage storage.Storage

	tracer      trace.Tracer
	extractions metric.Int64Counter
	duration    metric.Float64Histogram
}

// New creates an Extractor backed by the provided storage.
func New(storage storage.Storage, options Options) (Extractor, error) {
	if options.MeterProvider == nil {
		options.MeterProvider = otel.GetMeterProvider()
	}
	if options.TracerProvider == nil {
		options.TracerProvider = otel.GetTracerProvider()
	}

	meter := options.MeterProvider.Meter(instrumentationName)
	extractions, err := meter.Int64Counter("extractions",
		metric.WithDescription("Number of computed feature vectors."))
	if err != nil {
		return nil, fmt.Errorf("could not create extractions counter: %w", err)
	}
	duration, err := meter.Float64Histogram("extraction.duration",
		metric.WithDescription("Time spent computing one feature vector."),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("could not create extraction duration histogram: %w", err)
	}

	return &extractor{
		options:     options,
		storage:     storage,
		tracer:      options.TracerProvider.Tracer(instrumentationName),
		extractions: extractions,
		duration:    duration,
	}, nil
}

// normalize trims URL and rejects the empty string. The trimmed URL is what
// gets stored; features of it equal features of the untrimmed input.
func normalize(URL string) (string, error) {
	URL = strings.TrimSpace(URL)
	if URL == "" {
		return "", serrors.With(serrors.ErrBadRequest, "URL must not be empty")
	}

	return URL, nil
}

func (e *extractor) compute(ctx context.Context, URL, mode string) features.Vector {
	start := time.Now()
	vec := features.Extract(URL)

	attrs := metric.WithAttributes(attribute.String("mode", mode))
	e.extractions.Add(ctx, 1, attrs)
	e.duration.Record(ctx, time.Since(start).Seconds(), attrs)

	return vec
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (e *extractor) Features(ctx context.Context, URL string) (features.Vector, error) {
	URL, err := normalize(URL)
	if err != nil {
		return features.Vector{}, err
	}

	return e.compute(ctx, URL, modePreview), nil
}

func (e *extractor) Extract(ctx context.Context, userID domain.UserID, URL string) (_ *domain.Extraction, err error) {
	ctx, span := e.tracer.Start(ctx, "extractor.Extract")
	defer func() { endSpan(span, err) }()

	URL, err = normalize(URL)
	if err != nil {
		return nil, err
	}

	res, err := e.storage.StoreExtractions(ctx, domain.Extraction{
		UserID:        userID,
		URL:           URL,
		Status:        domain.ExtractionStatusCompleted,
		Features:      e.compute(ctx, URL, modeSync),
		SchemaVersion: features.SchemaVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("could not store extraction: %w", err)
	}

	return &res[0], nil
}

// Enqueue stores a pending extraction per URL and adds a job per URL in the
// same transaction. When River reports a job for the URL already exists and a
// completed vector of the current schema is stored, the new extraction is
// completed right away with that vector. Otherwise it stays pending and the
// existing job completes it.
func (e *extractor) Enqueue(ctx context.Context,
	userID domain.UserID,
	URLs []string) (_ []domain.Extraction, err error) {
	ctx, span := e.tracer.Start(ctx, "extractor.Enqueue", trace.WithAttributes(attribute.Int("urls", len(URLs))))
	defer func() { endSpan(span, err) }()

	if len(URLs) == 0 {
		return nil, serrors.With(serrors.ErrBadRequest, "no URLs given")
	}
	if e.options.MaxBatchSize > 0 && len(URLs) > e.options.MaxBatchSize {
		return nil, serrors.With(serrors.ErrBadRequest, "at most %d URLs can be enqueued at once", e.options.MaxBatchSize)
	}

	pending := make([]domain.Extraction, len(URLs))
	for i, URL := range URLs {
		URL, err := normalize(URL)
		if err != nil {
			return nil, err
		}
		pending[i] = domain.Extraction{
			UserID: userID,
			URL:    URL,
			Status: domain.ExtractionStatusPending,
		}
	}

	var result []domain.Extraction
	if err := e.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		stored, err := tx.StoreExtractions(ctx, pending...)
		if err != nil {
			return fmt.Errorf("could not store extractions: %w", err)
		}

		for i := range stored {
			jobAdded, err := tx.AddJob(ctx, JobArgs{
				URL:             stored[i].URL,
				maxAttempts:     e.options.MaxAttempts,
				uniqueJobPeriod: e.options.ResultCacheTTL,
			}, nil)
			if err != nil {
				return fmt.Errorf("could not add job: %w", err)
			}
			if jobAdded {
				continue
			}

			// a job for this URL exists; if it already finished its vector is stored
			last, err := tx.LastCompletedExtractionByURL(ctx, stored[i].URL, features.SchemaVersion)
			if err != nil {
				return fmt.Errorf("could not get last completed extraction: %w", err)
			}
			if last == nil {
				continue
			}

			empty := ""
			updated, err := tx.UpdateExtractionByID(ctx, stored[i].ID, storage.ExtractionUpdates{
				Status:        domain.ExtractionStatusCompleted,
				Features:      &last.Features,
				SchemaVersion: last.SchemaVersion,
				LastError:     &empty,
			})
			if err != nil {
				return fmt.Errorf("could not update extraction: %w", err)
			}
			if updated != nil {
				stored[i] = *updated
			}
		}
		result = stored

		return nil
	}); err != nil {
		return nil, fmt.Errorf("could not enqueue URLs: %w", err)
	}

	return result, nil
}

// Process returns a conflict error when no extraction of URL is pending any
// more, e.g. because every requester deleted theirs.
func (e *extractor) Process(ctx context.Context, URL string) (err error) {
	ctx, span := e.tracer.Start(ctx, "extractor.Process", trace.WithAttributes(attribute.String("url", URL)))
	defer func() { endSpan(span, err) }()

	count, err := e.storage.PendingExtractionCountByURL(ctx, URL)
	if err != nil {
		return fmt.Errorf("could not count pending extractions: %w", err)
	}
	if count == 0 {
		return serrors.With(serrors.ErrConflict, "no pending extraction for URL")
	}

	vec := e.compute(ctx, URL, modeBatch)
	empty := ""
	if err := e.storage.UpdatePendingExtractionsByURL(ctx, URL, storage.ExtractionUpdates{
		Status:        domain.ExtractionStatusCompleted,
		Features:      &vec,
		SchemaVersion: features.SchemaVersion,
		LastError:     &empty,
	}); err != nil {
		msg := err.Error()
		if ferr := e.storage.UpdatePendingExtractionsByURL(ctx, URL, storage.ExtractionUpdates{
			Status:      domain.ExtractionStatusFailed,
			LastError:   &msg,
			MaxAttempts: e.options.MaxAttempts,
		}); ferr != nil {
			logger.Warn(ctx, "could not record failed attempt", zap.Error(ferr))
		}

		return fmt.Errorf("could not complete pending extractions: %w", err)
	}

	logger.Debug(ctx, "pending extractions completed", zap.Int64("count", count))

	return nil
}

// UserExtractions returns a page of a user's extractions, newest first. The
// cursor identifies the last extraction of the previous page by creation time
// and ID; the returned cursor is empty on the last page.
func (e *extractor) UserExtractions(ctx context.Context,
	userID domain.UserID,
	status domain.ExtractionStatus,
	cursor string,
	limit uint) ([]domain.Extraction, string, error) {
	if status != "" && !status.Valid() {
		return nil, "", serrors.With(serrors.ErrBadRequest, "invalid status")
	}

	var after storage.ExtractionCursor
	if cursor != "" {
		c, err := decodeCursor(cursor)
		if err != nil {
			return nil, "", serrors.Wrap(serrors.ErrBadRequest, err, "invalid cursor")
		}
		after = c
	}

	page, err := e.storage.UserExtractions(ctx, userID, status, after, limit)
	if err != nil {
		return nil, "", fmt.Errorf("could not get user extractions: %w", err)
	}

	var next string
	if page.NextCursor != nil {
		next = encodeCursor(*page.NextCursor)
	}

	return page.Extractions, next, nil
}

func (e *extractor) Result(ctx context.Context,
	userID domain.UserID,
	ID domain.ExtractionID) (*domain.Extraction, error) {
	res, err := e.storage.ExtractionByID(ctx, userID, ID)
	if err != nil {
		return nil, fmt.Errorf("could not get extraction: %w", err)
	}
	if res == nil {
		return nil, serrors.With(serrors.ErrNotFound, "extraction not found")
	}

	return res, nil
}

// Delete soft-deletes an extraction. Its job is left alone: other users may
// have pending extractions of the same URL, and Process cancels itself when
// none is left.
func (e *extractor) Delete(ctx context.Context, userID domain.UserID, ID domain.ExtractionID) error {
	res, err := e.storage.DeleteExtraction(ctx, userID, ID)
	if err != nil {
		return fmt.Errorf("could not delete extraction: %w", err)
	}
	if res == nil {
		return serrors.With(serrors.ErrNotFound, "extraction not found")
	}

	return nil
}
