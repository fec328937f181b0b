package extractor_test

import (
	"context"
	"errors"
	"phishfeatures/internal/extractor"
	"phishfeatures/pkg/domain"
	"phishfeatures/pkg/features"
	"phishfeatures/pkg/serrors"
	"phishfeatures/pkg/storage"
	mockstorage "phishfeatures/pkg/storage/mock"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/mock/gomock"
)

const (
	url = "http://secure-login.bit.ly/verify?x=1"
)

func newTestExtractor(t *testing.T) (*gomock.Controller, *mockstorage.MockStorage, extractor.Extractor) {
	t.Helper()

	ctrl := gomock.NewController(t)
	st := mockstorage.NewMockStorage(ctrl)
	e, err := extractor.New(st, extractor.Options{MaxAttempts: 3, ResultCacheTTL: time.Hour, MaxBatchSize: 3})
	require.NoError(t, err)

	return ctrl, st, e
}

// expectWithTx runs the WithTx callback against a fresh MockAllStorage.
func expectWithTx(
	t *testing.T,
	ctrl *gomock.Controller,
	m *mockstorage.MockStorage,
	fn func(tx *mockstorage.MockAllStorage)) {
	t.Helper()

	m.EXPECT().WithTx(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cb func(storage.AllStorage) error) error {
			tx := mockstorage.NewMockAllStorage(ctrl)
			if fn != nil {
				fn(tx)
			}

			return cb(tx)
		},
	)
}

// jobFor matches extractor.JobArgs by URL.
type jobFor string

func (u jobFor) Matches(x any) bool {
	args, ok := x.(extractor.JobArgs)

	return ok && args.URL == string(u)
}

func (u jobFor) String() string { return "job for " + string(u) }

// withIDs is a StoreExtractions stub assigning fresh IDs.
func withIDs(_ context.Context, extractions ...domain.Extraction) ([]domain.Extraction, error) {
	for i := range extractions {
		extractions[i].ID = domain.ExtractionID(uuid.New())
	}

	return extractions, nil
}

func TestExtractor_Features(t *testing.T) {
	_, _, e := newTestExtractor(t)

	vec, err := e.Features(context.Background(), "  "+url+"\n")
	require.NoError(t, err)
	require.True(t, features.Extract(url).Equal(vec))

	_, err = e.Features(context.Background(), " \t ")
	require.ErrorIs(t, err, serrors.ErrBadRequest)
}

func TestExtractor_Extract(t *testing.T) {
	_, st, e := newTestExtractor(t)
	userID := domain.UserID(uuid.New())

	st.EXPECT().StoreExtractions(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, extractions ...domain.Extraction) ([]domain.Extraction, error) {
			require.Len(t, extractions, 1)
			got := extractions[0]
			require.Equal(t, userID, got.UserID)
			require.Equal(t, url, got.URL)
			require.Equal(t, domain.ExtractionStatusCompleted, got.Status)
			require.Equal(t, features.SchemaVersion, got.SchemaVersion)
			require.True(t, features.Extract(url).Equal(got.Features))

			return withIDs(ctx, extractions...)
		},
	)

	res, err := e.Extract(context.Background(), userID, " "+url)
	require.NoError(t, err)
	require.NotEqual(t, domain.ExtractionID{}, res.ID)
	require.InDelta(t, 1, res.Features.Value("shortening_service"), 0)
}

func TestExtractor_Extract_Errors(t *testing.T) {
	_, st, e := newTestExtractor(t)

	_, err := e.Extract(context.Background(), domain.UserID{}, "")
	require.ErrorIs(t, err, serrors.ErrBadRequest)

	st.EXPECT().StoreExtractions(gomock.Any(), gomock.Any()).Return(nil, errors.New("store err"))
	_, err = e.Extract(context.Background(), domain.UserID{}, url)
	require.Error(t, err)
	require.NotErrorIs(t, err, serrors.ErrBadRequest)
}

func TestExtractor_Enqueue_JobAdded(t *testing.T) {
	ctrl, st, e := newTestExtractor(t)
	userID := domain.UserID(uuid.New())

	expectWithTx(t, ctrl, st, func(tx *mockstorage.MockAllStorage) {
		tx.EXPECT().StoreExtractions(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(withIDs)
		tx.EXPECT().AddJob(gomock.Any(), jobFor("http://a.com"), gomock.Nil()).Return(true, nil)
		tx.EXPECT().AddJob(gomock.Any(), jobFor("http://b.com"), gomock.Nil()).Return(true, nil)
	})

	res, err := e.Enqueue(context.Background(), userID, []string{" http://a.com", "http://b.com "})
	require.NoError(t, err)
	require.Len(t, res, 2)
	for i, u := range []string{"http://a.com", "http://b.com"} {
		require.Equal(t, u, res[i].URL)
		require.Equal(t, domain.ExtractionStatusPending, res[i].Status)
		require.Equal(t, userID, res[i].UserID)
	}
}

func TestExtractor_Enqueue_ReusesLastCompleted(t *testing.T) {
	ctrl, st, e := newTestExtractor(t)
	vec := features.Extract(url)
	completed := domain.Extraction{
		Status:        domain.ExtractionStatusCompleted,
		Features:      vec,
		SchemaVersion: features.SchemaVersion,
	}

	expectWithTx(t, ctrl, st, func(tx *mockstorage.MockAllStorage) {
		tx.EXPECT().StoreExtractions(gomock.Any(), gomock.Any()).DoAndReturn(withIDs)
		tx.EXPECT().AddJob(gomock.Any(), gomock.Any(), gomock.Nil()).Return(false, nil)
		tx.EXPECT().LastCompletedExtractionByURL(gomock.Any(), url, features.SchemaVersion).Return(&completed, nil)
		tx.EXPECT().UpdateExtractionByID(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, id domain.ExtractionID, updates storage.ExtractionUpdates) (*domain.Extraction, error) {
				require.Equal(t, domain.ExtractionStatusCompleted, updates.Status)
				require.NotNil(t, updates.Features)
				require.True(t, vec.Equal(*updates.Features))
				require.Equal(t, features.SchemaVersion, updates.SchemaVersion)

				return &domain.Extraction{
					ID:       id,
					URL:      url,
					Status:   domain.ExtractionStatusCompleted,
					Features: *updates.Features,
				}, nil
			},
		)
	})

	res, err := e.Enqueue(context.Background(), domain.UserID{}, []string{url})
	require.NoError(t, err)
	require.Len(t, res, 1)
	require.Equal(t, domain.ExtractionStatusCompleted, res[0].Status)
	require.True(t, vec.Equal(res[0].Features))
}

func TestExtractor_Enqueue_PendingWhenJobExistsWithoutResult(t *testing.T) {
	ctrl, st, e := newTestExtractor(t)

	expectWithTx(t, ctrl, st, func(tx *mockstorage.MockAllStorage) {
		tx.EXPECT().StoreExtractions(gomock.Any(), gomock.Any()).DoAndReturn(withIDs)
		tx.EXPECT().AddJob(gomock.Any(), gomock.Any(), gomock.Nil()).Return(false, nil)
		tx.EXPECT().LastCompletedExtractionByURL(gomock.Any(), url, features.SchemaVersion).Return(nil, nil)
	})

	res, err := e.Enqueue(context.Background(), domain.UserID{}, []string{url})
	require.NoError(t, err)
	require.Equal(t, domain.ExtractionStatusPending, res[0].Status)
}

func TestExtractor_Enqueue_InvalidInput(t *testing.T) {
	_, _, e := newTestExtractor(t)
	ctx := context.Background()

	for name, urls := range map[string][]string{
		"empty list":   nil,
		"empty URL":    {"http://a.com", "  "},
		"over the cap": {"a", "b", "c", "d"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := e.Enqueue(ctx, domain.UserID{}, urls)
			require.ErrorIs(t, err, serrors.ErrBadRequest)
		})
	}
}

func TestExtractor_Enqueue_PropagatesErrors(t *testing.T) {
	ctrl, st, e := newTestExtractor(t)
	ctx := context.Background()

	expectWithTx(t, ctrl, st, func(tx *mockstorage.MockAllStorage) {
		tx.EXPECT().StoreExtractions(gomock.Any(), gomock.Any()).Return(nil, errors.New("store err"))
	})
	_, err := e.Enqueue(ctx, domain.UserID{}, []string{url})
	require.ErrorContains(t, err, "store err")

	expectWithTx(t, ctrl, st, func(tx *mockstorage.MockAllStorage) {
		tx.EXPECT().StoreExtractions(gomock.Any(), gomock.Any()).DoAndReturn(withIDs)
		tx.EXPECT().AddJob(gomock.Any(), gomock.Any(), gomock.Nil()).Return(false, errors.New("add err"))
	})
	_, err = e.Enqueue(ctx, domain.UserID{}, []string{url})
	require.ErrorContains(t, err, "add err")

	expectWithTx(t, ctrl, st, func(tx *mockstorage.MockAllStorage) {
		tx.EXPECT().StoreExtractions(gomock.Any(), gomock.Any()).DoAndReturn(withIDs)
		tx.EXPECT().AddJob(gomock.Any(), gomock.Any(), gomock.Nil()).Return(false, nil)
		tx.EXPECT().LastCompletedExtractionByURL(gomock.Any(), url, gomock.Any()).Return(nil, errors.New("last err"))
	})
	_, err = e.Enqueue(ctx, domain.UserID{}, []string{url})
	require.ErrorContains(t, err, "last err")

	expectWithTx(t, ctrl, st, func(tx *mockstorage.MockAllStorage) {
		tx.EXPECT().StoreExtractions(gomock.Any(), gomock.Any()).DoAndReturn(withIDs)
		tx.EXPECT().AddJob(gomock.Any(), gomock.Any(), gomock.Nil()).Return(false, nil)
		tx.EXPECT().LastCompletedExtractionByURL(gomock.Any(), url, gomock.Any()).
			Return(&domain.Extraction{Status: domain.ExtractionStatusCompleted}, nil)
		tx.EXPECT().UpdateExtractionByID(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("update err"))
	})
	_, err = e.Enqueue(ctx, domain.UserID{}, []string{url})
	require.ErrorContains(t, err, "update err")
}

func TestExtractor_Process(t *testing.T) {
	_, st, e := newTestExtractor(t)

	st.EXPECT().PendingExtractionCountByURL(gomock.Any(), url).Return(int64(2), nil)
	st.EXPECT().UpdatePendingExtractionsByURL(gomock.Any(), url, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, updates storage.ExtractionUpdates) error {
			require.Equal(t, domain.ExtractionStatusCompleted, updates.Status)
			require.True(t, features.Extract(url).Equal(*updates.Features))
			require.Equal(t, features.SchemaVersion, updates.SchemaVersion)
			require.NotNil(t, updates.LastError)
			require.Empty(t, *updates.LastError)

			return nil
		},
	)

	require.NoError(t, e.Process(context.Background(), url))
}

func TestExtractor_Process_NoPendingConflicts(t *testing.T) {
	_, st, e := newTestExtractor(t)

	st.EXPECT().PendingExtractionCountByURL(gomock.Any(), url).Return(int64(0), nil)

	err := e.Process(context.Background(), url)
	require.ErrorIs(t, err, serrors.ErrConflict)
}

func TestExtractor_Process_RecordsFailedAttempt(t *testing.T) {
	_, st, e := newTestExtractor(t)

	st.EXPECT().PendingExtractionCountByURL(gomock.Any(), url).Return(int64(1), nil)
	gomock.InOrder(
		st.EXPECT().UpdatePendingExtractionsByURL(gomock.Any(), url, gomock.Any()).Return(errors.New("write err")),
		st.EXPECT().UpdatePendingExtractionsByURL(gomock.Any(), url, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, updates storage.ExtractionUpdates) error {
				require.Equal(t, domain.ExtractionStatusFailed, updates.Status)
				require.Equal(t, 3, updates.MaxAttempts)
				require.Nil(t, updates.Features)
				require.Contains(t, *updates.LastError, "write err")

				return nil
			},
		),
	)

	err := e.Process(context.Background(), url)
	require.ErrorContains(t, err, "write err")
	require.NotErrorIs(t, err, serrors.ErrConflict)
}

func TestExtractor_UserExtractions(t *testing.T) {
	_, st, e := newTestExtractor(t)
	userID := domain.UserID(uuid.New())
	after := storage.ExtractionCursor{
		CreatedAt: time.Date(2025, 3, 1, 10, 0, 0, 123456000, time.UTC),
		ID:        domain.ExtractionID(uuid.MustParse("6f1c1d9e-3f0a-4c47-9b5e-2f7a0a6b8c01")),
	}
	next := storage.ExtractionCursor{
		CreatedAt: after.CreatedAt.Add(-time.Minute),
		ID:        domain.ExtractionID(uuid.MustParse("0b7e2a55-9c1d-4e3f-8a2b-5d6c7e8f9a10")),
	}

	st.EXPECT().UserExtractions(gomock.Any(), userID, domain.ExtractionStatusPending, after, uint(10)).
		Return(storage.UserExtractions{
			Extractions: []domain.Extraction{{URL: "http://a.com"}},
			NextCursor:  &next,
		}, nil)

	res, cursor, err := e.UserExtractions(context.Background(),
		userID, domain.ExtractionStatusPending, "2025-03-01T10:00:00.123456Z_6f1c1d9e-3f0a-4c47-9b5e-2f7a0a6b8c01", 10)
	require.NoError(t, err)
	require.Len(t, res, 1)
	require.Equal(t, "2025-03-01T09:59:00.123456Z_0b7e2a55-9c1d-4e3f-8a2b-5d6c7e8f9a10", cursor)

	// the returned cursor is accepted as is
	st.EXPECT().UserExtractions(gomock.Any(), userID, domain.ExtractionStatus(""), next, uint(10)).
		Return(storage.UserExtractions{}, nil)
	_, _, err = e.UserExtractions(context.Background(), userID, "", cursor, 10)
	require.NoError(t, err)

	// last page
	st.EXPECT().UserExtractions(gomock.Any(), userID, domain.ExtractionStatus(""), storage.ExtractionCursor{}, uint(5)).
		Return(storage.UserExtractions{}, nil)
	_, cursor, err = e.UserExtractions(context.Background(), userID, "", "", 5)
	require.NoError(t, err)
	require.Empty(t, cursor)
}

func TestExtractor_UserExtractions_InvalidInput(t *testing.T) {
	_, _, e := newTestExtractor(t)

	for _, cursor := range []string{
		"not-a-time",
		// creation time alone cannot split rows of one batch
		"2025-03-01T10:00:00Z",
		"2025-03-01T10:00:00Z_not-a-uuid",
		"yesterday_6f1c1d9e-3f0a-4c47-9b5e-2f7a0a6b8c01",
	} {
		_, _, err := e.UserExtractions(context.Background(), domain.UserID{}, "", cursor, 5)
		require.ErrorIs(t, err, serrors.ErrBadRequest, cursor)
	}

	_, _, err := e.UserExtractions(context.Background(), domain.UserID{}, "DONE", "", 5)
	require.ErrorIs(t, err, serrors.ErrBadRequest)
}

func TestExtractor_Result(t *testing.T) {
	_, st, e := newTestExtractor(t)
	userID := domain.UserID(uuid.New())
	id := domain.ExtractionID(uuid.New())

	st.EXPECT().ExtractionByID(gomock.Any(), userID, id).Return(&domain.Extraction{URL: "http://x"}, nil)
	res, err := e.Result(context.Background(), userID, id)
	require.NoError(t, err)
	require.Equal(t, "http://x", res.URL)

	st.EXPECT().ExtractionByID(gomock.Any(), userID, id).Return(nil, nil)
	_, err = e.Result(context.Background(), userID, id)
	require.ErrorIs(t, err, serrors.ErrNotFound)

	st.EXPECT().ExtractionByID(gomock.Any(), userID, id).Return(nil, errors.New("boom"))
	_, err = e.Result(context.Background(), userID, id)
	require.Error(t, err)
	require.NotErrorIs(t, err, serrors.ErrNotFound)
}

func TestExtractor_Delete(t *testing.T) {
	_, st, e := newTestExtractor(t)
	userID := domain.UserID(uuid.New())
	id := domain.ExtractionID(uuid.New())

	st.EXPECT().DeleteExtraction(gomock.Any(), userID, id).Return(&domain.Extraction{}, nil)
	require.NoError(t, e.Delete(context.Background(), userID, id))

	st.EXPECT().DeleteExtraction(gomock.Any(), userID, id).Return(nil, nil)
	require.ErrorIs(t, e.Delete(context.Background(), userID, id), serrors.ErrNotFound)

	st.EXPECT().DeleteExtraction(gomock.Any(), userID, id).Return(nil, errors.New("boom"))
	require.Error(t, e.Delete(context.Background(), userID, id))
}

func TestExtractor_RecordsMetrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	e, err := extractor.New(mockstorage.NewMockStorage(ctrl), extractor.Options{MeterProvider: mp})
	require.NoError(t, err)

	for range 3 {
		_, err := e.Features(context.Background(), url)
		require.NoError(t, err)
	}

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	var total int64
	for _, m := range rm.ScopeMetrics[0].Metrics {
		if sum, ok := m.Data.(metricdata.Sum[int64]); ok && m.Name == "extractions" {
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	require.EqualValues(t, 3, total)
}
