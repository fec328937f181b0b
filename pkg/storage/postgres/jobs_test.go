package postgres_test

import (
	"context"
	"database/sql"
	"phishfeatures/pkg/storage/postgres"
	"testing"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverdatabasesql"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/riverqueue/river/rivertest"
	"github.com/stretchr/testify/require"
)

type testJobArgs struct {
	URL string `json:"url"`
}

func (testJobArgs) Kind() string { return "TestJob" }

func (testJobArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		UniqueOpts: river.UniqueOpts{ByArgs: true},
	}
}

func migrateRiver(t *testing.T, storage *postgres.PgSQL) {
	t.Helper()
	migrator, err := rivermigrate.New(riverdatabasesql.New(storage.DB.(*sql.DB)), nil)
	require.NoError(t, err)
	migrations := migrator.AllVersions()
	_, err = migrator.Migrate(t.Context(), rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{
		TargetVersion: migrations[len(migrations)-1].Version,
	})
	require.NoError(t, err)
}

func TestPgSQL_AddJob_InTx(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()
	migrateRiver(t, pg)

	ctx := context.Background()

	txStorage, err := pg.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = txStorage.Rollback() }()

	added, err := txStorage.AddJob(ctx, testJobArgs{URL: "http://a.com"}, nil)
	require.NoError(t, err)
	require.True(t, added)

	rivertest.RequireInsertedTx[*riverdatabasesql.Driver](
		ctx,
		t,
		txStorage.(*postgres.PgSQL).DB.(*sql.Tx),
		&testJobArgs{URL: "http://a.com"},
		nil,
	)
}

func TestPgSQL_AddJob_SkipsDuplicates(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()
	migrateRiver(t, pg)

	ctx := context.Background()

	added, err := pg.AddJob(ctx, testJobArgs{URL: "http://a.com"}, nil)
	require.NoError(t, err)
	require.True(t, added)

	added, err = pg.AddJob(ctx, testJobArgs{URL: "http://a.com"}, nil)
	require.NoError(t, err)
	require.False(t, added)

	added, err = pg.AddJob(ctx, testJobArgs{URL: "http://b.com"}, nil)
	require.NoError(t, err)
	require.True(t, added)

	rivertest.RequireManyInserted[*riverdatabasesql.Driver](
		ctx,
		t,
		riverdatabasesql.New(pg.DB.(*sql.DB)),
		[]rivertest.ExpectedJob{
			{Args: &testJobArgs{URL: "http://a.com"}},
			{Args: &testJobArgs{URL: "http://b.com"}},
		},
	)
}
