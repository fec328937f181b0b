package postgres

import (
	"context"
	"database/sql"

	"github.com/go-faster/errors"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverdatabasesql"
)

// AddJob enqueues a River job through the handle's connection. On a
// transactional handle the job is inserted with InsertTx and only becomes
// visible to workers after Commit. The result is false when River skipped
// the insert as a duplicate of a unique job.
func (p *PgSQL) AddJob(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (bool, error) {
	if tx, ok := p.DB.(*sql.Tx); ok {
		client, err := river.NewClient[*sql.Tx](riverdatabasesql.New(nil), &river.Config{})
		if err != nil {
			return false, errors.Wrap(err, "could not create river client")
		}

		res, err := client.InsertTx(ctx, tx, args, opts)
		if err != nil {
			return false, errors.Wrapf(err, "could not insert %s job", args.Kind())
		}

		return !res.UniqueSkippedAsDuplicate, nil
	}

	db, ok := p.DB.(*sql.DB)
	if !ok {
		return false, errors.Errorf("unsupported db handle %T", p.DB)
	}

	client, err := river.NewClient(riverdatabasesql.New(db), &river.Config{})
	if err != nil {
		return false, errors.Wrap(err, "could not create river client")
	}

	res, err := client.Insert(ctx, args, opts)
	if err != nil {
		return false, errors.Wrapf(err, "could not insert %s job", args.Kind())
	}

	return !res.UniqueSkippedAsDuplicate, nil
}
