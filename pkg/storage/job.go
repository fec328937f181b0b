package storage

import (
	"context"

	"github.com/riverqueue/river"
)

// JobStorage enqueues River jobs. Inside a transaction the job only becomes
// visible to workers once the transaction commits.
type JobStorage interface {
	// AddJob inserts a job and reports whether it was added. It returns false
	// when a unique job with the same arguments already exists.
	AddJob(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (bool, error)
}
