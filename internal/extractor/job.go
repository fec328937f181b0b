package extractor

import (
	"time"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
)

// JobArgs are the arguments of a batch extraction job. URL is the unique key,
// so one job serves every pending extraction of the same URL.
type JobArgs struct {
	URL string `json:"url" river:"unique"`

	maxAttempts     int
	uniqueJobPeriod time.Duration
}

func (args JobArgs) Kind() string { return "ExtractFeaturesJob" }

// InsertOpts keeps at most one job per URL in any non-final state, and one
// completed job per uniqueJobPeriod.
func (args JobArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		MaxAttempts: args.maxAttempts,
		UniqueOpts: river.UniqueOpts{
			ByArgs:   true,
			ByPeriod: args.uniqueJobPeriod,
			ByState: []rivertype.JobState{
				rivertype.JobStateAvailable,
				rivertype.JobStateCompleted,
				rivertype.JobStatePending,
				rivertype.JobStateRunning,
				rivertype.JobStateRetryable,
				rivertype.JobStateScheduled,
			},
		},
	}
}
