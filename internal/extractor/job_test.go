package extractor_test

import (
	"phishfeatures/internal/extractor"
	"testing"

	"github.com/riverqueue/river/rivertype"
	"github.com/stretchr/testify/require"
)

func TestJobArgs_InsertOpts(t *testing.T) {
	args := extractor.JobArgs{URL: "http://a.com"}
	require.Equal(t, "ExtractFeaturesJob", args.Kind())

	opts := args.InsertOpts()
	require.True(t, opts.UniqueOpts.ByArgs)
	require.Contains(t, opts.UniqueOpts.ByState, rivertype.JobStateRunning)
	require.Contains(t, opts.UniqueOpts.ByState, rivertype.JobStateCompleted)
	require.NotContains(t, opts.UniqueOpts.ByState, rivertype.JobStateDiscarded)
	require.NotContains(t, opts.UniqueOpts.ByState, rivertype.JobStateCancelled)
}
