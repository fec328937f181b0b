package metrics_test

import (
	"context"
	"phishfeatures/pkg/metrics"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNewHTTP(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewHTTP(reg)

	m.RequestsTotal.WithLabelValues("GET", "GET /v1/schema", "200").Inc()
	m.RequestDuration.WithLabelValues("GET", "GET /v1/schema", "200").Observe(0.01)

	require.InDelta(t, 1, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "GET /v1/schema", "200")), 0)
	require.Equal(t, 1, testutil.CollectAndCount(m.RequestDuration))

	// registering twice on the same registry is a programming error
	require.Panics(t, func() { metrics.NewHTTP(reg) })
}

func TestNewMeterProvider(t *testing.T) {
	reg := prometheus.NewRegistry()
	mp, err := metrics.NewMeterProvider(reg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	counter, err := mp.Meter("test").Int64Counter("extractions")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() == "extractions_total" {
			found = true
			require.InDelta(t, 3, f.GetMetric()[0].GetCounter().GetValue(), 0)
		}
	}
	require.True(t, found, "otel counter should be exported through the registry")
}
