package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// setupMetricsTest creates a recorder on a private meter provider and
// returns the reader used to collect from it.
func setupMetricsTest(t *testing.T) (MetricsRecorder, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down meter provider: %v", err)
		}
	})

	recorder, err := NewMetricsRecorderFor(provider)
	require.NoError(t, err)
	return recorder, reader
}

// collectMetrics collects all metrics from the reader.
func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) *metricdata.ResourceMetrics {
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return &rm
}

// findMetric finds a metric by name in the collected data.
func findMetric(rm *metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func attrString(set attribute.Set, key attribute.Key) string {
	v, ok := set.Value(key)
	if !ok {
		return ""
	}
	return v.AsString()
}

func TestNewMetricsRecorder(t *testing.T) {
	recorder := NewMetricsRecorder()
	require.NotNil(t, recorder)

	_, isNoop := recorder.(NoopMetrics)
	assert.False(t, isNoop, "expected real metrics recorder, got noop")
}

func TestRecordOperation(t *testing.T) {
	recorder, reader := setupMetricsTest(t)
	ctx := context.Background()

	recorder.RecordOperation(ctx, "parse", 2*time.Millisecond, "")
	recorder.RecordOperation(ctx, "parse", 3*time.Millisecond, "invalid_input")

	rm := collectMetrics(t, reader)

	t.Run("counts every operation", func(t *testing.T) {
		m := findMetric(rm, "rulekit.operations")
		require.NotNil(t, m)
		sum, ok := m.Data.(metricdata.Sum[int64])
		require.True(t, ok, "expected Sum type")

		var total int64
		for _, dp := range sum.DataPoints {
			assert.Equal(t, "parse", attrString(dp.Attributes, "operation"))
			total += dp.Value
		}
		assert.Equal(t, int64(2), total)
	})

	t.Run("records latency", func(t *testing.T) {
		m := findMetric(rm, "rulekit.operation.latency_ms")
		require.NotNil(t, m)
		hist, ok := m.Data.(metricdata.Histogram[float64])
		require.True(t, ok, "expected Histogram type")

		var count uint64
		for _, dp := range hist.DataPoints {
			count += dp.Count
		}
		assert.Equal(t, uint64(2), count)
	})

	t.Run("counts errors by category", func(t *testing.T) {
		m := findMetric(rm, "rulekit.operation.errors")
		require.NotNil(t, m)
		sum, ok := m.Data.(metricdata.Sum[int64])
		require.True(t, ok, "expected Sum type")
		require.Len(t, sum.DataPoints, 1)

		dp := sum.DataPoints[0]
		assert.Equal(t, int64(1), dp.Value)
		assert.Equal(t, "invalid_input", attrString(dp.Attributes, "category"))
	})
}

func TestRecordTree(t *testing.T) {
	recorder, reader := setupMetricsTest(t)
	ctx := context.Background()

	recorder.RecordTree(ctx, "combine", 3, 2)
	recorder.RecordTree(ctx, "evaluate", 2, 0)

	rm := collectMetrics(t, reader)

	depth := findMetric(rm, "rulekit.tree.depth")
	require.NotNil(t, depth)
	hist, ok := depth.Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	assert.Len(t, hist.DataPoints, 2)

	rules := findMetric(rm, "rulekit.tree.rules")
	require.NotNil(t, rules)
	hist, ok = rules.Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, "combine", attrString(hist.DataPoints[0].Attributes, "operation"))
	assert.Equal(t, int64(2), hist.DataPoints[0].Sum)
}

func TestNoopMetrics(t *testing.T) {
	var m MetricsRecorder = NoopMetrics{}
	assert.NotPanics(t, func() {
		m.RecordOperation(context.Background(), "parse", time.Millisecond, "")
		m.RecordTree(context.Background(), "parse", 1, 1)
	})
}
