package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName scopes every rulekit instrument.
const meterName = "rulekit"

// MetricsRecorder records rulekit metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordOperation records one engine operation. category is empty on
	// success and names the error category otherwise.
	RecordOperation(ctx context.Context, op string, duration time.Duration, category string)

	// RecordTree records the shape of a tree handled by op.
	RecordTree(ctx context.Context, op string, depth, rules int)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	operations metric.Int64Counter
	latency    metric.Float64Histogram
	errors     metric.Int64Counter
	treeDepth  metric.Int64Histogram
	ruleCount  metric.Int64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics(otel.GetMeterProvider())
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates the rulekit instruments on provider.
func newOtelMetrics(provider metric.MeterProvider) (*otelMetrics, error) {
	meter := provider.Meter(meterName)

	operations, err := meter.Int64Counter("rulekit.operations",
		metric.WithDescription("Number of parse, combine and evaluate operations"),
	)
	if err != nil {
		return nil, err
	}

	latency, err := meter.Float64Histogram("rulekit.operation.latency_ms",
		metric.WithDescription("Operation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	errs, err := meter.Int64Counter("rulekit.operation.errors",
		metric.WithDescription("Number of failed operations by error category"),
	)
	if err != nil {
		return nil, err
	}

	treeDepth, err := meter.Int64Histogram("rulekit.tree.depth",
		metric.WithDescription("Height of expression trees"),
	)
	if err != nil {
		return nil, err
	}

	ruleCount, err := meter.Int64Histogram("rulekit.tree.rules",
		metric.WithDescription("Number of rules combined into one tree"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		operations: operations,
		latency:    latency,
		errors:     errs,
		treeDepth:  treeDepth,
		ruleCount:  ruleCount,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider at the time of the
// first call. Configure the provider (see Setup) before calling this
// function.
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// NewMetricsRecorderFor returns a recorder bound to provider instead of
// the global one.
func NewMetricsRecorderFor(provider metric.MeterProvider) (MetricsRecorder, error) {
	return newOtelMetrics(provider)
}

// RecordOperation records an operation.
func (m *otelMetrics) RecordOperation(ctx context.Context, op string, duration time.Duration, category string) {
	success := category == ""
	attrs := []attribute.KeyValue{
		attribute.String("operation", op),
		attribute.Bool("success", success),
	}

	m.operations.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.latency.Record(ctx, float64(duration.Microseconds())/1000, metric.WithAttributes(attrs...))

	if !success {
		m.errors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", op),
			attribute.String("category", category),
		))
	}
}

// RecordTree records tree shape.
func (m *otelMetrics) RecordTree(ctx context.Context, op string, depth, rules int) {
	attrs := metric.WithAttributes(attribute.String("operation", op))
	m.treeDepth.Record(ctx, int64(depth), attrs)
	if rules > 0 {
		m.ruleCount.Record(ctx, int64(rules), attrs)
	}
}
