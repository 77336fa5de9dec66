package observability

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/randalmurphal/rulekit/pkg/rulekit/config"
)

// Telemetry bundles the recorders built by Setup.
type Telemetry struct {
	// Metrics is NoopMetrics when metrics are disabled.
	Metrics MetricsRecorder
	// Spans is NoopSpanManager when tracing is disabled.
	Spans SpanManager
	// MetricsHandler serves the Prometheus exposition format. Nil when
	// metrics are disabled.
	MetricsHandler http.Handler

	shutdownFuncs []func(context.Context) error
}

// Shutdown flushes and stops every provider started by Setup.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	for _, fn := range t.shutdownFuncs {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("telemetry shutdown: %w", errors.Join(errs...))
	}
	return nil
}

// Setup configures OpenTelemetry from settings and installs the providers
// globally so instrumentation such as otelgin picks them up.
//
// Metrics are exported through a private Prometheus registry. Spans are
// sampled always and exported over OTLP/gRPC when OTLPEndpoint is set;
// without an endpoint they are still created so trace IDs reach the logs.
//
// Example:
//
//	tel, err := observability.Setup(ctx, settings)
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(context.Background())
func Setup(ctx context.Context, settings config.Settings) (*Telemetry, error) {
	tel := &Telemetry{
		Metrics: NoopMetrics{},
		Spans:   NoopSpanManager{},
	}

	res := resource.NewWithAttributes(
		"",
		attribute.String("service.name", settings.ServiceName),
	)

	if settings.Metrics {
		mp, handler, err := initMeter(res)
		if err != nil {
			return nil, fmt.Errorf("init meter: %w", err)
		}
		tel.shutdownFuncs = append(tel.shutdownFuncs, mp.Shutdown)

		recorder, err := NewMetricsRecorderFor(mp)
		if err != nil {
			_ = tel.Shutdown(ctx)
			return nil, fmt.Errorf("create instruments: %w", err)
		}
		otel.SetMeterProvider(mp)
		tel.Metrics = recorder
		tel.MetricsHandler = handler
	}

	if settings.Tracing {
		tp, err := initTracer(ctx, settings.OTLPEndpoint, res)
		if err != nil {
			_ = tel.Shutdown(ctx)
			return nil, fmt.Errorf("init tracer: %w", err)
		}
		tel.shutdownFuncs = append(tel.shutdownFuncs, tp.Shutdown)

		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))
		tel.Spans = NewSpanManagerFor(tp)
	}

	return tel, nil
}

// initMeter creates a MeterProvider backed by the Prometheus exporter.
func initMeter(res *resource.Resource) (*sdkmetric.MeterProvider, http.Handler, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	return mp, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), nil
}

// initTracer creates a TracerProvider, exporting over OTLP when endpoint
// is non-empty.
func initTracer(ctx context.Context, endpoint string, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	}

	if endpoint != "" {
		exporter, err := otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(endpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("create otlp exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	return sdktrace.NewTracerProvider(opts...), nil
}
