package rulekit

import (
	"log/slog"

	"github.com/randalmurphal/rulekit/pkg/rulekit/observability"
)

// engineConfig holds configuration for an Engine.
type engineConfig struct {
	maxRules int
	maxDepth int
	logger   *slog.Logger
	metrics  observability.MetricsRecorder
	spans    observability.SpanManager
}

// defaultEngineConfig returns the default engine configuration.
func defaultEngineConfig() engineConfig {
	return engineConfig{
		maxRules: 100,
		maxDepth: 128,
		metrics:  observability.NoopMetrics{},
		spans:    observability.NoopSpanManager{},
	}
}

// Option configures an Engine.
type Option func(*engineConfig)

// WithMaxRules sets the maximum number of rules Combine accepts.
// Default: 100
//
// Larger requests fail with ErrTooManyRules.
func WithMaxRules(n int) Option {
	return func(c *engineConfig) {
		if n > 0 {
			c.maxRules = n
		}
	}
}

// WithMaxDepth sets the maximum tree height Evaluate accepts.
// Default: 128
//
// Deeper trees fail with ErrTreeTooDeep before evaluation starts.
func WithMaxDepth(n int) Option {
	return func(c *engineConfig) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}

// WithLogger enables structured logging of engine operations.
// A nil logger disables logging.
//
// Example:
//
//	engine := rulekit.New(rulekit.WithLogger(slog.Default()))
func WithLogger(logger *slog.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithMetrics enables OpenTelemetry metrics on the global meter provider.
// Default: false
func WithMetrics(enabled bool) Option {
	return func(c *engineConfig) {
		if enabled {
			c.metrics = observability.NewMetricsRecorder()
		} else {
			c.metrics = observability.NoopMetrics{}
		}
	}
}

// WithMetricsRecorder sets the recorder directly, typically one built by
// observability.Setup.
func WithMetricsRecorder(m observability.MetricsRecorder) Option {
	return func(c *engineConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithTracing enables OpenTelemetry spans on the global tracer provider.
// Default: false
func WithTracing(enabled bool) Option {
	return func(c *engineConfig) {
		if enabled {
			c.spans = observability.NewSpanManager()
		} else {
			c.spans = observability.NoopSpanManager{}
		}
	}
}

// WithSpanManager sets the span manager directly.
func WithSpanManager(s observability.SpanManager) Option {
	return func(c *engineConfig) {
		if s != nil {
			c.spans = s
		}
	}
}
