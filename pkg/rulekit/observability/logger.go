// Package observability provides structured logging, metrics and tracing
// for rulekit operations.
//
// Features:
//   - Structured logging via slog, with text output through charmbracelet/log
//   - Metrics via OpenTelemetry, exported for Prometheus
//   - Tracing via OpenTelemetry, exported over OTLP
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/trace"
)

// Sentinel errors for logger construction.
var (
	ErrUnknownLogLevel  = errors.New("unknown log level")
	ErrUnknownLogFormat = errors.New("unknown log format")
)

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "error":
		return slog.LevelError, nil
	case "warn":
		return slog.LevelWarn, nil
	case "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLogLevel, level)
}

// NewHandler creates a slog.Handler writing to w.
//
// Formats:
//   - text: human-readable output via charmbracelet/log
//   - logfmt: slog key=value output
//   - json: slog JSON output
func NewHandler(w io.Writer, level, format string) (slog.Handler, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(format) {
	case "json":
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}), nil
	case "logfmt":
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}), nil
	case "text":
		return charmlog.NewWithOptions(w, charmlog.Options{
			Level:           charmlog.Level(int32(lvl)),
			Formatter:       charmlog.TextFormatter,
			ReportTimestamp: true,
			TimeFormat:      time.StampMilli,
		}), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownLogFormat, format)
}

// EnrichLogger adds request context to a logger.
// Returns a new logger with request_id and operation fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "3f2a...", "evaluate")
//	enriched.Info("evaluating") // includes request_id, operation
func EnrichLogger(logger *slog.Logger, requestID, op string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("request_id", requestID),
		slog.String("operation", op),
	)
}

// WithTraceID adds the short trace ID of the span in ctx, if any.
func WithTraceID(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return nil
	}
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return logger
	}
	traceID := sc.TraceID().String()
	if len(traceID) > 8 {
		traceID = traceID[:8]
	}
	return logger.With(slog.String("trace_id", traceID))
}

// LogOperationStart logs the start of an engine operation.
func LogOperationStart(logger *slog.Logger, op string, attrs ...slog.Attr) {
	if logger == nil {
		return
	}
	logger.LogAttrs(context.Background(), slog.LevelDebug, "rule operation starting",
		append([]slog.Attr{slog.String("operation", op)}, attrs...)...)
}

// LogOperationComplete logs a successful engine operation.
func LogOperationComplete(logger *slog.Logger, op string, durationMs float64, attrs ...slog.Attr) {
	if logger == nil {
		return
	}
	logger.LogAttrs(context.Background(), slog.LevelDebug, "rule operation completed",
		append([]slog.Attr{
			slog.String("operation", op),
			slog.Float64("duration_ms", durationMs),
		}, attrs...)...)
}

// LogOperationError logs a failed engine operation. Failures caused by the
// request are logged at warn, everything else at error.
func LogOperationError(logger *slog.Logger, op string, err error, category string, clientError bool, durationMs float64) {
	if logger == nil {
		return
	}
	level := slog.LevelError
	if clientError {
		level = slog.LevelWarn
	}
	logger.LogAttrs(context.Background(), level, "rule operation failed",
		slog.String("operation", op),
		slog.String("error", err.Error()),
		slog.String("category", category),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogRequest logs a completed HTTP request.
func LogRequest(logger *slog.Logger, method, path string, status int, durationMs float64) {
	if logger == nil {
		return
	}
	level := slog.LevelInfo
	if status >= 500 {
		level = slog.LevelError
	}
	logger.LogAttrs(context.Background(), level, "request handled",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("duration_ms", durationMs),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := Milliseconds(done())
func TimedOperation() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}

// Milliseconds converts d to fractional milliseconds for log attributes.
func Milliseconds(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
