package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// newJSONLogger returns a debug-level JSON logger and its output buffer.
func newJSONLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

// lastEntry decodes the final JSON line written to buf.
func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	return entry
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"verbose", "warning"} {
		_, err := ParseLevel(bad)
		assert.ErrorIs(t, err, ErrUnknownLogLevel, bad)
	}
}

func TestNewHandler(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		buf := &bytes.Buffer{}
		h, err := NewHandler(buf, "info", "json")
		require.NoError(t, err)

		logger := slog.New(h)
		logger.Debug("hidden")
		logger.Info("shown", "k", "v")

		entry := lastEntry(t, buf)
		assert.Equal(t, "shown", entry["msg"])
		assert.Equal(t, "v", entry["k"])
		assert.NotContains(t, buf.String(), "hidden")
	})

	t.Run("logfmt", func(t *testing.T) {
		buf := &bytes.Buffer{}
		h, err := NewHandler(buf, "debug", "logfmt")
		require.NoError(t, err)

		slog.New(h).Debug("parsed", "rule", "age > 30")
		assert.Contains(t, buf.String(), `msg=parsed`)
		assert.Contains(t, buf.String(), `rule="age > 30"`)
	})

	t.Run("text", func(t *testing.T) {
		buf := &bytes.Buffer{}
		h, err := NewHandler(buf, "warn", "text")
		require.NoError(t, err)

		logger := slog.New(h)
		logger.Info("quiet")
		logger.Warn("loud")
		assert.Contains(t, buf.String(), "loud")
		assert.NotContains(t, buf.String(), "quiet")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := NewHandler(&bytes.Buffer{}, "info", "xml")
		assert.ErrorIs(t, err, ErrUnknownLogFormat)
	})

	t.Run("unknown level", func(t *testing.T) {
		_, err := NewHandler(&bytes.Buffer{}, "loud", "json")
		assert.ErrorIs(t, err, ErrUnknownLogLevel)
	})
}

func TestEnrichLogger(t *testing.T) {
	t.Run("adds request fields", func(t *testing.T) {
		logger, buf := newJSONLogger()
		EnrichLogger(logger, "req-1", "evaluate").Info("x")

		entry := lastEntry(t, buf)
		assert.Equal(t, "req-1", entry["request_id"])
		assert.Equal(t, "evaluate", entry["operation"])
	})

	t.Run("nil logger", func(t *testing.T) {
		assert.Nil(t, EnrichLogger(nil, "req-1", "evaluate"))
	})
}

func TestWithTraceID(t *testing.T) {
	t.Run("no span leaves logger unchanged", func(t *testing.T) {
		logger, buf := newJSONLogger()
		WithTraceID(context.Background(), logger).Info("x")
		assert.NotContains(t, lastEntry(t, buf), "trace_id")
	})

	t.Run("adds short trace id", func(t *testing.T) {
		tp := sdktrace.NewTracerProvider()
		defer func() { _ = tp.Shutdown(context.Background()) }()

		ctx, span := tp.Tracer("test").Start(context.Background(), "op")
		defer span.End()

		logger, buf := newJSONLogger()
		WithTraceID(ctx, logger).Info("x")

		entry := lastEntry(t, buf)
		want := span.SpanContext().TraceID().String()[:8]
		assert.Equal(t, want, entry["trace_id"])
	})

	t.Run("nil logger", func(t *testing.T) {
		assert.Nil(t, WithTraceID(context.Background(), nil))
	})
}

func TestLogOperationHelpers(t *testing.T) {
	t.Run("start and complete", func(t *testing.T) {
		logger, buf := newJSONLogger()
		LogOperationStart(logger, "parse", slog.String("rule", "age > 30"))
		entry := lastEntry(t, buf)
		assert.Equal(t, "rule operation starting", entry["msg"])
		assert.Equal(t, "parse", entry["operation"])
		assert.Equal(t, "age > 30", entry["rule"])

		LogOperationComplete(logger, "parse", 1.5)
		entry = lastEntry(t, buf)
		assert.Equal(t, "rule operation completed", entry["msg"])
		assert.InDelta(t, 1.5, entry["duration_ms"], 0.001)
	})

	t.Run("client errors log at warn", func(t *testing.T) {
		logger, buf := newJSONLogger()
		LogOperationError(logger, "parse", errors.New("bad"), "invalid_input", true, 2)
		entry := lastEntry(t, buf)
		assert.Equal(t, "WARN", entry["level"])
		assert.Equal(t, "bad", entry["error"])
		assert.Equal(t, "invalid_input", entry["category"])
	})

	t.Run("internal errors log at error", func(t *testing.T) {
		logger, buf := newJSONLogger()
		LogOperationError(logger, "evaluate", errors.New("boom"), "internal", false, 2)
		assert.Equal(t, "ERROR", lastEntry(t, buf)["level"])
	})

	t.Run("request levels", func(t *testing.T) {
		logger, buf := newJSONLogger()
		LogRequest(logger, "POST", "/create_rule", 400, 0.3)
		entry := lastEntry(t, buf)
		assert.Equal(t, "INFO", entry["level"])
		assert.EqualValues(t, 400, entry["status"])

		LogRequest(logger, "POST", "/evaluate_rule", 500, 0.3)
		assert.Equal(t, "ERROR", lastEntry(t, buf)["level"])
	})

	t.Run("nil logger is safe", func(t *testing.T) {
		assert.NotPanics(t, func() {
			LogOperationStart(nil, "parse")
			LogOperationComplete(nil, "parse", 1)
			LogOperationError(nil, "parse", errors.New("x"), "internal", false, 1)
			LogRequest(nil, "GET", "/health", 200, 1)
		})
	})
}

func TestTimedOperation(t *testing.T) {
	done := TimedOperation()
	first := done()
	assert.GreaterOrEqual(t, first, time.Duration(0))
	assert.GreaterOrEqual(t, done(), first)
}

func TestMilliseconds(t *testing.T) {
	assert.Equal(t, 1.5, Milliseconds(1500*time.Microsecond))
	assert.Equal(t, 0.0, Milliseconds(0))
	assert.Equal(t, 2000.0, Milliseconds(2*time.Second))
}
