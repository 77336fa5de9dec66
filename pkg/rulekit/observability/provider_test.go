package observability

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/rulekit/pkg/rulekit/config"
)

func TestSetup(t *testing.T) {
	t.Run("disabled telemetry uses no-ops", func(t *testing.T) {
		settings := config.DefaultSettings()
		settings.Metrics = false
		settings.Tracing = false

		tel, err := Setup(context.Background(), settings)
		require.NoError(t, err)
		defer func() { _ = tel.Shutdown(context.Background()) }()

		assert.IsType(t, NoopMetrics{}, tel.Metrics)
		assert.IsType(t, NoopSpanManager{}, tel.Spans)
		assert.Nil(t, tel.MetricsHandler)
	})

	t.Run("metrics are served in prometheus format", func(t *testing.T) {
		settings := config.DefaultSettings()
		settings.Metrics = true

		tel, err := Setup(context.Background(), settings)
		require.NoError(t, err)
		defer func() { _ = tel.Shutdown(context.Background()) }()

		require.NotNil(t, tel.MetricsHandler)
		tel.Metrics.RecordOperation(context.Background(), "parse", time.Millisecond, "")

		rec := httptest.NewRecorder()
		tel.MetricsHandler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		body, err := io.ReadAll(rec.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "rulekit_operations")
	})

	t.Run("tracing without endpoint still records spans", func(t *testing.T) {
		settings := config.DefaultSettings()
		settings.Metrics = false
		settings.Tracing = true

		tel, err := Setup(context.Background(), settings)
		require.NoError(t, err)
		defer func() { _ = tel.Shutdown(context.Background()) }()

		_, span := tel.Spans.StartOperationSpan(context.Background(), "parse")
		defer span.End()
		assert.True(t, span.SpanContext().IsValid())
	})
}
