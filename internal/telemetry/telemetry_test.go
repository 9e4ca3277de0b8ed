package telemetry

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/abgdnv/butcherpos/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestMetrics_Handler(t *testing.T) {
	// given
	m, err := NewMetrics("pos-test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Shutdown(context.Background()) })

	counter, err := otel.Meter("test").Int64Counter("pos_test_sales")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	// when
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/telemetry/metrics", nil))

	// then
	assert.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "pos_test_sales")
	assert.Contains(t, string(body), "go_goroutines")
}

func TestNewTracerProvider(t *testing.T) {
	// given
	cfg := config.TelemetryConfig{}
	cfg.Traces.OtlpHttp.Endpoint = "localhost:4318"
	cfg.Traces.OtlpHttp.Insecure = true
	cfg.Traces.OtlpHttp.Timeout = time.Second

	// when
	tp, err := NewTracerProvider(context.Background(), "pos-test", cfg)

	// then
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = tp.Shutdown(ctx)
}
