package telemetry

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestNewLogger(t *testing.T) {
	out := &bytes.Buffer{}
	logger := NewLogger(out, false)
	logger.Debug("hidden")
	logger.Info("shown", "page", 3)
	require.NotContains(t, out.String(), "hidden")
	require.Contains(t, out.String(), "shown")
	require.Contains(t, out.String(), "page")

	out.Reset()
	logger = NewLogger(out, true)
	require.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
	logger.Debug("visible")
	require.Contains(t, out.String(), "visible")
}

func TestZeroTelemetry(t *testing.T) {
	var tel Telemetry
	require.False(t, tel.Enabled())
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestSetupFromEnvWithoutConfig(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })

	_, err = SetupFromEnv(context.Background(), "test:telemetry")
	if err != nil {
		require.ErrorIs(t, err, os.ErrNotExist)
	}
}

func TestSetupHttp(t *testing.T) {
	var exports atomic.Int64
	collector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		exports.Add(1)
		w.Header().Set("Content-Type", "application/x-protobuf")
		w.WriteHeader(http.StatusOK)
	}))
	defer collector.Close()

	tel, err := Setup(context.Background(), "test:telemetry", Config{
		Otlp: OtlpConfig{
			Traces:  OtlpConnConfig{HttpEndpoint: collector.URL + "/v1/traces"},
			Metrics: OtlpConnConfig{HttpEndpoint: collector.URL + "/v1/metrics"},
		},
	})
	require.NoError(t, err)
	require.True(t, tel.Enabled())

	_, span := otel.Tracer("test").Start(context.Background(), "span")
	span.End()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	require.NoError(t, tel.Shutdown(ctx))
	require.Positive(t, exports.Load())
}
