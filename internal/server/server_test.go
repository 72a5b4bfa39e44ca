package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cylin-tw/line-daily-push/internal/config"
	"github.com/cylin-tw/line-daily-push/internal/notifier"
	"github.com/cylin-tw/line-daily-push/pkg/telemetry"
)

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	config.SetConfig(cfg)

	tele, err := telemetry.New(context.Background(), config.TelemetryConfig{Enabled: false})
	require.NoError(t, err)

	n := notifier.New(cfg, zap.NewNop(), tele)
	return New(n, zap.NewNop(), tele)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, config.NewDefaultConfig())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	srv.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestStatusEndpointEmpty(t *testing.T) {
	srv := newTestServer(t, config.NewDefaultConfig())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	srv.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"runs":{}}`, w.Body.String())
}

func TestPreviewWeatherWithoutAPIKey(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Weather.APIKey = ""
	srv := newTestServer(t, cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/preview/weather", nil)
	srv.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusPreconditionFailed, w.Code)
	assert.Contains(t, w.Body.String(), "MISSING_CREDENTIAL")
}
