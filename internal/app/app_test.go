package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deliverypulse/internal/config"
	"deliverypulse/internal/shared/testutil"
	"deliverypulse/pkg/contracts/events"
)

// testConfig returns a config bound to a free loopback port and a sample extract
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Server.ShutdownTimeout = 5 * time.Second
	cfg.Dataset.Path = testutil.WriteExtract(t, testutil.SampleExtractRows()...)
	cfg.Security.RateLimit.Enabled = false
	return cfg
}

func newTestApplication(t *testing.T, cfg *config.Config) *Application {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	app, err := NewApplication(cfg, logger)
	require.NoError(t, err)
	return app
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNewApplication(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		app, err := NewApplication(nil, nil)
		assert.Error(t, err)
		assert.Nil(t, app)
	})

	t.Run("wired", func(t *testing.T) {
		app := newTestApplication(t, testConfig(t))

		assert.NotNil(t, app.Router)
		assert.NotNil(t, app.Server)
		assert.NotNil(t, app.Metrics)
		require.NotNil(t, app.Services)
		assert.NotNil(t, app.Services.Dashboard)
		assert.NotNil(t, app.Services.Health)
		assert.False(t, app.Services.Dashboard.Loaded())
		assert.Equal(t, "127.0.0.1:0", app.Server.Addr)
	})
}

func TestApplication_Routes(t *testing.T) {
	app := newTestApplication(t, testConfig(t))
	require.NoError(t, app.LoadDataset(context.Background(), app.Config.Dataset.Path))

	tests := []struct {
		name        string
		target      string
		wantStatus  int
		wantContent string
	}{
		{name: "health", target: "/api/health", wantStatus: http.StatusOK, wantContent: `"status":"ok"`},
		{name: "ready", target: "/api/health/ready", wantStatus: http.StatusOK, wantContent: `"status":"ready"`},
		{name: "live", target: "/api/health/live", wantStatus: http.StatusOK},
		{name: "version", target: "/api/version", wantStatus: http.StatusOK},
		{name: "summary", target: "/api/dataset/summary", wantStatus: http.StatusOK, wantContent: `"kept":6`},
		{name: "filters", target: "/api/filters", wantStatus: http.StatusOK},
		{name: "company view", target: "/api/views/company?traffic=Jam", wantStatus: http.StatusOK, wantContent: `"rows":2`},
		{name: "csv export", target: "/api/export/agents.csv?aggregate=age", wantStatus: http.StatusOK, wantContent: "max,min\n38,22\n"},
		{name: "unknown view", target: "/api/views/drivers", wantStatus: http.StatusNotFound},
		{name: "unknown route", target: "/api/nothing/here", wantStatus: http.StatusNotFound},
		{name: "outside api", target: "/index.html", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, app.Router, tt.target)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantContent != "" {
				assert.Contains(t, rec.Body.String(), tt.wantContent)
			}
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		})
	}
}

func TestApplication_Readiness(t *testing.T) {
	app := newTestApplication(t, testConfig(t))

	rec := get(t, app.Router, "/api/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = get(t, app.Router, "/api/views/company")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	require.NoError(t, app.LoadDataset(context.Background(), app.Config.Dataset.Path))

	rec = get(t, app.Router, "/api/health/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestApplication_Metrics(t *testing.T) {
	app := newTestApplication(t, testConfig(t))
	require.NoError(t, app.LoadDataset(context.Background(), app.Config.Dataset.Path))

	require.Equal(t, http.StatusOK, get(t, app.Router, "/api/views/company").Code)

	rec := get(t, app.Router, config.MetricsEndpoint)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "aggregates_computed_total")
	assert.Contains(t, body, `aggregate="orders_per_day"`)
	assert.Contains(t, body, "http_requests_total")
}

func TestApplication_SecurityHeaders(t *testing.T) {
	cfg := testConfig(t)
	cfg.Security.AllowedOrigins = []string{"http://dashboard.local"}
	app := newTestApplication(t, cfg)

	req := httptest.NewRequest(http.MethodOptions, "/api/filters", nil)
	req.Header.Set("Origin", "http://dashboard.local")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://dashboard.local", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestApplication_StartStop(t *testing.T) {
	app := newTestApplication(t, testConfig(t))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, app.Start(ctx, cancel))
	assert.True(t, app.Services.Dashboard.Loaded())

	baseURL := "http://" + app.Addr()

	resp, err := http.Get(baseURL + config.HealthEndpoint)
	require.NoError(t, err)
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	wsURL := "ws" + strings.TrimPrefix(baseURL, "http") + config.WebSocketEndpoint
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	_, greeting, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(greeting), string(events.MessageTypeConnect))

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"id":"q1","view":"restaurants","traffic":["Jam"]}`)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var reply struct {
		Type      events.MessageType `json:"type"`
		RequestID string             `json:"request_id"`
		Data      struct {
			Rows int `json:"rows"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &reply))
	assert.Equal(t, events.MessageTypeViewResult, reply.Type)
	assert.Equal(t, "q1", reply.RequestID)
	assert.Equal(t, 2, reply.Data.Rows)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	require.NoError(t, app.Stop(shutdownCtx))

	// The hub closes the connection on shutdown
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)

	_, err = http.Get(baseURL + config.HealthEndpoint)
	assert.Error(t, err)
}

func TestApplication_StartMissingDataset(t *testing.T) {
	cfg := testConfig(t)
	cfg.Dataset.Path = cfg.Dataset.Path + ".missing"
	app := newTestApplication(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := app.Start(ctx, cancel)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load dataset")
	assert.Equal(t, "127.0.0.1:0", app.Addr())
}
