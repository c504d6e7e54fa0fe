package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deliverypulse/internal/services"
	"deliverypulse/internal/shared/testutil"
)

type stubDataset bool

func (s stubDataset) Loaded() bool { return bool(s) }

type stubClients int

func (s stubClients) ClientCount() int { return int(s) }

func newHealthRouter(t *testing.T, loaded bool) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	svc := services.NewHealthService("1.2.0", "2026-10-01T00:00:00Z", "abc123", stubDataset(loaded), stubClients(2), logger)
	h := NewHealthHandler(svc, logger)

	r := chi.NewRouter()
	r.Get("/api/health", h.HealthCheck)
	r.Get("/api/health/ready", h.ReadinessCheck)
	r.Get("/api/health/live", h.LivenessCheck)
	r.Get("/api/version", h.Version)
	return r
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		loaded     bool
		target     string
		wantStatus int
		wantState  string
	}{
		{name: "health", target: "/api/health", wantStatus: http.StatusOK, wantState: "ok"},
		{name: "ready", loaded: true, target: "/api/health/ready", wantStatus: http.StatusOK, wantState: "ready"},
		{name: "not ready", target: "/api/health/ready", wantStatus: http.StatusServiceUnavailable},
		{name: "live", target: "/api/health/live", wantStatus: http.StatusOK, wantState: "alive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(newHealthRouter(t, tt.loaded), tt.target)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var status services.HealthStatus
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
			if tt.wantState != "" {
				assert.Equal(t, tt.wantState, status.Status)
			} else {
				assert.NotEqual(t, "ready", status.Status)
			}
		})
	}
}

func TestHealthHandler_Version(t *testing.T) {
	rec := serve(newHealthRouter(t, true), "/api/version")

	require.Equal(t, http.StatusOK, rec.Code)
	var info services.VersionInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "1.2.0", info.Version)
	assert.Equal(t, "abc123", info.GitCommit)
	assert.NotEmpty(t, info.GoVersion)
}
