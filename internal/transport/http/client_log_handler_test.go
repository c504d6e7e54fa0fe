package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deliverypulse/internal/shared/testutil"
)

func TestClientLogHandler_Handle(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantLevel  slog.Level
		wantMsg    string
	}{
		{
			name:       "info entry",
			body:       `{"level":"info","message":"view rendered","source":"dashboard","data":{"view":"company"}}`,
			wantStatus: http.StatusOK,
			wantLevel:  slog.LevelInfo,
			wantMsg:    "view rendered",
		},
		{
			name:       "error entry",
			body:       `{"level":"error","message":"chart failed"}`,
			wantStatus: http.StatusOK,
			wantLevel:  slog.LevelError,
			wantMsg:    "chart failed",
		},
		{
			name:       "unknown level logs at info",
			body:       `{"level":"trace","message":"socket reconnect"}`,
			wantStatus: http.StatusOK,
			wantLevel:  slog.LevelInfo,
			wantMsg:    "socket reconnect",
		},
		{
			name:       "invalid json",
			body:       `{"level":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing message",
			body:       `{"level":"warn"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "oversized entry",
			body:       `{"message":"` + strings.Repeat("x", maxClientLogBytes) + `"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewTestLogger(t)
			handler := NewClientLogHandler(logger)

			req := httptest.NewRequest(http.MethodPost, "/api/logs", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			handler.Handle(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, false, resp["success"])
				assert.Zero(t, logs.Count())
				return
			}

			assert.Equal(t, true, resp["success"])
			testutil.AssertLogContains(t, logs, tt.wantLevel, tt.wantMsg)
		})
	}
}

func TestClientLogHandler_Attributes(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	handler := NewClientLogHandler(logger)

	body := `{"level":"warn","message":"slow reply","source":"interaction"}`
	req := httptest.NewRequest(http.MethodPost, "/api/logs", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	handler.Handle(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	testutil.AssertLogAttr(t, logs, "client_source", "interaction")
	testutil.AssertLogAttr(t, logs, "handler", "client_log")
}
