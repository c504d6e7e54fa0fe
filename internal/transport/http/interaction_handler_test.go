package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"deliverypulse/internal/config"
	apierrors "deliverypulse/internal/errors"
	dpmiddleware "deliverypulse/internal/middleware"
	"deliverypulse/internal/shared/testutil"
	"deliverypulse/pkg/contracts/domain"
	"deliverypulse/pkg/contracts/events"
)

type replyFrame struct {
	Type      events.MessageType `json:"type"`
	RequestID string             `json:"request_id"`
	Data      json.RawMessage    `json:"data"`
}

func newInteractionHandler(t *testing.T, svc DashboardServiceInterface, origins []string) *InteractionHandler {
	t.Helper()
	return newInteractionHandlerWithTimeout(t, svc, origins, config.DefaultRequestTimeout)
}

func newInteractionHandlerWithTimeout(t *testing.T, svc DashboardServiceInterface, origins []string, timeout time.Duration) *InteractionHandler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	wsCfg := config.WebSocketConfig{
		ReadBufferSize:  config.WebSocketReadBufferSize,
		WriteBufferSize: config.WebSocketWriteBufferSize,
		MaxMessageBytes: config.WebSocketMaxMessageBytes,
		PongWait:        config.WebSocketPongWait,
	}
	h := NewInteractionHandler(svc, dpmiddleware.NewValidator(logger), wsCfg, timeout, origins, nil, logger,
		apierrors.NewErrorHandler(logger, false))
	t.Cleanup(h.Hub().Stop)
	return h
}

func decodeReply(t *testing.T, data []byte) (replyFrame, events.ErrorData) {
	t.Helper()
	var frame replyFrame
	require.NoError(t, json.Unmarshal(data, &frame))

	var errData events.ErrorData
	if frame.Type == events.MessageTypeError {
		require.NoError(t, json.Unmarshal(frame.Data, &errData))
	}
	return frame, errData
}

func TestInteractionHandler_Respond(t *testing.T) {
	tests := []struct {
		name          string
		message       string
		setupMock     func(*MockDashboardService)
		wantType      events.MessageType
		wantRequestID string
		wantCode      string
		wantRetry     bool
	}{
		{
			name:    "view result",
			message: `{"id":"r1","view":"company","max_date":"19-03-2022","traffic":["Jam"]}`,
			setupMock: func(m *MockDashboardService) {
				m.On("View", mock.Anything, domain.ViewCompany, mock.MatchedBy(func(o domain.FilterOptions) bool {
					return o.MaxDate.Equal(testutil.Date(2022, 3, 19)) && assert.ObjectsAreEqual([]string{"Jam"}, o.Traffic)
				})).Return(sampleCompanyView(), nil)
			},
			wantType:      events.MessageTypeViewResult,
			wantRequestID: "r1",
		},
		{
			name:    "empty traffic list",
			message: `{"id":"r6","view":"company","traffic":[]}`,
			setupMock: func(m *MockDashboardService) {
				m.On("View", mock.Anything, domain.ViewCompany, mock.MatchedBy(func(o domain.FilterOptions) bool {
					return o.Traffic != nil && len(o.Traffic) == 0
				})).Return(sampleCompanyView(), nil)
			},
			wantType:      events.MessageTypeViewResult,
			wantRequestID: "r6",
		},
		{
			name:     "malformed json",
			message:  `{"view":`,
			wantType: events.MessageTypeError,
			wantCode: "INVALID_REQUEST",
		},
		{
			name:          "unknown view",
			message:       `{"id":"r2","view":"drivers"}`,
			wantType:      events.MessageTypeError,
			wantRequestID: "r2",
			wantCode:      "VALIDATION_FAILED",
		},
		{
			name:          "unknown traffic",
			message:       `{"id":"r3","view":"agents","traffic":["Gridlock"]}`,
			wantType:      events.MessageTypeError,
			wantRequestID: "r3",
			wantCode:      "VALIDATION_FAILED",
		},
		{
			name:    "dataset not loaded",
			message: `{"id":"r4","view":"restaurants"}`,
			setupMock: func(m *MockDashboardService) {
				m.On("View", mock.Anything, domain.ViewRestaurants, mock.Anything).
					Return(nil, apierrors.NewUnavailableError("no dataset has been loaded"))
			},
			wantType:      events.MessageTypeError,
			wantRequestID: "r4",
			wantCode:      "DATASET_NOT_LOADED",
			wantRetry:     true,
		},
		{
			name:    "cancelled",
			message: `{"id":"r5","view":"agents"}`,
			setupMock: func(m *MockDashboardService) {
				m.On("View", mock.Anything, domain.ViewAgents, mock.Anything).Return(nil, context.Canceled)
			},
			wantType:      events.MessageTypeError,
			wantRequestID: "r5",
			wantCode:      "TIMEOUT",
			wantRetry:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockDashboardService)
			if tt.setupMock != nil {
				tt.setupMock(svc)
			}
			h := newInteractionHandler(t, svc, nil)

			frame, errData := decodeReply(t, h.Respond(context.Background(), "client-1", []byte(tt.message)))

			assert.Equal(t, tt.wantType, frame.Type)
			assert.Equal(t, tt.wantRequestID, frame.RequestID)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errData.Code)
				assert.Equal(t, tt.wantRetry, errData.Retry)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestInteractionHandler_RespondDeadline(t *testing.T) {
	const timeout = 50 * time.Millisecond

	svc := new(MockDashboardService)
	svc.On("View", mock.MatchedBy(func(ctx context.Context) bool {
		deadline, ok := ctx.Deadline()
		return ok && time.Until(deadline) <= timeout
	}), domain.ViewAgents, mock.Anything).Return(nil, context.DeadlineExceeded)

	h := newInteractionHandlerWithTimeout(t, svc, nil, timeout)

	// The caller's context never expires, like the connection context
	frame, errData := decodeReply(t, h.Respond(context.Background(), "client-1", []byte(`{"id":"slow","view":"agents"}`)))

	assert.Equal(t, events.MessageTypeError, frame.Type)
	assert.Equal(t, "slow", frame.RequestID)
	assert.Equal(t, "TIMEOUT", errData.Code)
	assert.True(t, errData.Retry)
	svc.AssertExpectations(t)
}

func TestInteractionHandler_ServeWS(t *testing.T) {
	svc := new(MockDashboardService)
	svc.On("View", mock.Anything, domain.ViewCompany, mock.Anything).Return(sampleCompanyView(), nil)

	h := newInteractionHandler(t, svc, nil)
	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	defer srv.Close()

	conn, _, err := gorillaws.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	_, greeting, err := conn.ReadMessage()
	require.NoError(t, err)
	var hello struct {
		Type events.MessageType `json:"type"`
		Data events.ConnectData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(greeting, &hello))
	assert.Equal(t, events.MessageTypeConnect, hello.Type)
	assert.Equal(t, domain.Views, hello.Data.Views)
	assert.NotEmpty(t, hello.Data.ClientID)

	require.NoError(t, conn.WriteMessage(gorillaws.TextMessage, []byte(`{"type":"heartbeat"}`)))
	require.NoError(t, conn.WriteMessage(gorillaws.TextMessage, []byte(`{"id":"e2e","view":"company"}`)))

	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	frame, _ := decodeReply(t, data)
	assert.Equal(t, events.MessageTypeViewResult, frame.Type)
	assert.Equal(t, "e2e", frame.RequestID)

	var view domain.CompanyView
	require.NoError(t, json.Unmarshal(frame.Data, &view))
	assert.Len(t, view.OrdersPerDay, 2)

	assert.Eventually(t, func() bool { return h.Hub().ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	svc.AssertNumberOfCalls(t, "View", 1)
}

func TestInteractionHandler_RejectedOrigin(t *testing.T) {
	h := newInteractionHandler(t, new(MockDashboardService), []string{"http://dashboard.local"})
	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	defer srv.Close()

	header := http.Header{"Origin": []string{"http://evil.local"}}
	_, resp, err := gorillaws.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), header)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Zero(t, h.Hub().ClientCount())
}

func TestOriginChecker(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{name: "no list", origin: "http://any.local", want: true},
		{name: "wildcard", allowed: []string{"http://a.local", "*"}, origin: "http://any.local", want: true},
		{name: "listed", allowed: []string{"http://a.local"}, origin: "http://a.local", want: true},
		{name: "unlisted", allowed: []string{"http://a.local"}, origin: "http://b.local", want: false},
		{name: "no origin header", allowed: []string{"http://a.local"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ws", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, originChecker(tt.allowed)(req))
		})
	}
}
