package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	gorillaws "github.com/gorilla/websocket"

	"deliverypulse/internal/config"
	apierrors "deliverypulse/internal/errors"
	"deliverypulse/internal/infrastructure"
	dpmiddleware "deliverypulse/internal/middleware"
	ws "deliverypulse/internal/websocket"
	api "deliverypulse/pkg/contracts/api/v1"
	"deliverypulse/pkg/contracts/events"
)

// InteractionHandler serves the /ws interaction channel. Every client message
// is a view request answered by exactly one reply.
type InteractionHandler struct {
	service      DashboardServiceInterface
	validator    *dpmiddleware.Validator
	hub          *ws.Hub
	upgrader     gorillaws.Upgrader
	limits       ws.Limits
	timeout      time.Duration
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewInteractionHandler creates the interaction handler and its hub. Each
// interaction must complete within requestTimeout; zero disables the deadline.
// metrics may be nil.
func NewInteractionHandler(
	service DashboardServiceInterface,
	validator *dpmiddleware.Validator,
	wsCfg config.WebSocketConfig,
	requestTimeout time.Duration,
	allowedOrigins []string,
	metrics *infrastructure.DashboardMetrics,
	logger *slog.Logger,
	errorHandler *apierrors.ErrorHandler,
) *InteractionHandler {
	h := &InteractionHandler{
		service:      service,
		validator:    validator,
		limits:       ws.Limits{MaxMessageBytes: wsCfg.MaxMessageBytes, PongWait: wsCfg.PongWait},
		timeout:      requestTimeout,
		logger:       logger.With(slog.String("component", "interaction_handler")),
		errorHandler: errorHandler,
	}

	h.upgrader = gorillaws.Upgrader{
		ReadBufferSize:  wsCfg.ReadBufferSize,
		WriteBufferSize: wsCfg.WriteBufferSize,
		CheckOrigin:     originChecker(allowedOrigins),
		Error: func(w http.ResponseWriter, r *http.Request, status int, reason error) {
			h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
				status, "WEBSOCKET_UPGRADE_FAILED", "WebSocket upgrade failed", reason.Error()))
		},
	}
	h.hub = ws.NewHub(h, metrics, logger)

	return h
}

// Hub returns the client registry, used for readiness reporting and shutdown
func (h *InteractionHandler) Hub() *ws.Hub {
	return h.hub
}

// ServeWS handles GET /ws. It blocks for the lifetime of the connection.
func (h *InteractionHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already answered through its Error func
		h.logger.WarnContext(r.Context(), "websocket upgrade failed",
			slog.String("error", err.Error()))
		return
	}

	traceID := dpmiddleware.GetRequestID(r.Context())
	client := ws.NewClient(h.hub, ws.NewConnectionWrapper(conn), traceID, h.limits, h.logger)

	// The connection outlives the upgrade request
	ctx := context.WithoutCancel(r.Context())
	if err := h.hub.Register(ctx, client); err != nil {
		conn.WriteControl(gorillaws.CloseMessage,
			gorillaws.FormatCloseMessage(gorillaws.CloseTryAgainLater, err.Error()),
			time.Now().Add(time.Second))
		conn.Close()
		return
	}

	go client.WritePump()
	client.ReadPump(ctx)
}

// Respond runs one filter and aggregate cycle for a client request. The
// connection context has no deadline, so each request gets its own.
func (h *InteractionHandler) Respond(ctx context.Context, clientID string, message []byte) []byte {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	traceID := infrastructure.GetTraceID(ctx)

	var req api.InteractionRequest
	if err := json.Unmarshal(message, &req); err != nil {
		return h.reply(ctx, events.NewErrorMessage("", traceID, "INVALID_REQUEST", "Invalid request format", err.Error(), false))
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return h.reply(ctx, errorReply(req.ID, traceID, err))
	}

	opts, err := req.FilterOptions()
	if err != nil {
		return h.reply(ctx, events.NewErrorMessage(req.ID, traceID, "VALIDATION_FAILED", err.Error(), nil, false))
	}

	start := time.Now()
	view, err := h.service.View(ctx, req.View, opts)
	if err != nil {
		h.logger.WarnContext(ctx, "interaction failed",
			slog.String("client_id", clientID),
			slog.String("view", req.View),
			slog.String("error", err.Error()))
		return h.reply(ctx, errorReply(req.ID, traceID, err))
	}

	h.logger.DebugContext(ctx, "interaction served",
		slog.String("client_id", clientID),
		slog.String("view", req.View),
		slog.Duration("duration", time.Since(start)))

	return h.reply(ctx, events.NewMessage(events.MessageTypeViewResult, req.ID, traceID, view))
}

func (h *InteractionHandler) reply(ctx context.Context, msg *events.WebSocketMessage) []byte {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to encode reply", slog.String("error", err.Error()))
		data, _ = json.Marshal(events.NewErrorMessage(msg.RequestID, msg.TraceID, "INTERNAL_SERVER_ERROR", "Reply could not be encoded", nil, false))
	}
	return data
}

// errorReply maps service and validation errors onto error replies
func errorReply(requestID, traceID string, err error) *events.WebSocketMessage {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		return events.NewErrorMessage(requestID, traceID, apiErr.ErrorCode, apiErr.Message, apiErr.Details, false)
	}

	var appErr *apierrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case apierrors.ErrTypeUnavailable:
			return events.NewErrorMessage(requestID, traceID, apierrors.ErrDatasetNotLoaded.ErrorCode, appErr.Message, nil, true)
		case apierrors.ErrTypeNotFound:
			return events.NewErrorMessage(requestID, traceID, apierrors.ErrViewNotFound.ErrorCode, appErr.Message, nil, false)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return events.NewErrorMessage(requestID, traceID, "TIMEOUT", "The request timed out", nil, true)
	}
	if errors.Is(err, context.Canceled) {
		return events.NewErrorMessage(requestID, traceID, "TIMEOUT", "The request was cancelled", nil, true)
	}

	return events.NewErrorMessage(requestID, traceID, apierrors.ErrInternalServer.ErrorCode, "An unexpected error occurred", nil, true)
}

// originChecker accepts any origin when none or "*" is configured, otherwise
// only the listed ones. Requests without an Origin header are not from a browser.
func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = true
	}
	if len(set) == 0 {
		return func(*http.Request) bool { return true }
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set[origin]
	}
}
