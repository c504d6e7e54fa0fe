package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"deliverypulse/internal/infrastructure"
	"deliverypulse/pkg/contracts"
	"deliverypulse/pkg/contracts/domain"
	"deliverypulse/pkg/contracts/events"
)

// ErrHubStopped is returned when registering with a stopped hub
var ErrHubStopped = errors.New("websocket hub stopped")

// Hub tracks connected interaction clients. It does not broadcast: every
// message a client receives answers a request it sent, apart from the
// connect greeting.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	stopped bool

	responder Responder
	metrics   *infrastructure.DashboardMetrics
	logger    *slog.Logger

	totalConnections int64
}

// NewHub creates a hub answering client requests with responder. metrics may be nil.
func NewHub(responder Responder, metrics *infrastructure.DashboardMetrics, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	return &Hub{
		clients:   make(map[*Client]struct{}),
		responder: responder,
		metrics:   metrics,
		logger:    logger.With(slog.String("component", "websocket.hub")),
	}
}

// Register adds a client and queues its connect greeting
func (h *Hub) Register(ctx context.Context, client *Client) error {
	ctx = client.context(ctx)

	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return ErrHubStopped
	}
	h.clients[client] = struct{}{}
	h.totalConnections++
	count := len(h.clients)
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.InteractionClients.Add(ctx, 1)
	}

	h.logger.InfoContext(ctx, "Client registered",
		slog.Int("total_clients", count),
		slog.String("client_id", client.id),
		slog.String("remote_addr", client.remoteAddr))

	greeting := events.NewMessage(events.MessageTypeConnect, "", client.traceID, events.ConnectData{
		ClientID: client.id,
		Views:    domain.Views,
		Version:  contracts.Version,
	})
	if data, err := json.Marshal(greeting); err == nil {
		client.enqueue(ctx, data)
	}

	return nil
}

// Unregister removes a client and stops its write pump. Unknown clients are ignored.
func (h *Hub) Unregister(ctx context.Context, client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client]
	delete(h.clients, client)
	count := len(h.clients)
	h.mu.Unlock()

	client.shutdown()
	if !ok {
		return
	}

	if h.metrics != nil {
		h.metrics.InteractionClients.Add(ctx, -1)
	}

	h.logger.InfoContext(ctx, "Client unregistered",
		slog.Int("total_clients", count),
		slog.String("client_id", client.id),
		slog.Duration("connection_duration", time.Since(client.connectedAt)))
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// TotalConnections returns the number of clients registered since start
func (h *Hub) TotalConnections() int64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.totalConnections
}

// Stop closes every client connection and rejects new registrations
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.stopped = true
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	h.logger.Info("Hub shutting down", slog.Int("clients", len(clients)))

	// Closing the connection unblocks each read pump, which unregisters its client
	for _, c := range clients {
		c.shutdown()
		c.conn.Close()
	}
}
