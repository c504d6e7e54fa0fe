package websocket

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"deliverypulse/internal/infrastructure"
	"deliverypulse/pkg/contracts/events"
)

const (
	// Time allowed to write a message to the peer
	defaultWriteWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	defaultPongWait = 60 * time.Second

	// Maximum message size allowed from peer
	defaultMaxMessageSize = 4096

	// Outbound replies queued per client
	sendBufferSize = 16
)

var (
	newline = []byte{'\n'}
	space   = []byte{' '}
)

// Limits bounds a client connection
type Limits struct {
	MaxMessageBytes int64
	PongWait        time.Duration
	WriteWait       time.Duration
}

// DefaultLimits returns the limits used when none are configured
func DefaultLimits() Limits {
	return Limits{
		MaxMessageBytes: defaultMaxMessageSize,
		PongWait:        defaultPongWait,
		WriteWait:       defaultWriteWait,
	}
}

// pingPeriod must be less than PongWait
func (l Limits) pingPeriod() time.Duration {
	return (l.PongWait * 9) / 10
}

func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.MaxMessageBytes <= 0 {
		l.MaxMessageBytes = d.MaxMessageBytes
	}
	if l.PongWait <= 0 {
		l.PongWait = d.PongWait
	}
	if l.WriteWait <= 0 {
		l.WriteWait = d.WriteWait
	}
	return l
}

// Client is a middleman between the websocket connection and the hub
type Client struct {
	hub *Hub

	// The websocket connection
	conn Connection

	// Buffered channel of outbound messages. It is never closed; done
	// signals the end of the connection instead.
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once

	// Client metadata
	id          string
	traceID     string
	remoteAddr  string
	connectedAt time.Time
	limits      Limits

	logger *slog.Logger

	messagesSent     atomic.Int64
	messagesReceived atomic.Int64
}

// NewClient creates a client for an upgraded connection
func NewClient(hub *Hub, conn Connection, traceID string, limits Limits, logger *slog.Logger) *Client {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	id := uuid.New().String()
	logger = logger.With(
		slog.String("component", "websocket.client"),
		slog.String("client_id", id),
	)

	return &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, sendBufferSize),
		done:        make(chan struct{}),
		id:          id,
		traceID:     traceID,
		remoteAddr:  conn.RemoteAddr(),
		connectedAt: time.Now(),
		limits:      limits.withDefaults(),
		logger:      logger,
	}
}

// ID returns the client's session id
func (c *Client) ID() string {
	return c.id
}

// Done is closed once the client has been unregistered
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) context(parent context.Context) context.Context {
	if c.traceID != "" {
		return infrastructure.WithTraceID(parent, c.traceID)
	}
	return parent
}

// enqueue queues a reply. A full buffer drops the reply rather than stalling
// the read loop.
func (c *Client) enqueue(ctx context.Context, message []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- message:
		return true
	default:
		c.logger.WarnContext(ctx, "Client send buffer full, reply dropped",
			slog.Int("message_size", len(message)))
		return false
	}
}

// shutdown stops the write pump. Safe to call more than once.
func (c *Client) shutdown() {
	c.closeOnce.Do(func() { close(c.done) })
}

// ReadPump reads requests until the connection fails and answers each one
// through the hub's responder, in arrival order
func (c *Client) ReadPump(ctx context.Context) {
	ctx = c.context(ctx)
	defer func() {
		c.logger.InfoContext(ctx, "WebSocket client disconnected (readPump)",
			slog.Duration("connection_duration", time.Since(c.connectedAt)),
			slog.Int64("messages_received", c.messagesReceived.Load()))
		c.hub.Unregister(ctx, c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.limits.MaxMessageBytes)
	c.conn.SetReadDeadline(time.Now().Add(c.limits.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.limits.PongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.ErrorContext(ctx, "Unexpected WebSocket close error",
					slog.String("error", err.Error()))
			}
			return
		}
		message = bytes.TrimSpace(bytes.ReplaceAll(message, newline, space))
		c.messagesReceived.Add(1)

		// Heartbeats only keep the connection alive
		var envelope events.ClientMessage
		if json.Unmarshal(message, &envelope) == nil && envelope.Type == events.MessageTypeHeartbeat {
			c.conn.SetReadDeadline(time.Now().Add(c.limits.PongWait))
			c.logger.DebugContext(ctx, "Heartbeat received")
			continue
		}

		if reply := c.hub.responder.Respond(ctx, c.id, message); reply != nil {
			c.enqueue(ctx, reply)
		}
	}
}

// WritePump writes queued replies and keeps the connection alive with pings
func (c *Client) WritePump() {
	ctx := c.context(context.Background())
	ticker := time.NewTicker(c.limits.pingPeriod())
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.logger.InfoContext(ctx, "WebSocket write pump stopped",
			slog.Int64("messages_sent", c.messagesSent.Load()))
	}()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(c.limits.WriteWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.limits.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.ErrorContext(ctx, "Error writing message to WebSocket",
					slog.String("error", err.Error()))
				return
			}
			c.messagesSent.Add(1)

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.limits.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.DebugContext(ctx, "Failed to send ping message",
					slog.String("error", err.Error()))
				return
			}
		}
	}
}
