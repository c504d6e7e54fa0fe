package websocket

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var errMockClosed = errors.New("connection closed")

// MockMessage represents a message for mocking
type MockMessage struct {
	Type int
	Data []byte
}

// MockConnection is a channel backed Connection. Inbound frames are fed with
// Push; ReadMessage blocks until a frame arrives or the connection closes.
type MockConnection struct {
	mu sync.Mutex

	inbound chan []byte
	written chan MockMessage
	closed  chan struct{}
	once    sync.Once

	RemoteAddress string
	ReadLimit     int64
	PongHandler   func(string) error
}

// NewMockConnection creates a new mock connection
func NewMockConnection() *MockConnection {
	return &MockConnection{
		inbound:       make(chan []byte, 16),
		written:       make(chan MockMessage, 64),
		closed:        make(chan struct{}),
		RemoteAddress: "127.0.0.1:8080",
	}
}

// Push queues an inbound text frame
func (m *MockConnection) Push(data string) {
	m.inbound <- []byte(data)
}

// Next waits for the next written text frame
func (m *MockConnection) Next(timeout time.Duration) (MockMessage, bool) {
	deadline := time.After(timeout)
	for {
		select {
		case msg := <-m.written:
			if msg.Type != websocket.TextMessage {
				continue
			}
			return msg, true
		case <-deadline:
			return MockMessage{}, false
		}
	}
}

// IsClosed reports whether Close was called
func (m *MockConnection) IsClosed() bool {
	select {
	case <-m.closed:
		return true
	default:
		return false
	}
}

func (m *MockConnection) WriteMessage(messageType int, data []byte) error {
	if m.IsClosed() {
		return errMockClosed
	}
	m.written <- MockMessage{Type: messageType, Data: data}
	return nil
}

func (m *MockConnection) ReadMessage() (int, []byte, error) {
	select {
	case data := <-m.inbound:
		return websocket.TextMessage, data, nil
	case <-m.closed:
		return 0, nil, &websocket.CloseError{Code: websocket.CloseNormalClosure}
	}
}

func (m *MockConnection) Close() error {
	m.once.Do(func() { close(m.closed) })
	return nil
}

func (m *MockConnection) SetReadDeadline(time.Time) error  { return nil }
func (m *MockConnection) SetWriteDeadline(time.Time) error { return nil }

func (m *MockConnection) SetReadLimit(limit int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReadLimit = limit
}

// Limit returns the read limit set by the client
func (m *MockConnection) Limit() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ReadLimit
}

func (m *MockConnection) SetPongHandler(h func(string) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PongHandler = h
}

func (m *MockConnection) RemoteAddr() string {
	return m.RemoteAddress
}
