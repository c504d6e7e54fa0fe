// Package events contains the message contracts of the dashboard's WebSocket
// interaction channel. A client sends one view request per interaction and
// receives exactly one reply to it; the server never pushes unsolicited data
// apart from the connect greeting.
package events

import (
	"time"

	"github.com/google/uuid"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// Server greeting sent once after the upgrade
	MessageTypeConnect MessageType = "connect"

	// Reply carrying a computed view
	MessageTypeViewResult MessageType = "view:result"

	// Reply to a request that could not be served
	MessageTypeError MessageType = "error"

	// Client keep-alive, never answered
	MessageTypeHeartbeat MessageType = "heartbeat"
)

// BaseMessage represents the base structure for all WebSocket messages
type BaseMessage struct {
	ID        string      `json:"id,omitempty"`       // Unique message ID
	Type      MessageType `json:"type"`               // Message type
	Timestamp time.Time   `json:"timestamp"`          // Message timestamp
	TraceID   string      `json:"trace_id,omitempty"` // Request trace ID
}

// WebSocketMessage represents a complete server message
type WebSocketMessage struct {
	BaseMessage
	// RequestID echoes the id of the client request being answered
	RequestID string      `json:"request_id,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

// ErrorData is the payload of an error reply
type ErrorData struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	// Retry is true when the same request may succeed later
	Retry bool `json:"retry"`
}

// ConnectData is the payload of the connect greeting
type ConnectData struct {
	ClientID string   `json:"client_id"`
	Views    []string `json:"views"`
	Version  string   `json:"version"`
}

// ClientMessage is the envelope every client frame is decoded into first.
// Frames without a type are view requests.
type ClientMessage struct {
	Type MessageType `json:"type,omitempty"`
}

// NewMessage creates a server message with a fresh id
func NewMessage(msgType MessageType, requestID, traceID string, data interface{}) *WebSocketMessage {
	return &WebSocketMessage{
		BaseMessage: BaseMessage{
			ID:        uuid.New().String(),
			Type:      msgType,
			Timestamp: time.Now().UTC(),
			TraceID:   traceID,
		},
		RequestID: requestID,
		Data:      data,
	}
}

// NewErrorMessage creates an error reply
func NewErrorMessage(requestID, traceID, code, message string, details interface{}, retry bool) *WebSocketMessage {
	return NewMessage(MessageTypeError, requestID, traceID, ErrorData{
		Code:    code,
		Message: message,
		Details: details,
		Retry:   retry,
	})
}
