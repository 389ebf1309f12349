package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Message types for WebSocket communication.
const (
	TypeSubscribe   = "SUBSCRIBE"
	TypeSelectSeat  = "SELECT_SEAT"
	TypeBookSeat    = "BOOK_SEAT"
	TypeReleaseSeat = "RELEASE_SEAT"

	TypeWelcome             = "WELCOME"
	TypeSubscribeAck        = "SUBSCRIBE_ACK"
	TypeVenueState          = "VENUE_STATE"
	TypeSelectSeatResponse  = "SELECT_SEAT_RESPONSE"
	TypeBookSeatResponse    = "BOOK_SEAT_RESPONSE"
	TypeReleaseSeatResponse = "RELEASE_SEAT_RESPONSE"
	TypeSeatUpdate          = "SEAT_UPDATE"
	TypeError               = "ERROR"
)

var ErrEmptyType = errors.New("message type is empty")

// ClientMessage is a frame from a client to the server. Data is kept loose
// so unknown fields survive a round trip and handlers can pick what they need.
type ClientMessage struct {
	Type string                 `json:"type"`
	Data map[string]interface{} `json:"data"`
}

// ServerMessage is a frame from the server to a client.
type ServerMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// ParseClientMessage decodes a raw frame into a ClientMessage.
func ParseClientMessage(raw []byte) (*ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("invalid message: %w", err)
	}
	if msg.Type == "" {
		return nil, ErrEmptyType
	}
	return &msg, nil
}

// StringField extracts a string value from loose message data.
// The second return value is false when the field is absent, empty, or not a string.
func (m *ClientMessage) StringField(key string) (string, bool) {
	v, ok := m.Data[key].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Encode marshals a ServerMessage for the wire.
func (m *ServerMessage) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// NewServerMessage builds an envelope around the given payload.
func NewServerMessage(msgType string, data interface{}) *ServerMessage {
	return &ServerMessage{Type: msgType, Data: data}
}

// SeatRequest carries a seat operation over the wire or the REST API.
type SeatRequest struct {
	SeatID string `json:"seat_id"`
	UserID string `json:"user_id"`
}

// OperationResponse is the direct reply to a seat command.
type OperationResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// WelcomeData is the payload of the WELCOME frame sent on registration.
type WelcomeData struct {
	ClientID     string `json:"client_id"`
	TotalClients int    `json:"total_clients"`
	ServerTime   int64  `json:"server_time"`
}

// SeatUpdateData is the payload of a SEAT_UPDATE broadcast. EventType is one
// of "held", "booked", "released", "auto_released".
type SeatUpdateData struct {
	EventType string      `json:"event_type"`
	SeatID    string      `json:"seat_id"`
	UserID    string      `json:"user_id"`
	Status    int         `json:"status"`
	Timestamp int64       `json:"timestamp,omitempty"`
	ExpiresAt int64       `json:"expires_at,omitempty"`
	Seat      interface{} `json:"seat,omitempty"`
}

// ErrorData is the payload of an ERROR frame.
type ErrorData struct {
	Error string `json:"error"`
}
