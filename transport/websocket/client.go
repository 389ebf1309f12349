package websocket

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wricardo/concert-booking/booking/engine"
	"github.com/wricardo/concert-booking/protocol"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096

	// Outbound queue length per client.
	sendBufferSize = 256

	// Deadline for booking-service calls made on behalf of a frame.
	commandTimeout = 5 * time.Second
)

// Client is the middleman between one WebSocket connection and the hub.
type Client struct {
	hub  *Hub
	conn *websocket.Conn

	// Buffered channel of outbound frames
	send chan []byte

	id          string
	userID      string // set on SUBSCRIBE
	connectedAt time.Time
}

// readPump pumps frames from the connection to the command handlers.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
		log.Printf("Client %s (user: %s) disconnected after %v",
			c.id, c.userID, time.Since(c.connectedAt).Round(time.Millisecond))
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error for client %s: %v", c.id, err)
			}
			break
		}

		msg, err := protocol.ParseClientMessage(raw)
		if err != nil {
			log.Printf("Error parsing message from client %s: %v", c.id, err)
			c.sendError("Invalid message format")
			continue
		}

		c.handleMessage(msg)
	}
}

// writePump pumps frames from the hub to the connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(msg *protocol.ClientMessage) {
	log.Printf("Client %s sent message type: %s", c.id, msg.Type)

	switch msg.Type {
	case protocol.TypeSubscribe:
		c.handleSubscribe(msg)
	case protocol.TypeSelectSeat:
		c.handleSeatCommand(msg, protocol.TypeSelectSeatResponse, c.hub.svc.SelectSeat, "selected")
	case protocol.TypeBookSeat:
		c.handleSeatCommand(msg, protocol.TypeBookSeatResponse, c.hub.svc.BookSeat, "booked")
	case protocol.TypeReleaseSeat:
		c.handleSeatCommand(msg, protocol.TypeReleaseSeatResponse, c.hub.svc.ReleaseSeat, "released")
	default:
		c.sendError("Unknown message type: " + msg.Type)
	}
}

func (c *Client) handleSubscribe(msg *protocol.ClientMessage) {
	if userID, ok := msg.StringField("user_id"); ok {
		c.userID = userID
		log.Printf("[SUBSCRIBE] Client %s subscribed as user %s", c.id, c.userID)
	} else {
		log.Printf("[SUBSCRIBE] Client %s subscribed without user ID", c.id)
	}

	c.enqueue(protocol.NewServerMessage(protocol.TypeSubscribeAck, protocol.OperationResponse{
		Success: true,
		Message: "Subscribed successfully",
		Data: map[string]string{
			"client_id": c.id,
			"user_id":   c.userID,
		},
	}))

	c.sendVenueState()
}

// seatOp is a booking-service seat operation (select, book or release).
type seatOp func(ctx context.Context, seatID, userID string) (*engine.Seat, error)

func (c *Client) handleSeatCommand(msg *protocol.ClientMessage, responseType string, op seatOp, verb string) {

	seatID, ok := msg.StringField("seat_id")
	if !ok {
		c.sendResponse(responseType, false, "seat_id is required", nil)
		return
	}

	// Fall back to the subscribed user when the frame carries none.
	userID := c.userID
	if uid, ok := msg.StringField("user_id"); ok {
		userID = uid
	}
	if userID == "" {
		c.sendResponse(responseType, false, "user_id is required", nil)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if _, err := op(ctx, seatID, userID); err != nil {
		c.sendResponse(responseType, false, err.Error(), nil)
		return
	}

	c.sendResponse(responseType, true,
		fmt.Sprintf("Seat %s %s successfully", seatID, verb),
		map[string]string{"seat_id": seatID, "user_id": userID})
}

func (c *Client) sendVenueState() {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	state, err := c.hub.svc.VenueState(ctx)
	if err != nil {
		log.Printf("[ERROR] Failed to get venue state for client %s: %v", c.id, err)
		c.sendError("Failed to load venue state")
		return
	}

	c.enqueue(protocol.NewServerMessage(protocol.TypeVenueState, state))
	log.Printf("[VENUE] Sent venue state to client %s (%d seats)", c.id, len(state.Seats))
}

func (c *Client) sendResponse(msgType string, success bool, message string, data interface{}) {
	c.enqueue(protocol.NewServerMessage(msgType, protocol.OperationResponse{
		Success: success,
		Message: message,
		Data:    data,
	}))
}

func (c *Client) sendError(errorMsg string) {
	c.enqueue(protocol.NewServerMessage(protocol.TypeError, protocol.ErrorData{Error: errorMsg}))
}

// enqueue marshals a frame onto the client's send buffer, dropping it when
// the buffer is full.
func (c *Client) enqueue(msg *protocol.ServerMessage) {
	frame, err := msg.Encode()
	if err != nil {
		log.Printf("Error marshaling %s message: %v", msg.Type, err)
		return
	}

	select {
	case c.send <- frame:
	default:
		log.Printf("Failed to send %s to client %s: buffer full", msg.Type, c.id)
	}
}
