package websocket

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wricardo/concert-booking/booking/events"
	"github.com/wricardo/concert-booking/booking/service"
	"github.com/wricardo/concert-booking/protocol"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		// TODO: Configure this for production
		return true
	},
}

// HubStats tracks broadcast statistics for the /stats endpoint.
type HubStats struct {
	TotalClients      int       `json:"total_clients"`
	TotalBroadcasts   int64     `json:"total_broadcasts"`
	StartedAt         time.Time `json:"started_at"`
	LastBroadcastTime time.Time `json:"last_broadcast_time,omitempty"`
}

// Hub maintains the set of active clients and broadcasts seat updates
// to all of them.
type Hub struct {
	svc service.BookingService

	// Registered clients
	clients map[*Client]bool

	// Frames to fan out to every client
	broadcast chan []byte

	// Register requests from new connections
	register chan *Client

	// Unregister requests from closing connections
	unregister chan *Client

	stats HubStats
	mu    sync.RWMutex
}

// NewHub creates a hub backed by the given booking service.
func NewHub(svc service.BookingService) *Hub {
	return &Hub{
		svc:        svc,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stats:      HubStats{StartedAt: time.Now()},
	}
}

// Run starts the hub's event loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case frame := <-h.broadcast:
			h.broadcastFrame(frame)
		}
	}
}

// ServeWS upgrades an HTTP request and registers the connection.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:         h,
		conn:        conn,
		send:        make(chan []byte, sendBufferSize),
		id:          uuid.NewString(),
		connectedAt: time.Now(),
	}

	h.register <- client

	go client.writePump()
	go client.readPump()
}

// HandleSeatEvent converts a bus event into a SEAT_UPDATE frame and queues
// it for broadcast. Wire it to the event bus with Bus.Subscribe.
func (h *Hub) HandleSeatEvent(event events.SeatEvent) {
	msg := protocol.NewServerMessage(protocol.TypeSeatUpdate, protocol.SeatUpdateData{
		EventType: event.Type,
		SeatID:    event.SeatID,
		UserID:    event.UserID,
		Status:    int(event.Status),
		Timestamp: event.Timestamp.Unix(),
		ExpiresAt: event.ExpiresAt,
		Seat:      event.Seat,
	})

	frame, err := msg.Encode()
	if err != nil {
		log.Printf("Failed to marshal seat update: %v", err)
		return
	}

	select {
	case h.broadcast <- frame:
	default:
		log.Printf("Warning: broadcast channel full, dropping %s update for seat %s",
			event.Type, event.SeatID)
	}
}

// Stats returns a copy of the current hub statistics.
func (h *Hub) Stats() HubStats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.stats
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	h.stats.TotalClients = len(h.clients)
	total := h.stats.TotalClients
	h.mu.Unlock()

	log.Printf("Client registered: %s (total clients: %d)", client.id, total)

	client.enqueue(protocol.NewServerMessage(protocol.TypeWelcome, protocol.WelcomeData{
		ClientID:     client.id,
		TotalClients: total,
		ServerTime:   time.Now().Unix(),
	}))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
	h.stats.TotalClients = len(h.clients)

	log.Printf("Client unregistered: %s (total clients: %d)", client.id, h.stats.TotalClients)
}

func (h *Hub) broadcastFrame(frame []byte) {
	h.mu.Lock()
	h.stats.TotalBroadcasts++
	h.stats.LastBroadcastTime = time.Now()
	h.mu.Unlock()

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.send <- frame:
		default:
			// Send buffer full, drop the client instead of stalling everyone.
			log.Printf("Client %s send buffer full, disconnecting", client.id)
			go func(c *Client) {
				h.unregister <- c
			}(client)
		}
	}
}
