package events

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"
)

// NATS topics
const (
	topicSeatHeld     = "seats.held"
	topicSeatReleased = "seats.released"
	topicSeatBooked   = "seats.booked"
	topicAllSeats     = "seats.>"
)

// NATSBus distributes seat events over a NATS connection so multiple edge
// processes can share one feed.
type NATSBus struct {
	conn *nats.Conn
}

// ConnectNATS dials the given NATS URL with infinite reconnects and returns
// a bus on the resulting connection.
func ConnectNATS(url string) (*NATSBus, error) {
	opts := []nats.Option{
		nats.Name("concert-booking"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Printf("[NATS] Disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("[NATS] Reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Printf("[NATS] Error: %v", err)
		}),
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS at %s: %w", url, err)
	}
	return &NATSBus{conn: conn}, nil
}

// NewNATSBus wraps an existing NATS connection.
func NewNATSBus(conn *nats.Conn) *NATSBus {
	return &NATSBus{conn: conn}
}

func topicFor(eventType string) (string, error) {
	switch eventType {
	case EventHeld:
		return topicSeatHeld, nil
	case EventBooked:
		return topicSeatBooked, nil
	case EventReleased, EventAutoReleased:
		return topicSeatReleased, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownEventType, eventType)
	}
}

// Publish sends the event to its per-type topic.
func (b *NATSBus) Publish(event SeatEvent) error {
	topic, err := topicFor(event.Type)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal seat event: %w", err)
	}
	if err := b.conn.Publish(topic, raw); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

// Subscribe listens on the seats.> wildcard and dispatches decoded events.
func (b *NATSBus) Subscribe(handler Handler) (func(), error) {
	sub, err := b.conn.Subscribe(topicAllSeats, func(msg *nats.Msg) {
		var event SeatEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			log.Printf("[NATS] Dropping undecodable event on %s: %v", msg.Subject, err)
			return
		}
		handler(event)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe to %s: %w", topicAllSeats, err)
	}

	return func() {
		if err := sub.Unsubscribe(); err != nil {
			log.Printf("[NATS] Unsubscribe error: %v", err)
		}
	}, nil
}

// Close drains the underlying connection.
func (b *NATSBus) Close() {
	b.conn.Close()
}
