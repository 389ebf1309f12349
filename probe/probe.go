package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wricardo/concert-booking/protocol"
)

// Defaults match the manual test script this probe grew out of.
const (
	DefaultSeatID        = "G7"
	DefaultRounds        = 3
	DefaultRoundTimeout  = 2 * time.Second
	DefaultSetupTimeout  = 2 * time.Second
	DefaultSetupMessages = 3 // WELCOME + SUBSCRIBE_ACK + VENUE_STATE
)

// Options configures a probe run. Zero values fall back to the defaults.
type Options struct {
	// URL of the WebSocket endpoint, e.g. ws://localhost:3000/ws.
	URL string

	// Users subscribed on connection 1 and 2 respectively.
	Users [2]string

	// SeatID selected on connection 1 after setup.
	SeatID string

	// SetupMessages is how many initial frames to await per connection.
	SetupMessages int

	// SetupTimeout bounds the whole setup phase. On expiry the probe
	// proceeds with whatever arrived.
	SetupTimeout time.Duration

	// Rounds is the maximum number of collection rounds.
	Rounds int

	// RoundTimeout bounds each collection round.
	RoundTimeout time.Duration

	// Logf receives progress lines. Nil disables progress output.
	Logf func(format string, args ...interface{})
}

func (o *Options) applyDefaults() {
	if o.Users[0] == "" {
		o.Users[0] = "user1"
	}
	if o.Users[1] == "" {
		o.Users[1] = "user2"
	}
	if o.SeatID == "" {
		o.SeatID = DefaultSeatID
	}
	if o.SetupMessages == 0 {
		o.SetupMessages = DefaultSetupMessages
	}
	if o.SetupTimeout == 0 {
		o.SetupTimeout = DefaultSetupTimeout
	}
	if o.Rounds == 0 {
		o.Rounds = DefaultRounds
	}
	if o.RoundTimeout == 0 {
		o.RoundTimeout = DefaultRoundTimeout
	}
}

// Probe runs the scripted two-connection interaction.
type Probe struct {
	opts Options
}

// New creates a probe with the given options.
func New(opts Options) *Probe {
	opts.applyDefaults()
	return &Probe{opts: opts}
}

func (p *Probe) logf(format string, args ...interface{}) {
	if p.opts.Logf != nil {
		p.opts.Logf(format, args...)
	}
}

// frame is one raw message read off a connection.
type frame struct {
	conn int // 1-based connection number
	data []byte
	err  error
}

// Run executes the probe. It always returns a Report covering whatever was
// collected, even when it also returns an error.
func (p *Probe) Run(ctx context.Context) (*Report, error) {
	report := NewReport(p.opts.SeatID)

	p.logf("Connecting two WebSocket clients to %s...", p.opts.URL)

	conns := make([]*websocket.Conn, 2)
	for i := range conns {
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, p.opts.URL, nil)
		if err != nil {
			if i == 1 {
				conns[0].Close()
			}
			return report, fmt.Errorf("connection %d failed: %w", i+1, err)
		}
		conns[i] = conn
	}
	defer conns[0].Close()
	defer conns[1].Close()

	// One long-lived reader per connection. A round that ignores a channel
	// simply leaves the next frame buffered for a later round.
	channels := make([]chan frame, 2)
	for i, conn := range conns {
		ch := make(chan frame, 32)
		channels[i] = ch
		go readLoop(i+1, conn, ch)
	}

	for i, conn := range conns {
		err := conn.WriteJSON(protocol.ClientMessage{
			Type: protocol.TypeSubscribe,
			Data: map[string]interface{}{"user_id": p.opts.Users[i]},
		})
		if err != nil {
			return report, fmt.Errorf("subscribe on connection %d failed: %w", i+1, err)
		}
	}

	p.awaitSetup(ctx, channels, report)
	p.logf("Both clients connected and subscribed")

	p.logf("Client 1 selecting seat %s...", p.opts.SeatID)
	err := conns[0].WriteJSON(protocol.ClientMessage{
		Type: protocol.TypeSelectSeat,
		Data: map[string]interface{}{
			"seat_id": p.opts.SeatID,
			"user_id": p.opts.Users[0],
		},
	})
	if err != nil {
		return report, fmt.Errorf("seat selection failed: %w", err)
	}

	p.logf("Waiting for real-time updates...")
	p.collect(ctx, channels, report)

	return report, ctx.Err()
}

// readLoop feeds frames from one connection into its channel until the
// connection dies.
func readLoop(connNum int, conn *websocket.Conn, ch chan<- frame) {
	defer close(ch)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			ch <- frame{conn: connNum, err: err}
			return
		}
		ch <- frame{conn: connNum, data: data}
	}
}

// awaitSetup consumes the initial frames (welcome, ack, venue snapshot) from
// both connections, bounded by the setup timeout. Shortfall is not an error;
// the probe proceeds with whatever arrived.
func (p *Probe) awaitSetup(ctx context.Context, channels []chan frame, report *Report) {
	deadline := time.NewTimer(p.opts.SetupTimeout)
	defer deadline.Stop()

	want := p.opts.SetupMessages * 2
	got := 0
	ch1, ch2 := channels[0], channels[1]

	for got < want {
		select {
		case f, ok := <-ch1:
			if !ok || f.err != nil {
				ch1 = nil
				continue
			}
			p.record(f, report, true)
			got++
		case f, ok := <-ch2:
			if !ok || f.err != nil {
				ch2 = nil
				continue
			}
			p.record(f, report, true)
			got++
		case <-deadline.C:
			p.logf("Setup timeout after %d/%d initial messages, proceeding", got, want)
			return
		case <-ctx.Done():
			return
		}
		if ch1 == nil && ch2 == nil {
			return
		}
	}
}

// collect runs the bounded race-read rounds. Each round takes the first
// frame to arrive plus anything already buffered; a round that produces
// nothing before its timeout ends collection.
func (p *Probe) collect(ctx context.Context, channels []chan frame, report *Report) {
	ch1, ch2 := channels[0], channels[1]

	for round := 0; round < p.opts.Rounds; round++ {
		timer := time.NewTimer(p.opts.RoundTimeout)

		collected := 0
	roundLoop:
		for {
			select {
			case f, ok := <-ch1:
				if !ok || f.err != nil {
					ch1 = nil
					if ch2 == nil {
						timer.Stop()
						return
					}
					continue
				}
				p.record(f, report, false)
				collected++
			case f, ok := <-ch2:
				if !ok || f.err != nil {
					ch2 = nil
					if ch1 == nil {
						timer.Stop()
						return
					}
					continue
				}
				p.record(f, report, false)
				collected++
			case <-timer.C:
				break roundLoop
			case <-ctx.Done():
				timer.Stop()
				return
			}

			// Got the round's first arrival; only drain what is already
			// buffered, then move to the next round.
			if p.drainBuffered(ch1, ch2, report, &collected) {
				timer.Stop()
				break roundLoop
			}
		}

		if collected == 0 {
			p.logf("No more messages (timeout)")
			return
		}
	}
}

// drainBuffered consumes frames that already arrived without waiting.
// It returns true once something was consumed, ending the round.
func (p *Probe) drainBuffered(ch1, ch2 chan frame, report *Report, collected *int) bool {
	for {
		select {
		case f, ok := <-ch1:
			if !ok || f.err != nil {
				ch1 = nil
				continue
			}
			p.record(f, report, false)
			*collected++
		case f, ok := <-ch2:
			if !ok || f.err != nil {
				ch2 = nil
				continue
			}
			p.record(f, report, false)
			*collected++
		default:
			return true
		}
		if ch1 == nil && ch2 == nil {
			return true
		}
	}
}

// record decodes one frame into the report. Malformed JSON is counted and
// skipped; unknown types are kept verbatim.
func (p *Probe) record(f frame, report *Report, setup bool) {
	var msg protocol.ServerMessage
	if err := json.Unmarshal(f.data, &msg); err != nil || msg.Type == "" {
		report.Malformed++
		p.logf("Skipping malformed frame on connection %d", f.conn)
		return
	}

	entry := Message{
		Conn:  f.conn,
		Type:  msg.Type,
		Raw:   json.RawMessage(f.data),
		Setup: setup,
	}

	if msg.Type == protocol.TypeSeatUpdate {
		var update protocol.SeatUpdateData
		if raw, err := json.Marshal(msg.Data); err == nil {
			json.Unmarshal(raw, &update)
		}
		entry.Update = &update
		p.logf("Message received: %s (conn %d)", msg.Type, f.conn)
		p.logf("   Event: %s  Seat: %s  User: %s  Status: %d",
			update.EventType, update.SeatID, update.UserID, update.Status)
	} else if !setup {
		p.logf("Message received: %s (conn %d)", msg.Type, f.conn)
	}

	report.Add(entry)
}
