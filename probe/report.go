package probe

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/wricardo/concert-booking/protocol"
)

// Message is one decoded frame in the probe transcript.
type Message struct {
	Conn  int             // connection that received it (1 or 2)
	Type  string          // envelope type
	Raw   json.RawMessage // frame as received
	Setup bool            // arrived during the setup phase
	// Update is set for SEAT_UPDATE frames.
	Update *protocol.SeatUpdateData
}

// Report is what a probe run observed.
type Report struct {
	// SeatID is the seat the probe selected.
	SeatID string

	// Messages is the full transcript, setup frames included.
	Messages []Message

	// Malformed counts frames that were not valid envelopes.
	Malformed int
}

// NewReport creates an empty report for the given seat.
func NewReport(seatID string) *Report {
	return &Report{SeatID: seatID}
}

// Add appends one message to the transcript.
func (r *Report) Add(msg Message) {
	r.Messages = append(r.Messages, msg)
}

// Collected counts messages received after the setup phase.
func (r *Report) Collected() int {
	n := 0
	for _, m := range r.Messages {
		if !m.Setup {
			n++
		}
	}
	return n
}

// SeatUpdates returns every SEAT_UPDATE in the transcript.
func (r *Report) SeatUpdates() []Message {
	var updates []Message
	for _, m := range r.Messages {
		if m.Type == protocol.TypeSeatUpdate {
			updates = append(updates, m)
		}
	}
	return updates
}

// FanOutObserved reports whether a SEAT_UPDATE for the selected seat was
// delivered to a connection other than connection 1, which issued the
// command. That is the whole point of the exercise.
func (r *Report) FanOutObserved() bool {
	for _, m := range r.SeatUpdates() {
		if m.Conn != 1 && m.Update != nil && m.Update.SeatID == r.SeatID {
			return true
		}
	}
	return false
}

// TypeCounts returns per-envelope-type message counts.
func (r *Report) TypeCounts() map[string]int {
	counts := make(map[string]int)
	for _, m := range r.Messages {
		counts[m.Type]++
	}
	return counts
}

// Summary renders the human-readable end-of-run summary.
func (r *Report) Summary() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Total messages received: %d\n", r.Collected())

	types := r.TypeCounts()
	names := make([]string, 0, len(types))
	for name := range types {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "  %-24s %d\n", name, types[name])
	}

	if r.Malformed > 0 {
		fmt.Fprintf(&b, "Malformed frames skipped: %d\n", r.Malformed)
	}

	updates := r.SeatUpdates()
	switch {
	case len(updates) == 0:
		b.WriteString("No SEAT_UPDATE messages received\n")
	case r.FanOutObserved():
		fmt.Fprintf(&b, "Real-time fan-out working! (%d SEAT_UPDATE messages, seat %s seen on the other connection)\n",
			len(updates), r.SeatID)
	default:
		fmt.Fprintf(&b, "%d SEAT_UPDATE messages, but none for seat %s reached the other connection\n",
			len(updates), r.SeatID)
	}

	return b.String()
}
