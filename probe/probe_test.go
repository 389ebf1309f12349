package probe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"

	"github.com/wricardo/concert-booking/booking/engine"
	"github.com/wricardo/concert-booking/booking/events"
	"github.com/wricardo/concert-booking/booking/service"
	"github.com/wricardo/concert-booking/booking/store"
	"github.com/wricardo/concert-booking/protocol"
	"github.com/wricardo/concert-booking/transport/websocket"
)

// startBookingServer runs a real hub + service over an in-memory store.
func startBookingServer(t *testing.T) string {
	t.Helper()

	bus := events.NewMemoryBus()
	seats := store.NewMemoryStore(engine.DefaultVenueConfig())
	svc := service.NewBookingService(seats, bus, 30*time.Second)
	hub := websocket.NewHub(svc)
	if _, err := bus.Subscribe(hub.HandleSeatEvent); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	go hub.Run()

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(server.Close)

	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestProbeObservesFanOut(t *testing.T) {
	url := startBookingServer(t)

	p := New(Options{
		URL:          url,
		SeatID:       "G7",
		SetupTimeout: 2 * time.Second,
		RoundTimeout: 500 * time.Millisecond,
	})

	report, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if report.Collected() == 0 {
		t.Fatal("Expected collected messages after seat selection")
	}
	if len(report.SeatUpdates()) == 0 {
		t.Fatal("Expected SEAT_UPDATE messages")
	}
	if !report.FanOutObserved() {
		t.Errorf("Fan-out not observed; transcript: %+v", report.TypeCounts())
	}

	summary := report.Summary()
	if !strings.Contains(summary, "fan-out working") {
		t.Errorf("Summary missing fan-out note:\n%s", summary)
	}

	// The update for G7 must be attributed to the selecting user.
	for _, m := range report.SeatUpdates() {
		if m.Update.SeatID == "G7" && m.Update.UserID != "user1" {
			t.Errorf("Update for G7 attributed to %s, want user1", m.Update.UserID)
		}
	}
}

func TestProbeAgainstSilentServer(t *testing.T) {
	// A server that upgrades and then says nothing at all.
	upgrader := gws.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					conn.Close()
					return
				}
			}
		}()
	}))
	defer server.Close()

	p := New(Options{
		URL:          "ws" + strings.TrimPrefix(server.URL, "http"),
		SetupTimeout: 100 * time.Millisecond,
		RoundTimeout: 100 * time.Millisecond,
	})

	done := make(chan struct{})
	var report *Report
	var err error
	go func() {
		report, err = p.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Probe did not terminate against a silent server")
	}

	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.Collected() != 0 {
		t.Errorf("Expected 0 collected messages, got %d", report.Collected())
	}
	if report.FanOutObserved() {
		t.Error("Fan-out cannot be observed with zero messages")
	}
	if !strings.Contains(report.Summary(), "No SEAT_UPDATE messages") {
		t.Errorf("Summary missing no-updates branch:\n%s", report.Summary())
	}
}

func TestProbeSkipsMalformedFrames(t *testing.T) {
	// A server that greets each connection with garbage, then one valid update.
	upgrader := gws.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					conn.Close()
					return
				}
			}
		}()
		conn.WriteMessage(gws.TextMessage, []byte("{this is not json"))
		conn.WriteJSON(protocol.ServerMessage{
			Type: protocol.TypeSeatUpdate,
			Data: protocol.SeatUpdateData{EventType: "held", SeatID: "G7", UserID: "user1", Status: 1},
		})
	}))
	defer server.Close()

	p := New(Options{
		URL:          "ws" + strings.TrimPrefix(server.URL, "http"),
		SetupTimeout: 200 * time.Millisecond,
		RoundTimeout: 200 * time.Millisecond,
	})

	report, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if report.Malformed != 2 {
		t.Errorf("Expected 2 malformed frames (one per connection), got %d", report.Malformed)
	}
	if len(report.SeatUpdates()) != 2 {
		t.Errorf("Expected 2 SEAT_UPDATE frames, got %d", len(report.SeatUpdates()))
	}
}

func TestProbeDialFailure(t *testing.T) {
	p := New(Options{URL: "ws://127.0.0.1:1/ws"})

	if _, err := p.Run(context.Background()); err == nil {
		t.Error("Expected error for unreachable endpoint")
	}
}

func TestProbeHonorsCancellation(t *testing.T) {
	url := startBookingServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New(Options{URL: url})
	report, err := p.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if report == nil {
		t.Error("Expected a report even on cancellation")
	}
}

func TestReportFanOutDetection(t *testing.T) {
	r := NewReport("G7")

	r.Add(Message{Conn: 1, Type: protocol.TypeSeatUpdate,
		Update: &protocol.SeatUpdateData{SeatID: "G7", UserID: "user1"}})
	if r.FanOutObserved() {
		t.Error("Update on the issuing connection alone is not fan-out")
	}

	r.Add(Message{Conn: 2, Type: protocol.TypeSeatUpdate,
		Update: &protocol.SeatUpdateData{SeatID: "B2", UserID: "user9"}})
	if r.FanOutObserved() {
		t.Error("Update for a different seat is not fan-out")
	}

	r.Add(Message{Conn: 2, Type: protocol.TypeSeatUpdate,
		Update: &protocol.SeatUpdateData{SeatID: "G7", UserID: "user1"}})
	if !r.FanOutObserved() {
		t.Error("Expected fan-out after G7 update on connection 2")
	}
}
