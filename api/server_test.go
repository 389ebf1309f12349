package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wricardo/concert-booking/booking/engine"
	"github.com/wricardo/concert-booking/booking/events"
	"github.com/wricardo/concert-booking/booking/service"
	"github.com/wricardo/concert-booking/booking/store"
	"github.com/wricardo/concert-booking/transport/websocket"
)

// MockBookingService implements service.BookingService for testing.
type MockBookingService struct {
	VenueStateFunc  func(ctx context.Context) (*engine.VenueState, error)
	SeatFunc        func(ctx context.Context, seatID string) (*engine.Seat, error)
	SelectSeatFunc  func(ctx context.Context, seatID, userID string) (*engine.Seat, error)
	BookSeatFunc    func(ctx context.Context, seatID, userID string) (*engine.Seat, error)
	ReleaseSeatFunc func(ctx context.Context, seatID, userID string) (*engine.Seat, error)
}

func (m *MockBookingService) VenueState(ctx context.Context) (*engine.VenueState, error) {
	if m.VenueStateFunc != nil {
		return m.VenueStateFunc(ctx)
	}
	return &engine.VenueState{Seats: engine.NewVenue(engine.DefaultVenueConfig())}, nil
}

func (m *MockBookingService) Seat(ctx context.Context, seatID string) (*engine.Seat, error) {
	if m.SeatFunc != nil {
		return m.SeatFunc(ctx, seatID)
	}
	return &engine.Seat{ID: seatID, Status: engine.StatusAvailable}, nil
}

func (m *MockBookingService) SelectSeat(ctx context.Context, seatID, userID string) (*engine.Seat, error) {
	if m.SelectSeatFunc != nil {
		return m.SelectSeatFunc(ctx, seatID, userID)
	}
	return &engine.Seat{ID: seatID, Status: engine.StatusHeld, HeldBy: userID}, nil
}

func (m *MockBookingService) BookSeat(ctx context.Context, seatID, userID string) (*engine.Seat, error) {
	if m.BookSeatFunc != nil {
		return m.BookSeatFunc(ctx, seatID, userID)
	}
	return &engine.Seat{ID: seatID, Status: engine.StatusBooked, HeldBy: userID}, nil
}

func (m *MockBookingService) ReleaseSeat(ctx context.Context, seatID, userID string) (*engine.Seat, error) {
	if m.ReleaseSeatFunc != nil {
		return m.ReleaseSeatFunc(ctx, seatID, userID)
	}
	return &engine.Seat{ID: seatID, Status: engine.StatusAvailable}, nil
}

func newTestServer(svc service.BookingService) *Server {
	if svc == nil {
		svc = &MockBookingService{}
	}
	return NewServer(svc, newRealHub())
}

// newRealHub builds a hub over an in-memory service for /stats and /ws.
func newRealHub() *websocket.Hub {
	bus := events.NewMemoryBus()
	seats := store.NewMemoryStore(engine.DefaultVenueConfig())
	svc := service.NewBookingService(seats, bus, 30*time.Second)
	return websocket.NewHub(svc)
}

func TestGetSeats(t *testing.T) {
	server := newTestServer(nil)

	req := httptest.NewRequest("GET", "/api/seats", nil)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var seats []engine.Seat
	if err := json.Unmarshal(w.Body.Bytes(), &seats); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if len(seats) != 100 {
		t.Errorf("Expected 100 seats, got %d", len(seats))
	}
}

func TestGetSeat(t *testing.T) {
	server := newTestServer(&MockBookingService{
		SeatFunc: func(ctx context.Context, seatID string) (*engine.Seat, error) {
			if seatID != "G7" {
				return nil, engine.ErrSeatNotFound
			}
			return &engine.Seat{ID: "G7", Row: 6, Col: 6}, nil
		},
	})

	req := httptest.NewRequest("GET", "/api/seats/G7", nil)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest("GET", "/api/seats/Z99", nil)
	w = httptest.NewRecorder()
	server.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown seat, got %d", w.Code)
	}
}

func postJSON(t *testing.T, server *Server, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal body: %v", err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

func TestSelectSeat(t *testing.T) {
	server := newTestServer(nil)

	w := postJSON(t, server, "/api/seats/select", map[string]string{
		"seat_id": "G7", "user_id": "user1",
	})
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSelectSeatConflict(t *testing.T) {
	server := newTestServer(&MockBookingService{
		SelectSeatFunc: func(ctx context.Context, seatID, userID string) (*engine.Seat, error) {
			return nil, engine.ErrSeatHeld
		},
	})

	w := postJSON(t, server, "/api/seats/select", map[string]string{
		"seat_id": "G7", "user_id": "user2",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409, got %d", w.Code)
	}
}

func TestSeatOpValidation(t *testing.T) {
	server := newTestServer(nil)

	w := postJSON(t, server, "/api/seats/book", map[string]string{"seat_id": "G7"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing user_id, got %d", w.Code)
	}

	req := httptest.NewRequest("POST", "/api/seats/release", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed body, got %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	server := newTestServer(nil)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %q", body["status"])
	}
}

func TestStats(t *testing.T) {
	server := newTestServer(nil)

	req := httptest.NewRequest("GET", "/stats", nil)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
}
