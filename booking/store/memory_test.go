package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wricardo/concert-booking/booking/engine"
)

func newTestStore() (*MemoryStore, *time.Time) {
	now := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)
	s := NewMemoryStore(engine.DefaultVenueConfig())
	s.now = func() time.Time { return now }
	return s, &now
}

func TestMemoryStoreSeats(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	seats, err := s.Seats(ctx)
	if err != nil {
		t.Fatalf("Seats failed: %v", err)
	}
	if len(seats) != 100 {
		t.Fatalf("Expected 100 seats, got %d", len(seats))
	}
	if seats[0].ID != "A1" || seats[99].ID != "J10" {
		t.Errorf("Snapshot not ordered: first=%s last=%s", seats[0].ID, seats[99].ID)
	}
}

func TestMemoryStoreHoldContention(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	seat, err := s.Hold(ctx, "G7", "user1", 30*time.Second)
	if err != nil {
		t.Fatalf("Hold failed: %v", err)
	}
	if seat.Status != engine.StatusHeld || seat.HeldBy != "user1" {
		t.Errorf("Unexpected seat state: %+v", seat)
	}

	if _, err := s.Hold(ctx, "G7", "user2", 30*time.Second); !errors.Is(err, engine.ErrSeatHeld) {
		t.Errorf("Expected ErrSeatHeld, got %v", err)
	}

	// Snapshot must reflect the hold.
	got, err := s.Seat(ctx, "G7")
	if err != nil {
		t.Fatalf("Seat failed: %v", err)
	}
	if got.HeldBy != "user1" {
		t.Errorf("Expected holder user1, got %s", got.HeldBy)
	}
}

func TestMemoryStoreBookAndRelease(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	if _, err := s.Hold(ctx, "A1", "user1", 30*time.Second); err != nil {
		t.Fatalf("Hold failed: %v", err)
	}
	if _, err := s.Book(ctx, "A1", "user2"); !errors.Is(err, engine.ErrNotHolder) {
		t.Errorf("Expected ErrNotHolder, got %v", err)
	}

	seat, err := s.Book(ctx, "A1", "user1")
	if err != nil {
		t.Fatalf("Book failed: %v", err)
	}
	if seat.Status != engine.StatusBooked {
		t.Errorf("Expected booked, got %v", seat.Status)
	}

	if _, err := s.Hold(ctx, "B2", "user1", 30*time.Second); err != nil {
		t.Fatalf("Hold failed: %v", err)
	}
	seat, err = s.Release(ctx, "B2", "user1")
	if err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if seat.Status != engine.StatusAvailable {
		t.Errorf("Expected available after release, got %v", seat.Status)
	}
}

func TestMemoryStoreUnknownSeat(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	if _, err := s.Seat(ctx, "Z99"); !errors.Is(err, engine.ErrSeatNotFound) {
		t.Errorf("Seat: expected ErrSeatNotFound, got %v", err)
	}
	if _, err := s.Hold(ctx, "Z99", "user1", time.Second); !errors.Is(err, engine.ErrSeatNotFound) {
		t.Errorf("Hold: expected ErrSeatNotFound, got %v", err)
	}
}

func TestMemoryStoreExpireHolds(t *testing.T) {
	s, now := newTestStore()
	ctx := context.Background()

	if _, err := s.Hold(ctx, "G7", "user1", 30*time.Second); err != nil {
		t.Fatalf("Hold failed: %v", err)
	}
	if _, err := s.Hold(ctx, "H8", "user2", 90*time.Second); err != nil {
		t.Fatalf("Hold failed: %v", err)
	}

	expired, err := s.ExpireHolds(ctx, now.Add(31*time.Second))
	if err != nil {
		t.Fatalf("ExpireHolds failed: %v", err)
	}
	if len(expired) != 1 {
		t.Fatalf("Expected 1 expired hold, got %d", len(expired))
	}
	if expired[0].Seat.ID != "G7" || expired[0].HeldBy != "user1" {
		t.Errorf("Unexpected expiry record: %+v", expired[0])
	}

	seat, _ := s.Seat(ctx, "G7")
	if seat.Status != engine.StatusAvailable {
		t.Errorf("Expected G7 available after expiry, got %v", seat.Status)
	}
	seat, _ = s.Seat(ctx, "H8")
	if seat.Status != engine.StatusHeld {
		t.Errorf("Expected H8 still held, got %v", seat.Status)
	}
}

func TestMemoryStoreInitVenueIdempotent(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	if _, err := s.Hold(ctx, "G7", "user1", 30*time.Second); err != nil {
		t.Fatalf("Hold failed: %v", err)
	}
	if err := s.InitVenue(ctx); err != nil {
		t.Fatalf("InitVenue failed: %v", err)
	}

	seat, err := s.Seat(ctx, "G7")
	if err != nil {
		t.Fatalf("Seat failed: %v", err)
	}
	if seat.Status != engine.StatusHeld {
		t.Error("InitVenue must not wipe existing state")
	}
}
