package engine

import (
	"errors"
	"testing"
	"time"
)

var testNow = time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)

func availableSeat() Seat {
	return Seat{ID: "G7", Row: 6, Col: 6, Status: StatusAvailable}
}

func TestHold(t *testing.T) {
	seat := availableSeat()

	if err := seat.Hold("user1", testNow, 30*time.Second); err != nil {
		t.Fatalf("Hold failed: %v", err)
	}

	if seat.Status != StatusHeld {
		t.Errorf("Expected status %v, got %v", StatusHeld, seat.Status)
	}
	if seat.HeldBy != "user1" {
		t.Errorf("Expected holder user1, got %s", seat.HeldBy)
	}
	if want := testNow.Add(30 * time.Second).Unix(); seat.ExpiresAt != want {
		t.Errorf("Expected expiry %d, got %d", want, seat.ExpiresAt)
	}
}

func TestHoldConflicts(t *testing.T) {
	seat := availableSeat()
	if err := seat.Hold("user1", testNow, 30*time.Second); err != nil {
		t.Fatalf("Hold failed: %v", err)
	}

	if err := seat.Hold("user2", testNow, 30*time.Second); !errors.Is(err, ErrSeatHeld) {
		t.Errorf("Expected ErrSeatHeld, got %v", err)
	}
	if err := seat.Hold("user1", testNow, 30*time.Second); !errors.Is(err, ErrSeatHeldBySelf) {
		t.Errorf("Expected ErrSeatHeldBySelf, got %v", err)
	}

	if err := seat.Book("user1"); err != nil {
		t.Fatalf("Book failed: %v", err)
	}
	if err := seat.Hold("user2", testNow, 30*time.Second); !errors.Is(err, ErrSeatBooked) {
		t.Errorf("Expected ErrSeatBooked, got %v", err)
	}
}

func TestHoldTakesOverExpiredHold(t *testing.T) {
	seat := availableSeat()
	if err := seat.Hold("user1", testNow, 30*time.Second); err != nil {
		t.Fatalf("Hold failed: %v", err)
	}

	later := testNow.Add(31 * time.Second)
	if err := seat.Hold("user2", later, 30*time.Second); err != nil {
		t.Fatalf("Expected takeover of expired hold, got %v", err)
	}
	if seat.HeldBy != "user2" {
		t.Errorf("Expected holder user2, got %s", seat.HeldBy)
	}
}

func TestBook(t *testing.T) {
	seat := availableSeat()

	if err := seat.Book("user1"); !errors.Is(err, ErrSeatNotHeld) {
		t.Errorf("Expected ErrSeatNotHeld for available seat, got %v", err)
	}

	if err := seat.Hold("user1", testNow, 30*time.Second); err != nil {
		t.Fatalf("Hold failed: %v", err)
	}
	if err := seat.Book("user2"); !errors.Is(err, ErrNotHolder) {
		t.Errorf("Expected ErrNotHolder, got %v", err)
	}

	if err := seat.Book("user1"); err != nil {
		t.Fatalf("Book failed: %v", err)
	}
	if seat.Status != StatusBooked {
		t.Errorf("Expected status %v, got %v", StatusBooked, seat.Status)
	}
	if seat.ExpiresAt != 0 {
		t.Errorf("Expected expiry cleared, got %d", seat.ExpiresAt)
	}

	if err := seat.Book("user1"); !errors.Is(err, ErrSeatBooked) {
		t.Errorf("Expected ErrSeatBooked on double book, got %v", err)
	}
}

func TestRelease(t *testing.T) {
	seat := availableSeat()

	if err := seat.Release("user1"); !errors.Is(err, ErrSeatNotHeld) {
		t.Errorf("Expected ErrSeatNotHeld, got %v", err)
	}

	if err := seat.Hold("user1", testNow, 30*time.Second); err != nil {
		t.Fatalf("Hold failed: %v", err)
	}
	if err := seat.Release("user2"); !errors.Is(err, ErrNotHolder) {
		t.Errorf("Expected ErrNotHolder, got %v", err)
	}

	if err := seat.Release("user1"); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if seat.Status != StatusAvailable || seat.HeldBy != "" || seat.ExpiresAt != 0 {
		t.Errorf("Seat not reset after release: %+v", seat)
	}
}

func TestExpireHold(t *testing.T) {
	seat := availableSeat()
	if err := seat.Hold("user1", testNow, 30*time.Second); err != nil {
		t.Fatalf("Hold failed: %v", err)
	}

	if _, released := seat.ExpireHold(testNow.Add(10 * time.Second)); released {
		t.Error("Hold should not expire before its deadline")
	}

	holder, released := seat.ExpireHold(testNow.Add(31 * time.Second))
	if !released {
		t.Fatal("Expected hold to expire")
	}
	if holder != "user1" {
		t.Errorf("Expected previous holder user1, got %s", holder)
	}
	if seat.Status != StatusAvailable {
		t.Errorf("Expected seat available after expiry, got %v", seat.Status)
	}
}

func TestMissingUserID(t *testing.T) {
	seat := availableSeat()

	if err := seat.Hold("", testNow, 30*time.Second); !errors.Is(err, ErrMissingUserID) {
		t.Errorf("Hold: expected ErrMissingUserID, got %v", err)
	}
	if err := seat.Book(""); !errors.Is(err, ErrMissingUserID) {
		t.Errorf("Book: expected ErrMissingUserID, got %v", err)
	}
	if err := seat.Release(""); !errors.Is(err, ErrMissingUserID) {
		t.Errorf("Release: expected ErrMissingUserID, got %v", err)
	}
}
