package store

import (
	"context"
	"time"

	"github.com/wricardo/concert-booking/booking/engine"
)

// ExpiredHold reports a hold the sweeper released.
type ExpiredHold struct {
	Seat   engine.Seat
	HeldBy string // previous holder
}

// SeatStore defines seat persistence operations. Implementations must be safe
// for concurrent use; every mutating call returns the seat state after the
// transition.
type SeatStore interface {
	// InitVenue seeds the venue grid if no seats exist yet. Idempotent.
	InitVenue(ctx context.Context) error

	// Seats returns a snapshot of every seat, ordered by row then column.
	Seats(ctx context.Context) ([]engine.Seat, error)

	// Seat returns a single seat by ID.
	Seat(ctx context.Context, seatID string) (*engine.Seat, error)

	// Hold places a timed hold on a seat for a user.
	Hold(ctx context.Context, seatID, userID string, holdFor time.Duration) (*engine.Seat, error)

	// Book confirms a seat held by the user.
	Book(ctx context.Context, seatID, userID string) (*engine.Seat, error)

	// Release returns a held seat, holder only.
	Release(ctx context.Context, seatID, userID string) (*engine.Seat, error)

	// ExpireHolds releases every hold whose deadline passed and reports them.
	ExpireHolds(ctx context.Context, now time.Time) ([]ExpiredHold, error)
}
