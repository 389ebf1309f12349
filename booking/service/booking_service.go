package service

import (
	"context"

	"github.com/wricardo/concert-booking/booking/engine"
)

// BookingService defines all seat-reservation operations.
type BookingService interface {
	// VenueState returns a snapshot of every seat.
	VenueState(ctx context.Context) (*engine.VenueState, error)

	// Seat returns a single seat by ID.
	Seat(ctx context.Context, seatID string) (*engine.Seat, error)

	// SelectSeat places a timed hold on a seat for a user.
	SelectSeat(ctx context.Context, seatID, userID string) (*engine.Seat, error)

	// BookSeat confirms a seat currently held by the user.
	BookSeat(ctx context.Context, seatID, userID string) (*engine.Seat, error)

	// ReleaseSeat gives a held seat back to the pool.
	ReleaseSeat(ctx context.Context, seatID, userID string) (*engine.Seat, error)
}
