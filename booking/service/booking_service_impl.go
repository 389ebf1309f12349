package service

import (
	"context"
	"log"
	"time"

	"github.com/wricardo/concert-booking/booking/engine"
	"github.com/wricardo/concert-booking/booking/events"
	"github.com/wricardo/concert-booking/booking/store"
)

// bookingServiceImpl implements the BookingService interface.
type bookingServiceImpl struct {
	store   store.SeatStore
	bus     events.Bus
	holdFor time.Duration
	now     func() time.Time
}

// NewBookingService creates a booking service on top of a seat store and an
// event bus. holdFor is how long a selected seat stays held.
func NewBookingService(seats store.SeatStore, bus events.Bus, holdFor time.Duration) BookingService {
	if holdFor <= 0 {
		holdFor = engine.DefaultHoldTimeout
	}
	return &bookingServiceImpl{
		store:   seats,
		bus:     bus,
		holdFor: holdFor,
		now:     time.Now,
	}
}

// VenueState returns a snapshot of every seat.
func (s *bookingServiceImpl) VenueState(ctx context.Context) (*engine.VenueState, error) {
	seats, err := s.store.Seats(ctx)
	if err != nil {
		return nil, err
	}
	return &engine.VenueState{Seats: seats}, nil
}

// Seat returns a single seat by ID.
func (s *bookingServiceImpl) Seat(ctx context.Context, seatID string) (*engine.Seat, error) {
	if seatID == "" {
		return nil, engine.ErrMissingSeatID
	}
	return s.store.Seat(ctx, seatID)
}

// SelectSeat places a timed hold and publishes a "held" event.
func (s *bookingServiceImpl) SelectSeat(ctx context.Context, seatID, userID string) (*engine.Seat, error) {
	if seatID == "" {
		return nil, engine.ErrMissingSeatID
	}

	seat, err := s.store.Hold(ctx, seatID, userID, s.holdFor)
	if err != nil {
		return nil, err
	}

	s.publish(events.EventHeld, seat, userID)
	log.Printf("[SELECT] Seat %s held by user %s until %d", seat.ID, userID, seat.ExpiresAt)
	return seat, nil
}

// BookSeat confirms a held seat and publishes a "booked" event.
func (s *bookingServiceImpl) BookSeat(ctx context.Context, seatID, userID string) (*engine.Seat, error) {
	if seatID == "" {
		return nil, engine.ErrMissingSeatID
	}

	seat, err := s.store.Book(ctx, seatID, userID)
	if err != nil {
		return nil, err
	}

	s.publish(events.EventBooked, seat, userID)
	log.Printf("[BOOK] Seat %s booked by user %s", seat.ID, userID)
	return seat, nil
}

// ReleaseSeat returns a held seat and publishes a "released" event.
func (s *bookingServiceImpl) ReleaseSeat(ctx context.Context, seatID, userID string) (*engine.Seat, error) {
	if seatID == "" {
		return nil, engine.ErrMissingSeatID
	}

	seat, err := s.store.Release(ctx, seatID, userID)
	if err != nil {
		return nil, err
	}

	s.publish(events.EventReleased, seat, userID)
	log.Printf("[RELEASE] Seat %s released by user %s", seat.ID, userID)
	return seat, nil
}

// publish emits a seat event. A bus failure is logged, never surfaced; the
// state change already happened and must not be rolled back for telemetry.
func (s *bookingServiceImpl) publish(eventType string, seat *engine.Seat, userID string) {
	event := events.SeatEvent{
		Type:      eventType,
		SeatID:    seat.ID,
		UserID:    userID,
		Status:    seat.Status,
		Timestamp: s.now(),
		ExpiresAt: seat.ExpiresAt,
		Seat:      seat,
	}
	if err := s.bus.Publish(event); err != nil {
		log.Printf("[ERROR] Failed to publish %s event for seat %s: %v", eventType, seat.ID, err)
	}
}
