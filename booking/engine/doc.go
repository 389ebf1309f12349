// Package engine provides the core seat-reservation logic for the concert
// booking service.
//
// The engine package implements the seat state machine:
//   - Venue generation (a rows x cols grid of seats, A1 upward)
//   - Timed holds: a seat selected by a user is held with an expiry deadline
//   - Booking: a held seat can be confirmed only by its holder
//   - Release: explicit by the holder, or automatic once the hold expires
//
// Core Types:
//
// Seat is the unit of state. Its Status moves through
// StatusAvailable -> StatusHeld -> StatusBooked, with StatusHeld falling
// back to StatusAvailable on release or expiry. StatusBooked is terminal.
// VenueConfig describes the grid; NewVenue materializes it.
//
// Usage:
//
//	seats := engine.NewVenue(engine.DefaultVenueConfig())
//	seat := &seats[0]
//	if err := seat.Hold("user1", time.Now(), 30*time.Second); err != nil {
//		log.Fatal(err)
//	}
//
// All transitions are pure in-memory operations on a single Seat; callers
// (the store layer) are responsible for locking and persistence.
package engine
