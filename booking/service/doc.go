// Package service wires the seat store and the event bus into the booking
// operations exposed to transports.
//
// BookingService defines the contract; NewBookingService returns the
// implementation. Every successful mutation publishes a SeatEvent so
// subscribed transports (the WebSocket hub) can fan the change out to
// every connected client.
//
// The Sweeper is the companion background job: it periodically releases
// expired holds and publishes auto_released events for them, so a seat a
// user walked away from returns to the pool without any client action.
package service
