// Package events carries seat state changes from the booking service to
// whoever fans them out.
//
// Every successful transition publishes a SeatEvent on a Bus. The WebSocket
// hub subscribes and turns each event into a SEAT_UPDATE broadcast, which is
// how a seat selected on one connection becomes visible on all the others.
//
// Two Bus implementations:
//   - MemoryBus dispatches in process. Default, zero infrastructure.
//   - NATSBus publishes to seats.held / seats.released / seats.booked and
//     subscribes with the seats.> wildcard, so several edge processes can
//     share one seat feed.
package events
