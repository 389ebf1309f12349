// Package store provides persistence for venue seat state.
//
// SeatStore is the contract the booking service operates against. Two
// implementations are provided:
//
//   - MemoryStore: a mutex-guarded in-process map. The default, and what the
//     test suite runs against.
//   - RedisStore: seats in a Redis hash plus per-seat SetNX hold locks with a
//     TTL, so concurrent selects of the same seat across processes resolve to
//     exactly one winner.
//
// Both implementations apply transitions through the engine package, so the
// state machine rules live in exactly one place.
package store
