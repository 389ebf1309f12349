// Package websocket provides the real-time transport for the concert
// booking service.
//
// The package implements:
//   - A hub-and-spoke fan-out: one Hub owns every connection and pushes
//     SEAT_UPDATE frames to all of them on every seat state change
//   - Per-connection read/write pumps with ping/pong keepalive
//   - Seat command handling (SUBSCRIBE, SELECT_SEAT, BOOK_SEAT, RELEASE_SEAT)
//     backed by the booking service
//
// Message Protocol:
//
// Frames are the JSON envelopes defined in the protocol package. A newly
// registered connection receives WELCOME; SUBSCRIBE earns SUBSCRIBE_ACK
// followed by a full VENUE_STATE snapshot; seat commands receive a direct
// *_RESPONSE on the issuing connection while the resulting SEAT_UPDATE is
// broadcast to everyone, originator included.
//
// Usage:
//
//	hub := websocket.NewHub(bookingService)
//	go hub.Run()
//	unsubscribe, _ := bus.Subscribe(hub.HandleSeatEvent)
//	defer unsubscribe()
//
//	http.HandleFunc("/ws", hub.ServeWS)
//
// Concurrency:
//
// The hub loop serializes register/unregister/broadcast. Each client has a
// dedicated read pump (commands) and write pump (outbound queue + pings); a
// client whose send buffer stays full is dropped rather than allowed to
// stall the broadcast path.
package websocket
