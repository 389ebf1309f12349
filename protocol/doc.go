// Package protocol defines the JSON wire protocol spoken over the /ws
// WebSocket endpoint.
//
// Every frame, in either direction, is an envelope of the form:
//
//	{"type": "<MESSAGE_TYPE>", "data": {...}}
//
// Client to server:
//   - SUBSCRIBE    {user_id}                 register interest in seat updates
//   - SELECT_SEAT  {seat_id, user_id}        place a timed hold on a seat
//   - BOOK_SEAT    {seat_id, user_id}        confirm a held seat
//   - RELEASE_SEAT {seat_id, user_id}        give a held seat back
//
// Server to client:
//   - WELCOME               sent once when the connection registers
//   - SUBSCRIBE_ACK         reply to SUBSCRIBE
//   - VENUE_STATE           full seat snapshot, sent after SUBSCRIBE_ACK
//   - SELECT_SEAT_RESPONSE  direct reply to the issuing connection
//   - BOOK_SEAT_RESPONSE    direct reply to the issuing connection
//   - RELEASE_SEAT_RESPONSE direct reply to the issuing connection
//   - SEAT_UPDATE           fanned out to every connection on a state change
//   - ERROR                 malformed or unrecognized inbound frame
//
// The envelope types here are shared by the server transport, the REST API,
// and the wsprobe client so the two sides cannot drift apart.
package protocol
