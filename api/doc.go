// Package api provides the REST surface of the concert booking service.
//
// Routes:
//
//	GET  /api/seats           full venue snapshot
//	GET  /api/seats/{id}      one seat
//	POST /api/seats/select    place a timed hold        {seat_id, user_id}
//	POST /api/seats/book      confirm a held seat       {seat_id, user_id}
//	POST /api/seats/release   give a held seat back     {seat_id, user_id}
//	GET  /ws                  WebSocket upgrade (see transport/websocket)
//	GET  /health              liveness probe
//	GET  /stats               hub broadcast statistics
//
// Conflict-style domain errors (seat held, not the holder, already booked)
// map to 409; unknown seats to 404; bad input to 400.
package api
