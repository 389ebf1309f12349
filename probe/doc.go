// Package probe drives a scripted two-connection check against a running
// booking server and reports what it observed.
//
// The probe opens two independent WebSocket connections, subscribes each as
// its own user, then issues a SELECT_SEAT on the first connection. It
// race-reads both connections for a bounded number of rounds, consuming
// whatever arrives first each round, and finishes with a Report: total
// frames, per-type counts, the SEAT_UPDATE transcript, and whether the
// update for the selected seat reached the connection that did NOT issue
// the command (the fan-out check).
//
// The probe is deliberately an observer, not a judge: timeouts are part of
// normal operation (a quiet round simply ends collection), connections are
// always closed on the way out, and the only hard failures are dialing and
// writing. Reads are performed by one long-lived goroutine per connection
// feeding a channel; each collection round is a select over both channels
// and a round timer, so an unfinished read is never abandoned mid-frame.
// It just stays pending for the next round or dies with the connection.
//
// Frames that are not valid JSON envelopes are counted, logged, and
// skipped; unknown envelope types are kept in the transcript untouched.
package probe
