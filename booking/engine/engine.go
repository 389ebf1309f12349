package engine

import (
	"errors"
	"time"
)

var (
	ErrSeatNotFound    = errors.New("seat not found")
	ErrSeatBooked      = errors.New("seat is already booked")
	ErrSeatHeld        = errors.New("seat is already held by another user")
	ErrSeatHeldBySelf  = errors.New("you already hold this seat")
	ErrSeatNotHeld     = errors.New("seat is not held")
	ErrNotHolder       = errors.New("seat is not held by you")
	ErrInvalidVenue    = errors.New("invalid venue configuration")
	ErrMissingUserID   = errors.New("user_id is required")
	ErrMissingSeatID   = errors.New("seat_id is required")
)

// Hold places a timed hold on the seat for userID. An expired hold counts as
// available, so a stale hold can be taken over without waiting for the sweeper.
func (s *Seat) Hold(userID string, now time.Time, holdFor time.Duration) error {
	if userID == "" {
		return ErrMissingUserID
	}

	switch s.Status {
	case StatusBooked:
		return ErrSeatBooked
	case StatusHeld:
		if !s.HoldExpired(now) {
			if s.HeldBy == userID {
				return ErrSeatHeldBySelf
			}
			return ErrSeatHeld
		}
		// Stale hold, fall through and take it over.
	}

	s.Status = StatusHeld
	s.HeldBy = userID
	s.ExpiresAt = now.Add(holdFor).Unix()
	return nil
}

// Book confirms a seat currently held by userID. Booked seats never expire.
func (s *Seat) Book(userID string) error {
	if userID == "" {
		return ErrMissingUserID
	}
	if s.Status == StatusBooked {
		return ErrSeatBooked
	}
	if s.Status != StatusHeld {
		return ErrSeatNotHeld
	}
	if s.HeldBy != userID {
		return ErrNotHolder
	}

	s.Status = StatusBooked
	s.ExpiresAt = 0
	return nil
}

// Release gives a held seat back. Only the holder may release.
func (s *Seat) Release(userID string) error {
	if userID == "" {
		return ErrMissingUserID
	}
	if s.Status != StatusHeld {
		return ErrSeatNotHeld
	}
	if s.HeldBy != userID {
		return ErrNotHolder
	}

	s.reset()
	return nil
}

// HoldExpired reports whether the seat carries a hold whose deadline passed.
func (s *Seat) HoldExpired(now time.Time) bool {
	return s.Status == StatusHeld && s.ExpiresAt > 0 && s.ExpiresAt < now.Unix()
}

// ExpireHold releases the seat if its hold expired. It returns the previous
// holder and whether a release happened.
func (s *Seat) ExpireHold(now time.Time) (string, bool) {
	if !s.HoldExpired(now) {
		return "", false
	}
	holder := s.HeldBy
	s.reset()
	return holder, true
}

func (s *Seat) reset() {
	s.Status = StatusAvailable
	s.HeldBy = ""
	s.ExpiresAt = 0
}
