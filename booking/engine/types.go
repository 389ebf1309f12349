package engine

import (
	"fmt"
	"time"
)

// SeatStatus is the lifecycle state of a seat. The numeric values are part of
// the wire protocol and must not be reordered.
type SeatStatus int

const (
	StatusAvailable SeatStatus = 0
	StatusHeld      SeatStatus = 1
	StatusBooked    SeatStatus = 2
)

// Validation constants
const (
	MinVenueRows = 1
	MaxVenueRows = 26 // row letters A..Z
	MinVenueCols = 1
	MaxVenueCols = 99

	DefaultVenueRows   = 10
	DefaultVenueCols   = 10
	DefaultHoldTimeout = 30 * time.Second
)

// String returns the lowercase status name used in logs and event payloads.
func (s SeatStatus) String() string {
	switch s {
	case StatusAvailable:
		return "available"
	case StatusHeld:
		return "held"
	case StatusBooked:
		return "booked"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Seat represents a single seat in the venue.
type Seat struct {
	ID        string     `json:"id"`
	Row       int        `json:"row"`
	Col       int        `json:"col"`
	Status    SeatStatus `json:"status"`
	HeldBy    string     `json:"held_by,omitempty"`
	ExpiresAt int64      `json:"expires_at,omitempty"` // unix seconds, holds only
}

// VenueConfig describes the seat grid.
type VenueConfig struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// DefaultVenueConfig returns the standard 10x10 venue (seats A1..J10).
func DefaultVenueConfig() VenueConfig {
	return VenueConfig{Rows: DefaultVenueRows, Cols: DefaultVenueCols}
}

// TotalSeats returns the number of seats the config produces.
func (c VenueConfig) TotalSeats() int {
	return c.Rows * c.Cols
}

// Validate checks the config against grid limits.
func (c VenueConfig) Validate() error {
	if c.Rows < MinVenueRows || c.Rows > MaxVenueRows {
		return fmt.Errorf("%w: rows must be between %d and %d, got %d",
			ErrInvalidVenue, MinVenueRows, MaxVenueRows, c.Rows)
	}
	if c.Cols < MinVenueCols || c.Cols > MaxVenueCols {
		return fmt.Errorf("%w: cols must be between %d and %d, got %d",
			ErrInvalidVenue, MinVenueCols, MaxVenueCols, c.Cols)
	}
	return nil
}

// SeatID generates a seat ID from zero-based row and column (0,0 -> "A1").
func SeatID(row, col int) string {
	return fmt.Sprintf("%c%d", rune('A'+row), col+1)
}

// NewVenue materializes every seat of the configured grid, all available.
func NewVenue(cfg VenueConfig) []Seat {
	seats := make([]Seat, 0, cfg.TotalSeats())
	for row := 0; row < cfg.Rows; row++ {
		for col := 0; col < cfg.Cols; col++ {
			seats = append(seats, Seat{
				ID:     SeatID(row, col),
				Row:    row,
				Col:    col,
				Status: StatusAvailable,
			})
		}
	}
	return seats
}

// VenueState is the complete snapshot sent to subscribing clients.
type VenueState struct {
	Seats []Seat `json:"seats"`
}
