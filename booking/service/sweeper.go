package service

import (
	"context"
	"log"
	"time"

	"github.com/wricardo/concert-booking/booking/events"
	"github.com/wricardo/concert-booking/booking/store"
)

// DefaultSweepInterval is how often expired holds are checked.
const DefaultSweepInterval = 2 * time.Second

// Sweeper releases expired seat holds in the background and publishes
// auto_released events for each one.
type Sweeper struct {
	store    store.SeatStore
	bus      events.Bus
	interval time.Duration
	now      func() time.Time
}

// NewSweeper creates a sweeper over the given store and bus.
func NewSweeper(seats store.SeatStore, bus events.Bus, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{
		store:    seats,
		bus:      bus,
		interval: interval,
		now:      time.Now,
	}
}

// Run blocks, sweeping at the configured interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Printf("Hold sweeper started (interval %v)", s.interval)
	for {
		select {
		case <-ctx.Done():
			log.Println("Hold sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// Sweep runs a single expiry pass and returns how many holds were released.
func (s *Sweeper) Sweep(ctx context.Context) int {
	return s.sweep(ctx)
}

func (s *Sweeper) sweep(ctx context.Context) int {
	expired, err := s.store.ExpireHolds(ctx, s.now())
	if err != nil {
		log.Printf("[ERROR] Expiry sweep failed: %v", err)
		return 0
	}

	for _, hold := range expired {
		seat := hold.Seat
		event := events.SeatEvent{
			Type:      events.EventAutoReleased,
			SeatID:    seat.ID,
			UserID:    hold.HeldBy,
			Status:    seat.Status,
			Timestamp: s.now(),
			Seat:      &seat,
		}
		if err := s.bus.Publish(event); err != nil {
			log.Printf("[WARN] Seat %s was auto-released but event publish failed: %v", seat.ID, err)
			continue
		}
		log.Printf("Auto-released expired seat %s (was held by %s)", seat.ID, hold.HeldBy)
	}

	if len(expired) > 0 {
		log.Printf("Sweeper released %d expired holds", len(expired))
	}
	return len(expired)
}
