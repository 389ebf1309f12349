package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/wricardo/concert-booking/booking/engine"
)

// MemoryStore keeps the venue in process memory. It is the default store and
// the one integration tests run against.
type MemoryStore struct {
	cfg   engine.VenueConfig
	seats map[string]*engine.Seat
	now   func() time.Time
	mu    sync.RWMutex
}

// NewMemoryStore creates a memory store pre-seeded with the configured venue.
func NewMemoryStore(cfg engine.VenueConfig) *MemoryStore {
	m := &MemoryStore{
		cfg:   cfg,
		seats: make(map[string]*engine.Seat, cfg.TotalSeats()),
		now:   time.Now,
	}
	m.seed()
	return m
}

func (m *MemoryStore) seed() {
	for _, seat := range engine.NewVenue(m.cfg) {
		s := seat
		m.seats[s.ID] = &s
	}
}

// InitVenue re-seeds only if the store is somehow empty.
func (m *MemoryStore) InitVenue(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.seats) == 0 {
		m.seed()
	}
	return nil
}

// Seats returns every seat ordered by row then column.
func (m *MemoryStore) Seats(ctx context.Context) ([]engine.Seat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seats := make([]engine.Seat, 0, len(m.seats))
	for _, seat := range m.seats {
		seats = append(seats, *seat)
	}
	sort.Slice(seats, func(i, j int) bool {
		if seats[i].Row != seats[j].Row {
			return seats[i].Row < seats[j].Row
		}
		return seats[i].Col < seats[j].Col
	})
	return seats, nil
}

// Seat returns a copy of a single seat.
func (m *MemoryStore) Seat(ctx context.Context, seatID string) (*engine.Seat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seat, ok := m.seats[seatID]
	if !ok {
		return nil, engine.ErrSeatNotFound
	}
	copied := *seat
	return &copied, nil
}

// Hold places a timed hold on a seat.
func (m *MemoryStore) Hold(ctx context.Context, seatID, userID string, holdFor time.Duration) (*engine.Seat, error) {
	return m.mutate(seatID, func(seat *engine.Seat) error {
		return seat.Hold(userID, m.now(), holdFor)
	})
}

// Book confirms a held seat.
func (m *MemoryStore) Book(ctx context.Context, seatID, userID string) (*engine.Seat, error) {
	return m.mutate(seatID, func(seat *engine.Seat) error {
		return seat.Book(userID)
	})
}

// Release returns a held seat.
func (m *MemoryStore) Release(ctx context.Context, seatID, userID string) (*engine.Seat, error) {
	return m.mutate(seatID, func(seat *engine.Seat) error {
		return seat.Release(userID)
	})
}

func (m *MemoryStore) mutate(seatID string, fn func(*engine.Seat) error) (*engine.Seat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seat, ok := m.seats[seatID]
	if !ok {
		return nil, engine.ErrSeatNotFound
	}
	if err := fn(seat); err != nil {
		return nil, err
	}
	copied := *seat
	return &copied, nil
}

// ExpireHolds releases every expired hold and reports the previous holders.
func (m *MemoryStore) ExpireHolds(ctx context.Context, now time.Time) ([]ExpiredHold, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var expired []ExpiredHold
	for _, seat := range m.seats {
		if holder, released := seat.ExpireHold(now); released {
			expired = append(expired, ExpiredHold{Seat: *seat, HeldBy: holder})
		}
	}
	return expired, nil
}
