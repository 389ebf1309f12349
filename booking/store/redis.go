package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wricardo/concert-booking/booking/engine"
)

// Redis key patterns
const (
	redisKeyVenueSeats = "venue:seats"
	redisKeySeatLock   = "seat:%s:lock" // formatted with seat ID
)

// RedisStore persists seats in a Redis hash and guards holds with per-seat
// SetNX locks. The lock TTL equals the hold duration, so a crashed holder's
// lock disappears on its own.
type RedisStore struct {
	client *redis.Client
	cfg    engine.VenueConfig
	now    func() time.Time
}

// NewRedisStore creates a Redis-backed seat store.
func NewRedisStore(client *redis.Client, cfg engine.VenueConfig) *RedisStore {
	return &RedisStore{client: client, cfg: cfg, now: time.Now}
}

func lockKey(seatID string) string {
	return fmt.Sprintf(redisKeySeatLock, seatID)
}

// InitVenue seeds the seat hash unless a venue already exists.
func (r *RedisStore) InitVenue(ctx context.Context) error {
	exists, err := r.client.Exists(ctx, redisKeyVenueSeats).Result()
	if err != nil {
		return fmt.Errorf("check venue: %w", err)
	}
	if exists > 0 {
		return nil
	}

	for _, seat := range engine.NewVenue(r.cfg) {
		raw, err := json.Marshal(seat)
		if err != nil {
			return fmt.Errorf("marshal seat %s: %w", seat.ID, err)
		}
		if err := r.client.HSet(ctx, redisKeyVenueSeats, seat.ID, raw).Err(); err != nil {
			return fmt.Errorf("seed seat %s: %w", seat.ID, err)
		}
	}

	log.Printf("Initialized %d seats (%s to %s)", r.cfg.TotalSeats(),
		engine.SeatID(0, 0), engine.SeatID(r.cfg.Rows-1, r.cfg.Cols-1))
	return nil
}

// Seats returns every seat ordered by row then column.
func (r *RedisStore) Seats(ctx context.Context) ([]engine.Seat, error) {
	seatMap, err := r.client.HGetAll(ctx, redisKeyVenueSeats).Result()
	if err != nil {
		return nil, fmt.Errorf("fetch seats: %w", err)
	}

	seats := make([]engine.Seat, 0, len(seatMap))
	for id, raw := range seatMap {
		var seat engine.Seat
		if err := json.Unmarshal([]byte(raw), &seat); err != nil {
			log.Printf("Skipping corrupt seat record %s: %v", id, err)
			continue
		}
		seats = append(seats, seat)
	}

	sort.Slice(seats, func(i, j int) bool {
		if seats[i].Row != seats[j].Row {
			return seats[i].Row < seats[j].Row
		}
		return seats[i].Col < seats[j].Col
	})
	return seats, nil
}

// Seat returns a single seat by ID.
func (r *RedisStore) Seat(ctx context.Context, seatID string) (*engine.Seat, error) {
	raw, err := r.client.HGet(ctx, redisKeyVenueSeats, seatID).Result()
	if err == redis.Nil {
		return nil, engine.ErrSeatNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch seat %s: %w", seatID, err)
	}

	var seat engine.Seat
	if err := json.Unmarshal([]byte(raw), &seat); err != nil {
		return nil, fmt.Errorf("decode seat %s: %w", seatID, err)
	}
	return &seat, nil
}

// Hold acquires the atomic per-seat lock, then records the hold on the seat.
func (r *RedisStore) Hold(ctx context.Context, seatID, userID string, holdFor time.Duration) (*engine.Seat, error) {
	if userID == "" {
		return nil, engine.ErrMissingUserID
	}

	key := lockKey(seatID)
	acquired, err := r.client.SetNX(ctx, key, userID, holdFor).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire hold lock: %w", err)
	}
	if !acquired {
		holder, _ := r.client.Get(ctx, key).Result()
		if holder == userID {
			return nil, engine.ErrSeatHeldBySelf
		}
		return nil, engine.ErrSeatHeld
	}

	seat, err := r.updateSeat(ctx, seatID, func(seat *engine.Seat) error {
		return seat.Hold(userID, r.now(), holdFor)
	})
	if err != nil {
		// Transition refused, give the lock back.
		r.client.Del(ctx, key)
		return nil, err
	}
	return seat, nil
}

// Book confirms a seat whose hold lock is owned by the user.
func (r *RedisStore) Book(ctx context.Context, seatID, userID string) (*engine.Seat, error) {
	if err := r.checkLockHolder(ctx, seatID, userID); err != nil {
		return nil, err
	}

	seat, err := r.updateSeat(ctx, seatID, func(seat *engine.Seat) error {
		return seat.Book(userID)
	})
	if err != nil {
		return nil, err
	}

	// Booked seats no longer need the hold lock.
	r.client.Del(ctx, lockKey(seatID))
	return seat, nil
}

// Release returns a seat whose hold lock is owned by the user.
func (r *RedisStore) Release(ctx context.Context, seatID, userID string) (*engine.Seat, error) {
	if err := r.checkLockHolder(ctx, seatID, userID); err != nil {
		return nil, err
	}

	seat, err := r.updateSeat(ctx, seatID, func(seat *engine.Seat) error {
		return seat.Release(userID)
	})
	if err != nil {
		return nil, err
	}

	r.client.Del(ctx, lockKey(seatID))
	return seat, nil
}

func (r *RedisStore) checkLockHolder(ctx context.Context, seatID, userID string) error {
	if userID == "" {
		return engine.ErrMissingUserID
	}

	holder, err := r.client.Get(ctx, lockKey(seatID)).Result()
	if err == redis.Nil {
		return engine.ErrSeatNotHeld
	}
	if err != nil {
		return fmt.Errorf("check hold lock: %w", err)
	}
	if holder != userID {
		return engine.ErrNotHolder
	}
	return nil
}

func (r *RedisStore) updateSeat(ctx context.Context, seatID string, fn func(*engine.Seat) error) (*engine.Seat, error) {
	seat, err := r.Seat(ctx, seatID)
	if err != nil {
		return nil, err
	}
	if err := fn(seat); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(seat)
	if err != nil {
		return nil, fmt.Errorf("marshal seat %s: %w", seatID, err)
	}
	if err := r.client.HSet(ctx, redisKeyVenueSeats, seatID, raw).Err(); err != nil {
		return nil, fmt.Errorf("store seat %s: %w", seatID, err)
	}
	return seat, nil
}

// ExpireHolds releases every seat whose hold deadline passed. The lock should
// have expired on its own; any straggler is deleted explicitly.
func (r *RedisStore) ExpireHolds(ctx context.Context, now time.Time) ([]ExpiredHold, error) {
	seats, err := r.Seats(ctx)
	if err != nil {
		return nil, err
	}

	var expired []ExpiredHold
	for i := range seats {
		seat := &seats[i]
		holder, released := seat.ExpireHold(now)
		if !released {
			continue
		}

		raw, err := json.Marshal(seat)
		if err != nil {
			log.Printf("Error marshaling expired seat %s: %v", seat.ID, err)
			continue
		}
		if err := r.client.HSet(ctx, redisKeyVenueSeats, seat.ID, raw).Err(); err != nil {
			log.Printf("Error storing expired seat %s: %v", seat.ID, err)
			continue
		}
		r.client.Del(ctx, lockKey(seat.ID))

		expired = append(expired, ExpiredHold{Seat: *seat, HeldBy: holder})
	}
	return expired, nil
}
