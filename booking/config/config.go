package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/wricardo/concert-booking/booking/engine"
)

// Config holds everything the server reads from the environment.
type Config struct {
	// RedisURL selects the Redis seat store when set (e.g. redis://localhost:6379).
	RedisURL string

	// NatsURL selects the NATS event bus when set (e.g. nats://localhost:4222).
	NatsURL string

	Venue engine.VenueConfig

	// HoldTimeout is how long a selected seat stays held.
	HoldTimeout time.Duration

	// SweepInterval is how often expired holds are released.
	SweepInterval time.Duration
}

// Load reads configuration from environment variables, applying defaults.
func Load() (*Config, error) {
	cfg := &Config{
		RedisURL: os.Getenv("REDIS_URL"),
		NatsURL:  os.Getenv("NATS_URL"),
		Venue:    engine.DefaultVenueConfig(),
	}

	var err error
	if cfg.Venue.Rows, err = envInt("VENUE_ROWS", engine.DefaultVenueRows); err != nil {
		return nil, err
	}
	if cfg.Venue.Cols, err = envInt("VENUE_COLS", engine.DefaultVenueCols); err != nil {
		return nil, err
	}
	if err := cfg.Venue.Validate(); err != nil {
		return nil, err
	}

	if cfg.HoldTimeout, err = envDuration("HOLD_TIMEOUT", engine.DefaultHoldTimeout); err != nil {
		return nil, err
	}
	if cfg.SweepInterval, err = envDuration("SWEEP_INTERVAL", 2*time.Second); err != nil {
		return nil, err
	}

	return cfg, nil
}

func envInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", key, raw)
	}
	return v, nil
}
