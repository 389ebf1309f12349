package config

import (
	"testing"
	"time"

	"github.com/wricardo/concert-booking/booking/engine"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Venue.Rows != engine.DefaultVenueRows || cfg.Venue.Cols != engine.DefaultVenueCols {
		t.Errorf("Unexpected venue defaults: %+v", cfg.Venue)
	}
	if cfg.HoldTimeout != engine.DefaultHoldTimeout {
		t.Errorf("Expected default hold timeout, got %v", cfg.HoldTimeout)
	}
	if cfg.SweepInterval != 2*time.Second {
		t.Errorf("Expected default sweep interval 2s, got %v", cfg.SweepInterval)
	}
	if cfg.RedisURL != "" || cfg.NatsURL != "" {
		t.Error("Expected empty store/bus URLs by default")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("VENUE_ROWS", "5")
	t.Setenv("VENUE_COLS", "8")
	t.Setenv("HOLD_TIMEOUT", "45s")
	t.Setenv("SWEEP_INTERVAL", "500ms")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("NATS_URL", "nats://localhost:4222")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Venue.Rows != 5 || cfg.Venue.Cols != 8 {
		t.Errorf("Unexpected venue: %+v", cfg.Venue)
	}
	if cfg.HoldTimeout != 45*time.Second {
		t.Errorf("Expected 45s hold timeout, got %v", cfg.HoldTimeout)
	}
	if cfg.SweepInterval != 500*time.Millisecond {
		t.Errorf("Expected 500ms sweep interval, got %v", cfg.SweepInterval)
	}
	if cfg.RedisURL == "" || cfg.NatsURL == "" {
		t.Error("Expected store/bus URLs to be set")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("VENUE_ROWS", "not-a-number")
	if _, err := Load(); err == nil {
		t.Error("Expected error for non-numeric VENUE_ROWS")
	}

	t.Setenv("VENUE_ROWS", "40")
	if _, err := Load(); err == nil {
		t.Error("Expected error for out-of-range VENUE_ROWS")
	}

	t.Setenv("VENUE_ROWS", "10")
	t.Setenv("HOLD_TIMEOUT", "-5s")
	if _, err := Load(); err == nil {
		t.Error("Expected error for negative HOLD_TIMEOUT")
	}
}
