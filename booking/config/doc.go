// Package config loads server configuration from the environment.
//
// Flags on the server binary cover host/port; everything else (store and
// bus selection, venue dimensions, hold and sweep timing) comes from
// environment variables, typically via a .env file loaded in main.
// Empty REDIS_URL or NATS_URL means the in-process implementation is used.
package config
