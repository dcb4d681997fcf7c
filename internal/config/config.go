package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the sync
// client. It aggregates all sub-configurations and is populated by merging
// values from environment variables, command-line flags, and an optional
// JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Adapter holds the remote API endpoint the client reconciles against.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Storage holds the local durable storage settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Workers holds background worker settings such as the periodic sync
	// interval.
	Workers Workers `envPrefix:"WORKERS_"`

	// Netmon holds connectivity monitor settings.
	Netmon Netmon `envPrefix:"NETMON_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Adapter holds network settings for the outbound transport layer.
type Adapter struct {
	// HTTPAddress is the base address of the outfit API,
	// in "host:port" or full URL format (e.g. "api.dalistyle.app:443").
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single outbound
	// request before the client cancels it (e.g. "15s", "1m").
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Storage groups the configuration for the local persistence backend.
type Storage struct {
	// DB holds the local database connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the local SQLite database.
type DB struct {
	// DSN is the SQLite file path used to open the local database
	// (e.g. "/var/lib/dali/outfits.db").
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// SyncInterval defines how often the periodic sync job triggers a
	// reconciliation pass while the app is in the foreground.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`
}

// Netmon holds configuration for the connectivity monitor.
type Netmon struct {
	// ProbeInterval defines how often the reachability probe is sampled.
	// Env: NETMON_PROBE_INTERVAL
	ProbeInterval time.Duration `env:"PROBE_INTERVAL"`

	// GraceWindow is how long a new connectivity state must hold before a
	// transition is published. Debounces flapping links so brief signal
	// loss does not trigger sync storms.
	// Env: NETMON_GRACE_WINDOW
	GraceWindow time.Duration `env:"GRACE_WINDOW"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (last source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
