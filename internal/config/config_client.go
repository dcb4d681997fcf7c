package config

import (
	"fmt"
	"time"
)

// Defaults applied by GetClientConfig when a setting is absent from every
// source. The probe and grace values follow the connectivity monitor's
// debounce design; the sync interval matches the foreground sync cadence of
// the mobile app.
const (
	DefaultRequestTimeout = 15 * time.Second
	DefaultSyncInterval   = 5 * time.Minute
	DefaultProbeInterval  = 500 * time.Millisecond
	DefaultGraceWindow    = 1500 * time.Millisecond
)

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the HTTP endpoint address of the outfit API.
	HTTPAddress string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the SQLite file path used by the client.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// DB holds local database settings.
	DB ClientDB
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	// SyncInterval defines how often the periodic sync job should run.
	SyncInterval time.Duration
}

// ClientNetmon contains connectivity monitor settings.
type ClientNetmon struct {
	// ProbeInterval defines how often the reachability probe is sampled.
	ProbeInterval time.Duration
	// GraceWindow is the debounce window for connectivity transitions.
	GraceWindow time.Duration
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// Adapter contains client transport address and timeout.
	Adapter ClientAdapter
	// Storage contains client storage settings.
	Storage ClientStorage
	// Workers contains background job settings.
	Workers ClientWorkers
	// Netmon contains connectivity monitor settings.
	Netmon ClientNetmon
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the client runtime, applies defaults for optional settings, and
// validates the resulting [ClientConfig].
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Storage: ClientStorage{
			DB: ClientDB{
				DSN: cfg.Storage.DB.DSN,
			},
		},
		Workers: ClientWorkers{SyncInterval: cfg.Workers.SyncInterval},
		Netmon: ClientNetmon{
			ProbeInterval: cfg.Netmon.ProbeInterval,
			GraceWindow:   cfg.Netmon.GraceWindow,
		},
	}
	clientCfg.applyDefaults()

	return clientCfg, clientCfg.validate()
}

func (cfg *ClientConfig) applyDefaults() {
	if cfg.Adapter.RequestTimeout == 0 {
		cfg.Adapter.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Workers.SyncInterval == 0 {
		cfg.Workers.SyncInterval = DefaultSyncInterval
	}
	if cfg.Netmon.ProbeInterval == 0 {
		cfg.Netmon.ProbeInterval = DefaultProbeInterval
	}
	if cfg.Netmon.GraceWindow == 0 {
		cfg.Netmon.GraceWindow = DefaultGraceWindow
	}
}
