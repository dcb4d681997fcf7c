package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a remote API address in format [host]:[port] or full URL
//	-d local database path (SQLite file)
//	-c/-config json file path with configs
//	-request-timeout outbound request timeout (e.g., "15s", "1m")
//	-sync-interval periodic sync interval (e.g., "5m")
//	-probe-interval connectivity probe sampling interval (e.g., "500ms")
//	-grace-window connectivity debounce window (e.g., "1500ms")
func ParseFlags() *StructuredConfig {
	var apiAddress string
	var databaseDSN string
	var jsonConfigPath string
	var requestTimeout time.Duration
	var syncInterval time.Duration
	var probeInterval time.Duration
	var graceWindow time.Duration

	flag.StringVar(&apiAddress, "a", "", "Remote API address host:port or URL")
	flag.StringVar(&databaseDSN, "d", "", "Local database path")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 15s, 1m)")
	flag.DurationVar(&syncInterval, "sync-interval", 0, "Periodic sync interval (e.g., 5m)")
	flag.DurationVar(&probeInterval, "probe-interval", 0, "Connectivity probe interval (e.g., 500ms)")
	flag.DurationVar(&graceWindow, "grace-window", 0, "Connectivity debounce window (e.g., 1500ms)")

	flag.Parse()

	return &StructuredConfig{
		Adapter: Adapter{
			HTTPAddress:    apiAddress,
			RequestTimeout: requestTimeout,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Workers: Workers{
			SyncInterval: syncInterval,
		},
		Netmon: Netmon{
			ProbeInterval: probeInterval,
			GraceWindow:   graceWindow,
		},
		JSONFilePath: jsonConfigPath,
	}
}
