package config

import "strings"

// validate checks that the final merged [StructuredConfig] satisfies basic
// invariants before it is mapped into a client view.
//
// Cross-field rules live on [ClientConfig.validate]; the structured config
// itself accepts partial data since later sources may fill the gaps.
func (cfg *StructuredConfig) validate() error {
	return nil
}

func (cfg *ClientConfig) validate() error {
	// the record store and queue must survive restarts, so an in-memory DSN
	// is rejected here
	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Netmon.GraceWindow < cfg.Netmon.ProbeInterval {
		return ErrInvalidNetmonConfigs
	}

	return nil
}
