package store

import (
	"fmt"

	"github.com/dalistyle/synckit/internal/config"
	"github.com/dalistyle/synckit/internal/logger"
)

// ClientStorages groups the client-side repositories into a single value
// that can be passed around the service layer: the outfit record store, the
// pending action queue and the preferences row, all backed by one SQLite
// file.
type ClientStorages struct {
	// Outfits is the local record store for generated outfits.
	Outfits OutfitRepository
	// Actions is the durable pending action queue.
	Actions ActionQueueRepository
	// Preferences is the singleton style profile row.
	Preferences PreferencesRepository

	db *DB
}

// NewClientStorages initialises the client storage layer using the supplied
// configuration and logger. It opens the SQLite file at cfg.DB.DSN (creating
// it if missing), runs pending schema migrations and wires the three
// repositories over the shared connection.
func NewClientStorages(cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(cfg.DB.DSN, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err = db.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	outfits, err := NewOutfitRepository(db.Conn(), logger)
	if err != nil {
		return nil, fmt.Errorf("outfit repository init error: %w", err)
	}

	actions, err := NewActionQueueRepository(db.Conn(), logger)
	if err != nil {
		return nil, fmt.Errorf("action queue init error: %w", err)
	}

	preferences, err := NewPreferencesRepository(db.Conn(), logger)
	if err != nil {
		return nil, fmt.Errorf("preferences repository init error: %w", err)
	}

	return &ClientStorages{
		Outfits:     outfits,
		Actions:     actions,
		Preferences: preferences,
		db:          db,
	}, nil
}

// Close releases the underlying database connection.
func (s *ClientStorages) Close() error {
	return s.db.Close()
}
