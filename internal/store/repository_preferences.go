package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dalistyle/synckit/internal/logger"
	"github.com/dalistyle/synckit/models"
)

// PreferencesRepo is the SQLite-backed implementation of
// PreferencesRepository.
type PreferencesRepo struct {
	db  *sql.DB
	log *logger.Logger
}

// NewPreferencesRepository creates a preferences repository over the given
// connection.
func NewPreferencesRepository(db *sql.DB, log *logger.Logger) (PreferencesRepository, error) {
	if db == nil {
		return nil, ErrDatabaseConnectionIsNil
	}
	return &PreferencesRepo{db: db, log: log}, nil
}

func (r *PreferencesRepo) Get(ctx context.Context) (models.Preferences, error) {
	var (
		prefs         models.Preferences
		stylesJSON    string
		occasionsJSON string
	)

	err := r.db.QueryRowContext(ctx, getPreferencesQuery).
		Scan(&prefs.UserID, &prefs.BodyType, &stylesJSON, &occasionsJSON, &prefs.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Preferences{}, ErrPreferencesNotFound
	}
	if err != nil {
		r.log.Error().Err(err).Str("func", "Get").Msg("error reading preferences")
		return models.Preferences{}, fmt.Errorf("get preferences: %w", err)
	}

	if err = json.Unmarshal([]byte(stylesJSON), &prefs.Styles); err != nil {
		return models.Preferences{}, fmt.Errorf("decode styles: %w", err)
	}
	if err = json.Unmarshal([]byte(occasionsJSON), &prefs.Occasions); err != nil {
		return models.Preferences{}, fmt.Errorf("decode occasions: %w", err)
	}

	return prefs, nil
}

func (r *PreferencesRepo) Put(ctx context.Context, prefs models.Preferences, status models.SyncStatus) error {
	stylesJSON, err := json.Marshal(prefs.Styles)
	if err != nil {
		return fmt.Errorf("encode styles: %w", err)
	}
	occasionsJSON, err := json.Marshal(prefs.Occasions)
	if err != nil {
		return fmt.Errorf("encode occasions: %w", err)
	}

	_, err = r.db.ExecContext(ctx, putPreferencesQuery,
		prefs.UserID, prefs.BodyType, string(stylesJSON), string(occasionsJSON), prefs.UpdatedAt, status)
	if err != nil {
		r.log.Error().Err(err).Str("func", "Put").Msg("error writing preferences")
		return fmt.Errorf("put preferences: %w", err)
	}

	return nil
}

func (r *PreferencesRepo) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, clearPreferencesQuery); err != nil {
		r.log.Error().Err(err).Str("func", "Clear").Msg("error clearing preferences")
		return fmt.Errorf("clear preferences: %w", err)
	}
	return nil
}
