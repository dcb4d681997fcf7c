package store

import "errors"

var (
	// ErrOutfitNotFound is returned when a record id does not exist in the
	// local store.
	ErrOutfitNotFound = errors.New("outfit not found")
	// ErrPreferencesNotFound is returned when no preferences row has been
	// written yet.
	ErrPreferencesNotFound = errors.New("preferences not found")
	// ErrConnectionProblems is returned when the SQLite file cannot be
	// opened or pinged.
	ErrConnectionProblems = errors.New("database connection error")
	// ErrDatabaseConnectionIsNil guards constructors against a nil *sql.DB.
	ErrDatabaseConnectionIsNil = errors.New("database connection is nil")
)
