package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/dalistyle/synckit/internal/logger"
	"github.com/dalistyle/synckit/migrations"
)

// DB wraps the SQLite connection shared by all repositories.
type DB struct {
	conn *sql.DB
	log  *logger.Logger
}

// NewConnectSQLite opens (creating if necessary) the SQLite database file at
// the given path and verifies the connection. Foreign keys are enabled so
// the schema's constraints actually hold at runtime.
func NewConnectSQLite(databasePath string, log *logger.Logger) (*DB, error) {
	log.Info().Str("func", "NewConnectSQLite").Str("path", databasePath).Msg("connecting to local database")

	if dir := filepath.Dir(databasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite3", databasePath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		log.Error().Err(err).Str("func", "NewConnectSQLite").Msg("error opening database file")
		return nil, fmt.Errorf("%w: %v", ErrConnectionProblems, err)
	}

	if err = conn.Ping(); err != nil {
		log.Error().Err(err).Str("func", "NewConnectSQLite").Msg("error pinging database")
		return nil, fmt.Errorf("%w: %v", ErrConnectionProblems, err)
	}

	// SQLite handles one writer at a time; serializing through a single
	// connection avoids SQLITE_BUSY under concurrent mutations.
	conn.SetMaxOpenConns(1)

	return &DB{conn: conn, log: log}, nil
}

// Migrate applies all pending schema migrations.
func (db *DB) Migrate() error {
	db.log.Info().Str("func", "Migrate").Msg("applying migrations")
	return migrations.Migrate(db.conn)
}

// Conn exposes the underlying connection for repository construction.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
