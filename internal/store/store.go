// Package store provides optional SQLite persistence for completed game
// outcomes. The engine itself is pure in-memory; a host wires a Store in
// when it wants matches kept for later inspection or replay.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite database holding completed game outcomes.
type Store struct {
	conn *sql.DB
}

// startupPragmas are applied to every freshly opened database before the
// schema is touched. WAL lets a replay reader coexist with the writer; the
// busy timeout covers the handoff between them.
var startupPragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA foreign_keys = ON",
	"PRAGMA busy_timeout = 3000",
}

// Open opens the outcome database at dbPath, creating the file and its
// directory if needed, and brings its schema up to date.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("store: creating directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: opening %s: %w", dbPath, err)
	}

	s := &Store{conn: conn}
	if err := s.init(); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// init applies the startup pragmas, then runs every schema step newer than
// the version the database records in PRAGMA user_version.
func (s *Store) init() error {
	for _, pragma := range startupPragmas {
		if _, err := s.conn.Exec(pragma); err != nil {
			return fmt.Errorf("store: %s: %w", pragma, err)
		}
	}

	version, err := s.schemaVersion()
	if err != nil {
		return err
	}
	if version > len(schema) {
		return fmt.Errorf("store: database schema version %d is newer than this build knows (%d)", version, len(schema))
	}

	for ; version < len(schema); version++ {
		if err := s.applyStep(version); err != nil {
			return fmt.Errorf("store: applying schema step %d: %w", version+1, err)
		}
	}
	return nil
}

func (s *Store) schemaVersion() (int, error) {
	var v int
	if err := s.conn.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("store: reading schema version: %w", err)
	}
	return v, nil
}

// applyStep runs one schema step and bumps user_version inside the same
// transaction, so a failed step leaves the recorded version untouched.
func (s *Store) applyStep(version int) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(schema[version]); err != nil {
		return err
	}
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", version+1)); err != nil {
		return err
	}
	return tx.Commit()
}
