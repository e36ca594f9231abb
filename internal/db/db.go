// Package db opens and migrates the sweep-history database. Every sweep run
// and its per-variation results are persisted so reports can be regenerated
// without re-solving.
package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the sweep-history SQLite handle.
type DB struct {
	*sql.DB
}

// New opens (creating if needed) the database at path. Schema management is
// separate; call MigrateUp before first use.
func New(path string) (*DB, error) {
	handle, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	// One writer at a time; sweeps are sequential but report tooling may
	// read concurrently.
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := handle.Exec(p); err != nil {
			handle.Close()
			return nil, fmt.Errorf("applying %q: %w", p, err)
		}
	}

	return &DB{handle}, nil
}
