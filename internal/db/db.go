package db

import (
	"database/sql"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS cars (
    id         INTEGER PRIMARY KEY,
    name       TEXT NOT NULL,
    model      TEXT NOT NULL,
    year       REAL NOT NULL DEFAULT 0,
    color      TEXT NOT NULL DEFAULT '',
    price      REAL,
    latitude   REAL,
    longitude  REAL,
    created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
);
`

var (
	// ErrNotFound is returned when no car has the requested id.
	ErrNotFound = errors.New("car not found")
	// ErrConflict is returned when an insert names an id that is already taken.
	ErrConflict = errors.New("car id already exists")
)

// Open opens or creates the SQLite database and initializes the schema.
func Open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to initialize schema")
	}

	return db, nil
}
