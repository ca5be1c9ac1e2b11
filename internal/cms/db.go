package cms

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	_ "modernc.org/sqlite"
)

// Open connects to the SQLite file at path. ":memory:" gives a throwaway
// database that lives as long as the returned handle.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, db.Ping()
}

func Migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS entries(
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			collection TEXT NOT NULL,
			document_id TEXT NOT NULL UNIQUE,
			data TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS entries_collection ON entries(collection);`,
	}
	ctx := context.Background()
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// OpenServer opens and migrates the database at path and returns a server on
// top of it together with the function that closes the database.
func OpenServer(path, token string, logger *log.Logger) (*Server, func() error, error) {
	db, err := Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening cms database %s: %w", path, err)
	}
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrating cms database %s: %w", path, err)
	}
	return NewServer(NewStore(db), token, logger), db.Close, nil
}
