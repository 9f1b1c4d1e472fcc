// Package cachedb persists versioned reference-data catalogs in a local
// SQLite database. Each category (items, maps, monsters, ...) is stored as
// an opaque set of key/payload records stamped with the server data version
// that produced it; a category is only ever replaced wholesale.
package cachedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Record is one cached entry: a category-unique key and its JSON payload.
type Record struct {
	Key     string
	Payload []byte
}

// Store is the persistence contract for the versioned cache.
type Store interface {
	// Version returns the stored data version for a category, or "" when
	// the category has never been cached.
	Version(ctx context.Context, category string) (string, error)

	// Load returns all records of a category.
	Load(ctx context.Context, category string) ([]Record, error)

	// Replace atomically swaps a category's records and stamps them with
	// the given version. On error the previous contents are untouched.
	Replace(ctx context.Context, category, version string, records []Record) error

	// Close releases the underlying database.
	Close() error
}

const schema = `
CREATE TABLE IF NOT EXISTS cache_versions (
	category   TEXT PRIMARY KEY,
	version    TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS cache_records (
	category TEXT NOT NULL,
	key      TEXT NOT NULL,
	payload  BLOB NOT NULL,
	PRIMARY KEY (category, key)
);
`

// SQLiteStore implements Store on a single SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at path and ensures
// the schema exists.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	// SQLite allows one writer at a time; a second connection would only
	// ever see lock errors.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cache schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Version returns the stored data version for a category.
func (s *SQLiteStore) Version(ctx context.Context, category string) (string, error) {
	var version string
	err := s.db.QueryRowContext(ctx,
		`SELECT version FROM cache_versions WHERE category = ?`, category,
	).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading cache version for %s: %w", category, err)
	}
	return version, nil
}

// Load returns all records of a category.
func (s *SQLiteStore) Load(ctx context.Context, category string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, payload FROM cache_records WHERE category = ?`, category,
	)
	if err != nil {
		return nil, fmt.Errorf("loading cache records for %s: %w", category, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Key, &r.Payload); err != nil {
			return nil, fmt.Errorf("scanning cache record for %s: %w", category, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cache records for %s: %w", category, err)
	}
	return records, nil
}

// Replace swaps a category's records inside one transaction.
func (s *SQLiteStore) Replace(ctx context.Context, category, version string, records []Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning cache transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM cache_records WHERE category = ?`, category,
	); err != nil {
		return fmt.Errorf("clearing cache records for %s: %w", category, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO cache_records (category, key, payload) VALUES (?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("preparing cache insert for %s: %w", category, err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, category, r.Key, r.Payload); err != nil {
			return fmt.Errorf("inserting cache record %s/%s: %w", category, r.Key, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO cache_versions (category, version, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(category) DO UPDATE SET version = excluded.version, updated_at = excluded.updated_at`,
		category, version, time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("recording cache version for %s: %w", category, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing cache transaction for %s: %w", category, err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
