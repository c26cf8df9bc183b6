// Package cache memoizes pipeline results in a SQLite database: the key
// is a content hash of the pipeline spec and the input circuit, the
// value is the optimized circuit. A cache hit skips the whole pipeline.
package cache

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"net/url"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped with every migration step appended below.
const schemaVersion = 1

// Cache wraps the SQLite handle. Safe for concurrent use; writes are
// serialized through a single connection.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at path. Use ":memory:" for
// an ephemeral cache in tests.
func Open(path string) (*Cache, error) {
	dsn := fmt.Sprintf("file:%s?%s", path, dsnParams())
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	// SQLite serializes writers anyway; a single connection avoids
	// SQLITE_BUSY churn under concurrent access.
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Cache{db: db}, nil
}

func dsnParams() string {
	v := url.Values{}
	v.Set("_journal_mode", "WAL")
	v.Set("_synchronous", "NORMAL")
	v.Set("_busy_timeout", "5000")
	v.Set("_foreign_keys", "on")
	return v.Encode()
}

// Close releases the database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// migrate brings the schema up to schemaVersion, tracked via
// PRAGMA user_version. Version 0 is a fresh database.
func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	if version >= schemaVersion {
		return nil
	}

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting migration: %w", err)
	}
	defer tx.Rollback()

	if version < 1 {
		if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("setting schema version: %w", err)
	}
	return tx.Commit()
}
