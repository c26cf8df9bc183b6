package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Record is one cached optimization result.
type Record struct {
	Key       string
	Pipeline  string
	Input     string
	Output    string
	CreatedAt time.Time
}

// Get looks up the cached output for a key. The second result is false
// on a miss.
func (c *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	var output string
	err := c.db.QueryRowContext(ctx,
		"SELECT output FROM optimizations WHERE key = ?", key).Scan(&output)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading cache entry: %w", err)
	}
	return output, true, nil
}

// Put stores an optimization result. Writing the same key twice is a
// no-op: the first write wins, which is safe because equal keys mean
// equal pipeline and input.
func (c *Cache) Put(ctx context.Context, pipeline, input, output string) (string, error) {
	key := Key(pipeline, input)
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO optimizations (key, pipeline, input, output)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (key) DO NOTHING`,
		key, pipeline, input, output)
	if err != nil {
		return "", fmt.Errorf("writing cache entry: %w", err)
	}
	return key, nil
}

// Recent returns the newest entries, most recent first. A limit of
// zero or less returns everything.
func (c *Cache) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := c.db.QueryContext(ctx, `
		SELECT key, pipeline, input, output, created_at
		FROM optimizations
		ORDER BY created_at DESC, key
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing cache entries: %w", err)
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		var r Record
		var created string
		if err := rows.Scan(&r.Key, &r.Pipeline, &r.Input, &r.Output, &created); err != nil {
			return nil, fmt.Errorf("scanning cache entry: %w", err)
		}
		r.CreatedAt, err = time.Parse(time.RFC3339, created)
		if err != nil {
			return nil, fmt.Errorf("parsing cache timestamp %q: %w", created, err)
		}
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing cache entries: %w", err)
	}
	return recs, nil
}

// Len returns the number of cached entries.
func (c *Cache) Len(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM optimizations").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting cache entries: %w", err)
	}
	return n, nil
}
