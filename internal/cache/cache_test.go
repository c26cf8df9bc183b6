package cache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestPutGet(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	key, err := c.Put(ctx, "pipe-a", "in-1", "out-1")
	require.NoError(t, err)
	require.Equal(t, Key("pipe-a", "in-1"), key)

	out, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "out-1", out)
}

func TestGetMiss(t *testing.T) {
	c := openTestCache(t)

	out, ok, err := c.Get(context.Background(), Key("pipe-a", "never-stored"))
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, out)
}

func TestPutIsIdempotent(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	_, err := c.Put(ctx, "pipe-a", "in-1", "out-first")
	require.NoError(t, err)
	key, err := c.Put(ctx, "pipe-a", "in-1", "out-second")
	require.NoError(t, err)

	// First write wins.
	out, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "out-first", out)

	n, err := c.Len(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestLen(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	n, err := c.Len(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, n)

	_, err = c.Put(ctx, "pipe-a", "in-1", "out-1")
	require.NoError(t, err)
	_, err = c.Put(ctx, "pipe-b", "in-1", "out-2")
	require.NoError(t, err)

	n, err = c.Len(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestRecent(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	recs, err := c.Recent(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, recs)

	_, err = c.Put(ctx, "pipe-a", "in-1", "out-1")
	require.NoError(t, err)
	_, err = c.Put(ctx, "pipe-b", "in-2", "out-2")
	require.NoError(t, err)

	recs, err = c.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	for _, r := range recs {
		assert.Len(t, r.Key, 64)
		assert.NotEmpty(t, r.Pipeline)
		assert.NotEmpty(t, r.Input)
		assert.NotEmpty(t, r.Output)
		assert.False(t, r.CreatedAt.IsZero())
	}
	assert.False(t, recs[0].CreatedAt.Before(recs[1].CreatedAt))

	recs, err = c.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	// Zero means no limit.
	recs, err = c.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recs, 2)
}

func TestReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	c, err := Open(path)
	require.NoError(t, err)
	key, err := c.Put(ctx, "pipe-a", "in-1", "out-1")
	require.NoError(t, err)
	require.NoError(t, c.Close())

	c, err = Open(path)
	require.NoError(t, err)
	defer c.Close()

	out, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "out-1", out)
}

func TestKeyDistinguishesBoundary(t *testing.T) {
	// The separator keeps (ab, c) and (a, bc) from colliding.
	assert.NotEqual(t, Key("ab", "c"), Key("a", "bc"))
	assert.NotEqual(t, Key("pipe", "in"), Key("pipe", "in2"))
	assert.Equal(t, Key("pipe", "in"), Key("pipe", "in"))
	assert.Len(t, Key("pipe", "in"), 64)
}
