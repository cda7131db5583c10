package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeptools/jewel-docs/db/kvdb"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time          { return c.now }
func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newClient(t *testing.T) (*Client, *clock) {
	t.Helper()
	clk := &clock{now: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
	c := New(nil)
	c.Now = clk.Now
	require.NoError(t, c.Init())
	return c, clk
}

func TestFactory(t *testing.T) {
	c, err := kvdb.New(&kvdb.Conf{Type: KVType})
	require.NoError(t, err)
	assert.IsType(t, &Client{}, c)
}

func TestStringsAndExpiry(t *testing.T) {
	ctx := context.Background()
	c, clk := newClient(t)

	require.NoError(t, c.Set(ctx, "a", 42, time.Minute))
	require.NoError(t, c.Set(ctx, "b", "keep", 0))

	v, ok, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "42", v)

	clk.Advance(time.Minute)
	_, ok, err = c.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	found, err := c.Expire(ctx, "a", time.Minute)
	require.NoError(t, err)
	assert.False(t, found)

	found, err = c.Expire(ctx, "b", time.Second)
	require.NoError(t, err)
	assert.True(t, found)
	clk.Advance(2 * time.Second)
	exists, err := c.Exists(ctx, "b")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSweep(t *testing.T) {
	ctx := context.Background()
	c, clk := newClient(t)
	require.NoError(t, c.Set(ctx, "short", "x", time.Second))
	require.NoError(t, c.Set(ctx, "long", "x", time.Hour))
	clk.Advance(time.Minute)
	assert.Equal(t, 1, c.Sweep())
	assert.Equal(t, 0, c.Sweep())
}

func TestLists(t *testing.T) {
	ctx := context.Background()
	c, _ := newClient(t)
	for _, v := range []string{"a", "b", "a", "c", "a"} {
		require.NoError(t, c.Push(ctx, "l", v))
	}
	n, err := c.Len(ctx, "l")
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	got, err := c.Range(ctx, "l", -2, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, got)

	got, err = c.Range(ctx, "l", 3, 100)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, got)

	got, err = c.Range(ctx, "missing", 0, -1)
	require.NoError(t, err)
	assert.Empty(t, got)

	removed, err := c.Remove(ctx, "l", -1, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	got, _ = c.Range(ctx, "l", 0, -1)
	assert.Equal(t, []string{"a", "b", "a", "c"}, got)

	removed, err = c.Remove(ctx, "l", 0, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
	got, _ = c.Range(ctx, "l", 0, -1)
	assert.Equal(t, []string{"b", "c"}, got)

	require.NoError(t, c.Trim(ctx, "l", -1, -1))
	got, _ = c.Range(ctx, "l", 0, -1)
	assert.Equal(t, []string{"c"}, got)

	require.NoError(t, c.Trim(ctx, "l", 5, 10))
	exists, _ := c.Exists(ctx, "l")
	assert.False(t, exists)
}

func TestHashes(t *testing.T) {
	ctx := context.Background()
	c, _ := newClient(t)

	fields, err := c.GetAllFields(ctx, "h")
	require.NoError(t, err)
	assert.Empty(t, fields)

	require.NoError(t, c.SetFields(ctx, "h", map[string]any{"path": "/x.pdf", "size": 10}))
	require.NoError(t, c.SetFields(ctx, "h", map[string]any{"size": 11}))
	fields, err = c.GetAllFields(ctx, "h")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"path": "/x.pdf", "size": "11"}, fields)

	deleted, err := c.Delete(ctx, "h", "nope")
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestWrongType(t *testing.T) {
	ctx := context.Background()
	c, _ := newClient(t)
	require.NoError(t, c.Set(ctx, "s", "x", 0))
	assert.ErrorIs(t, c.Push(ctx, "s", "y"), kvdb.ErrWrongType)
	_, err := c.GetAllFields(ctx, "s")
	assert.ErrorIs(t, err, kvdb.ErrWrongType)
	require.NoError(t, c.Push(ctx, "l", "y"))
	_, _, err = c.Get(ctx, "l")
	assert.ErrorIs(t, err, kvdb.ErrWrongType)
}
