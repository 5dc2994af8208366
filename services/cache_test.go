package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViewCache(t *testing.T) *RistrettoViewCache {
	t.Helper()
	c, err := NewRistrettoViewCache(100, time.Minute)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestRistrettoViewCacheInvalidate(t *testing.T) {
	c := newViewCache(t)

	c.Set(c.Slot("user-1", ViewCloset, "all"), "closet-a")
	c.Set(c.Slot("user-1", ViewCalendar, "2024-06"), "june")
	c.Set(c.Slot("user-2", ViewCloset, "all"), "closet-b")

	got, ok := c.Get(c.Slot("user-1", ViewCloset, "all"))
	require.True(t, ok)
	assert.Equal(t, "closet-a", got)

	c.Invalidate("user-1", ViewCloset)

	_, ok = c.Get(c.Slot("user-1", ViewCloset, "all"))
	assert.False(t, ok, "invalidated view")
	_, ok = c.Get(c.Slot("user-1", ViewCalendar, "2024-06"))
	assert.True(t, ok, "other view of the same owner")
	_, ok = c.Get(c.Slot("user-2", ViewCloset, "all"))
	assert.True(t, ok, "same view of another owner")

	c.Set(c.Slot("user-1", ViewCloset, "all"), "closet-a2")
	got, ok = c.Get(c.Slot("user-1", ViewCloset, "all"))
	require.True(t, ok)
	assert.Equal(t, "closet-a2", got)
}

func TestNoopViewCache(t *testing.T) {
	var c NoopViewCache
	c.Set(c.Slot("user-1", ViewCloset, "all"), 1)
	_, ok := c.Get(c.Slot("user-1", ViewCloset, "all"))
	assert.False(t, ok)
}

func TestCached(t *testing.T) {
	c := newViewCache(t)
	calls := 0
	load := func() (int, error) {
		calls++
		return 42, nil
	}

	v, err := cached(c, "user-1", ViewInsights, "k", load)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	v, err = cached(c, "user-1", ViewInsights, "k", load)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, calls)

	c.Invalidate("user-1", ViewInsights)
	_, err = cached(c, "user-1", ViewInsights, "k", load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestCachedDoesNotStoreFailures(t *testing.T) {
	c := newViewCache(t)
	boom := errors.New("boom")

	_, err := cached(c, "user-1", ViewInsights, "k", func() (string, error) { return "", boom })
	require.ErrorIs(t, err, boom)

	_, ok := c.Get(c.Slot("user-1", ViewInsights, "k"))
	assert.False(t, ok)
}

func TestCachedReloadsOnTypeMismatch(t *testing.T) {
	c := newViewCache(t)
	c.Set(c.Slot("user-1", ViewCloset, "k"), "not an int")

	v, err := cached(c, "user-1", ViewCloset, "k", func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestCachedLoadRacingInvalidateIsNotServed(t *testing.T) {
	c := newViewCache(t)

	v, err := cached(c, "user-1", ViewCalendar, "2024-06", func() (string, error) {
		// a write lands while the read is still loading
		c.Invalidate("user-1", ViewCalendar)
		return "before write", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "before write", v)

	v, err = cached(c, "user-1", ViewCalendar, "2024-06", func() (string, error) { return "after write", nil })
	require.NoError(t, err)
	assert.Equal(t, "after write", v)
}

func TestSlotPinsGeneration(t *testing.T) {
	c := newViewCache(t)
	stale := c.Slot("user-1", ViewCloset, "all")
	c.Invalidate("user-1", ViewCloset)

	c.Set(stale, "old")
	_, ok := c.Get(c.Slot("user-1", ViewCloset, "all"))
	assert.False(t, ok)
}
