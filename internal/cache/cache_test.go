package cache

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheGetSet(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := New[string](clock)

	t.Run("miss on empty cache", func(t *testing.T) {
		_, ok := c.Get("noaa-tides:21.2761,-157.8267", 5*time.Minute)
		assert.False(t, ok)
	})

	t.Run("round trip within TTL", func(t *testing.T) {
		c.Set("k", "v")
		got, ok := c.Get("k", 5*time.Minute)
		require.True(t, ok)
		assert.Equal(t, "v", got)
	})

	t.Run("expires after TTL", func(t *testing.T) {
		c.Set("exp", "v")
		clock.Advance(5*time.Minute + time.Second)
		_, ok := c.Get("exp", 5*time.Minute)
		assert.False(t, ok)
	})

	t.Run("entry exactly TTL old is a miss", func(t *testing.T) {
		c.Set("edge", "v")
		clock.Advance(5*time.Minute - time.Second)
		_, ok := c.Get("edge", 5*time.Minute)
		assert.True(t, ok)
		clock.Advance(time.Second)
		_, ok = c.Get("edge", 5*time.Minute)
		assert.False(t, ok)
	})

	t.Run("per-read TTL judges the same entry differently", func(t *testing.T) {
		c.Set("dual", "v")
		clock.Advance(7 * time.Minute)
		_, ok := c.Get("dual", 5*time.Minute)
		assert.False(t, ok)
		_, ok = c.Get("dual", 10*time.Minute)
		assert.True(t, ok)
	})

	t.Run("set refreshes age", func(t *testing.T) {
		c.Set("fresh", "v1")
		clock.Advance(4 * time.Minute)
		c.Set("fresh", "v2")
		clock.Advance(4 * time.Minute)
		got, ok := c.Get("fresh", 5*time.Minute)
		require.True(t, ok)
		assert.Equal(t, "v2", got)
	})

	t.Run("expired entries are shadowed not purged", func(t *testing.T) {
		before := c.Len()
		c.Set("shadow", "v")
		clock.Advance(time.Hour)
		_, ok := c.Get("shadow", time.Minute)
		assert.False(t, ok)
		assert.Equal(t, before+1, c.Len())
	})
}

func TestKey(t *testing.T) {
	assert.Equal(t, "noaa-tides:21.2761,-157.8267", Key("noaa-tides", 21.2761, -157.8267))
	// Sub-11m jitter lands on the same entry.
	assert.Equal(t, Key("weather", 21.27612, -157.82671), Key("weather", 21.27614, -157.82669))
}
