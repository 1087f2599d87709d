package profiling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeTwiceCountsTwo(t *testing.T) {
	c := NewCache()
	base := time.Unix(100, 0)
	now := base

	clock := func() time.Time { return now }

	p := c.Begin("x", now, clock)
	now = now.Add(10 * time.Millisecond)
	p.Finish()

	p = c.Begin("x", now, clock)
	now = now.Add(30 * time.Millisecond)
	p.Finish()

	st, ok := c.Query("x")
	require.True(t, ok)
	assert.Equal(t, 2, st.Count)
	assert.Equal(t, 40*time.Millisecond, st.Total)
	assert.Equal(t, 20*time.Millisecond, st.Mean)
	assert.Equal(t, 10*time.Millisecond, st.Min)
	assert.Equal(t, 30*time.Millisecond, st.Max)
}

func TestFinishIsIdempotent(t *testing.T) {
	c := NewCache()
	start := time.Unix(0, 0)
	p := c.Begin("once", start, nil)

	assert.Equal(t, time.Second, p.FinishAt(start.Add(time.Second)))
	assert.Zero(t, p.FinishAt(start.Add(2*time.Second)))

	st, _ := c.Query("once")
	assert.Equal(t, 1, st.Count)
}

func TestBackwardClockRecordsZero(t *testing.T) {
	c := NewCache()
	start := time.Unix(10, 0)
	c.Begin("skew", start, nil).FinishAt(start.Add(-time.Second))

	assert.Equal(t, []time.Duration{0}, c.Durations("skew"))
}

func TestQueryUnknownScope(t *testing.T) {
	_, ok := NewCache().Query("missing")
	assert.False(t, ok)
}

func TestSnapshotAndObserver(t *testing.T) {
	c := NewCache()
	var seen []string
	c.SetObserver(func(name string, _ time.Duration) { seen = append(seen, name) })

	c.Record("b", time.Millisecond)
	c.Record("a", time.Millisecond)
	c.Record("a", 3*time.Millisecond)

	snap := c.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "a", snap[0].Name)
	assert.Equal(t, 2, snap[0].Count)
	assert.Equal(t, "b", snap[1].Name)
	assert.Equal(t, []string{"b", "a", "a"}, seen)
}
