package engine

import "time"

// FrameWindow is the number of deltas averaged for the fps reading.
const FrameWindow = 50

// DefaultDelta seeds the window so early fps readings are plausible.
const DefaultDelta = 1.0 / 60.0

// FrameClock tracks frame deltas in a fixed ring indexed by a write cursor.
type FrameClock struct {
	last   time.Time
	deltas [FrameWindow]float64
	cursor int
}

// NewFrameClock creates a clock whose previous frame happened at start.
func NewFrameClock(start time.Time) *FrameClock {
	c := &FrameClock{last: start}
	for i := range c.deltas {
		c.deltas[i] = DefaultDelta
	}
	return c
}

// Tick measures the seconds since the previous tick, records now as the new
// reference point, and returns the delta. It does not push the delta.
// A clock that runs backwards yields zero.
func (c *FrameClock) Tick(now time.Time) float64 {
	d := c.Peek(now)
	c.last = now
	return d
}

// Peek returns the seconds since the previous tick without advancing.
func (c *FrameClock) Peek(now time.Time) float64 {
	d := now.Sub(c.last).Seconds()
	if d < 0 {
		return 0
	}
	return d
}

// Mark moves the reference point without recording a delta.
func (c *FrameClock) Mark(now time.Time) { c.last = now }

// Last returns the time of the previous tick.
func (c *FrameClock) Last() time.Time { return c.last }

// Push overwrites the oldest delta.
func (c *FrameClock) Push(delta float64) {
	if delta < 0 {
		delta = 0
	}
	c.deltas[c.cursor] = delta
	c.cursor = (c.cursor + 1) % FrameWindow
}

// Mean returns the average delta over the window.
func (c *FrameClock) Mean() float64 {
	var sum float64
	for _, d := range c.deltas {
		sum += d
	}
	return sum / FrameWindow
}

// FPS returns 1 / Mean. A window of zero deltas reports zero.
func (c *FrameClock) FPS() float64 {
	mean := c.Mean()
	if mean == 0 {
		return 0
	}
	return 1 / mean
}

// Window returns the deltas oldest first.
func (c *FrameClock) Window() []float64 {
	out := make([]float64, 0, FrameWindow)
	out = append(out, c.deltas[c.cursor:]...)
	return append(out, c.deltas[:c.cursor]...)
}
