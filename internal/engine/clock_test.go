package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func TestFrameClockStartsAtSixty(t *testing.T) {
	c := NewFrameClock(time.Unix(0, 0))
	assert.InDelta(t, 60.0, c.FPS(), 1e-9)
	assert.Len(t, c.Window(), FrameWindow)
}

func TestFrameClockWindowSlides(t *testing.T) {
	c := NewFrameClock(time.Unix(0, 0))

	var pushed []float64
	for i := 0; i < 73; i++ {
		d := 0.01 + float64(i%7)*0.003
		pushed = append(pushed, d)
		c.Push(d)

		window := c.Window()
		assert.Len(t, window, FrameWindow)
		if len(pushed) >= FrameWindow {
			last := pushed[len(pushed)-FrameWindow:]
			assert.Equal(t, last, window)
			assert.InDelta(t, 1/mean(last), c.FPS(), 1e-9)
		}
	}
}

func TestFrameClockTickAndPeek(t *testing.T) {
	t0 := time.Unix(100, 0)
	c := NewFrameClock(t0)

	assert.InDelta(t, 0.02, c.Peek(t0.Add(20*time.Millisecond)), 1e-12)
	assert.Equal(t, t0, c.Last(), "peek does not advance")

	assert.InDelta(t, 0.03, c.Tick(t0.Add(30*time.Millisecond)), 1e-12)
	assert.Equal(t, t0.Add(30*time.Millisecond), c.Last())

	assert.Zero(t, c.Tick(t0), "backwards clock clamps to zero")
}
