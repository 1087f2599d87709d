package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MRamiBalles/emerald/internal/events"
	"github.com/MRamiBalles/emerald/internal/input"
	"github.com/MRamiBalles/emerald/internal/platform/config"
)

type sample struct {
	delta float64
	x     float64
	mouse input.Point
}

// steering moves x right while Right is held and samples the mouse.
func steering(trace *[]sample) *fakeGame {
	x := 0.0
	return &fakeGame{update: func(f *Facade) error {
		in := f.Input()
		if in.IsKeyPressed(input.KeyRight) {
			x += 100 * f.Delta()
		}
		*trace = append(*trace, sample{delta: f.Delta(), x: x, mouse: in.MousePosition()})
		return nil
	}}
}

func TestReplayReproducesSession(t *testing.T) {
	var live []sample
	journal := events.NewJournal(nil)
	h := newHarness(t, steering(&live), func(_ *config.Settings, o *Options) {
		o.Recorder = journal
	})

	require.NoError(t, h.engine.OnKeyDown(input.KeyRight, false))
	h.step(t, 16*time.Millisecond)
	require.NoError(t, h.engine.OnMouseMove(10, 20))
	h.step(t, 20*time.Millisecond)
	require.NoError(t, h.engine.OnKeyUp(input.KeyRight))
	h.step(t, 17*time.Millisecond)
	require.Equal(t, 3, journal.Frames())

	var replayed []sample
	r := newHarness(t, steering(&replayed), nil)
	frames, err := events.Replay(journal.Entries(), r.engine)
	require.NoError(t, err)

	assert.Equal(t, 3, frames)
	assert.Equal(t, live, replayed)
	assert.Equal(t, h.engine.FrameStats().Frame, r.engine.FrameStats().Frame)
	assert.Equal(t, input.Point{X: 10, Y: 340}, replayed[2].mouse)
}
