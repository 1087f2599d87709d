package audio

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MRamiBalles/emerald/internal/assets"
)

type fakeBackend struct {
	played  []string
	volumes []float64
	stops   int
	clears  int
	failOn  string
}

func (f *fakeBackend) Play(s *assets.Sound, _ PlayOptions) error {
	if s.Key == f.failOn {
		return errors.New("corrupt buffer")
	}
	f.played = append(f.played, s.Key)
	return nil
}

func (f *fakeBackend) StopAll() error { f.stops++; return nil }

func (f *fakeBackend) SetVolume(v float64) error {
	f.volumes = append(f.volumes, v)
	return nil
}

func (f *fakeBackend) Clear() error { f.clears++; return nil }

func TestCommandsWaitForPostUpdate(t *testing.T) {
	b := &fakeBackend{}
	e := NewEngine(b)

	e.Play(&assets.Sound{Key: "a.wav"}, PlayOptions{Volume: 1})
	e.SetVolume(2)
	e.StopAll()
	assert.Empty(t, b.played)
	assert.Equal(t, 3, e.Pending())

	require.NoError(t, e.PostUpdate())
	assert.Equal(t, []string{"a.wav"}, b.played)
	assert.Equal(t, []float64{1}, b.volumes, "volume is clamped")
	assert.Equal(t, 1, b.stops)
	assert.Zero(t, e.Pending())
}

func TestFailedCommandDoesNotBlockOthers(t *testing.T) {
	b := &fakeBackend{failOn: "bad.wav"}
	e := NewEngine(b)

	e.Play(&assets.Sound{Key: "bad.wav"}, PlayOptions{})
	e.Play(&assets.Sound{Key: "good.wav"}, PlayOptions{})

	err := e.PostUpdate()
	var ae *AudioError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "bad.wav", ae.Key)
	assert.Equal(t, []string{"good.wav"}, b.played)
}

func TestClearDropsQueue(t *testing.T) {
	b := &fakeBackend{}
	e := NewEngine(b)
	e.Play(&assets.Sound{Key: "a.wav"}, PlayOptions{})

	require.NoError(t, e.Clear())
	require.NoError(t, e.PostUpdate())
	assert.Empty(t, b.played)
	assert.Equal(t, 1, b.clears)
}

func TestNilBackendIsSilent(t *testing.T) {
	e := NewEngine(nil)
	e.Play(&assets.Sound{Key: "a.wav"}, PlayOptions{})
	assert.NoError(t, e.PostUpdate())
	assert.NoError(t, e.Clear())
}
