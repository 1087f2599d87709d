package assets

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSheet() *SpriteSheet {
	frames := make([]Frame, 4)
	for i := range frames {
		frames[i] = Frame{Rect: image.Rect(i*8, 0, i*8+8, 8), Duration: 100 * time.Millisecond}
	}
	return &SpriteSheet{
		Key:    "test",
		Frames: frames,
		Tags: map[string]Tag{
			"walk": {Name: "walk", From: 0, To: 2, Direction: DirectionForward},
			"back": {Name: "back", From: 1, To: 3, Direction: DirectionReverse},
			"bob":  {Name: "bob", From: 0, To: 2, Direction: DirectionPingPong},
		},
	}
}

func TestSpritePlayOnceStopsOnLastFrame(t *testing.T) {
	s := NewSprite(testSheet())
	require.NoError(t, s.Play("walk"))

	s.Advance(150 * time.Millisecond)
	assert.Equal(t, 1, s.FrameIndex())

	s.Advance(time.Second)
	assert.Equal(t, 2, s.FrameIndex())
	assert.False(t, s.IsPlaying())
}

func TestSpriteLoopWraps(t *testing.T) {
	s := NewSprite(testSheet())
	require.NoError(t, s.PlayAndLoop("walk"))

	s.Advance(300 * time.Millisecond)
	assert.Equal(t, 0, s.FrameIndex())
	assert.True(t, s.IsPlaying())
	assert.True(t, s.IsLooping())
}

func TestSpriteReverse(t *testing.T) {
	s := NewSprite(testSheet())
	require.NoError(t, s.PlayAndLoop("back"))
	assert.Equal(t, 3, s.FrameIndex())

	s.Advance(200 * time.Millisecond)
	assert.Equal(t, 1, s.FrameIndex())

	s.Advance(100 * time.Millisecond)
	assert.Equal(t, 3, s.FrameIndex())
}

func TestSpritePingPong(t *testing.T) {
	s := NewSprite(testSheet())
	require.NoError(t, s.PlayAndLoop("bob"))

	var seen []int
	for i := 0; i < 6; i++ {
		seen = append(seen, s.FrameIndex())
		s.Advance(100 * time.Millisecond)
	}
	assert.Equal(t, []int{0, 1, 2, 1, 0, 1}, seen)
}

func TestSpriteUnknownTag(t *testing.T) {
	s := NewSprite(testSheet())
	err := s.Play("dance")
	assert.True(t, errors.Is(err, ErrUnknownTag))
	assert.False(t, s.IsPlaying())
}

func TestCloneSharesSheetButNotCursor(t *testing.T) {
	a := NewSprite(testSheet())
	require.NoError(t, a.PlayAndLoop("walk"))

	b := a.Clone()
	require.NoError(t, b.Play("back"))

	a.Advance(100 * time.Millisecond)

	assert.Same(t, a.Sheet(), b.Sheet())
	assert.Equal(t, 1, a.FrameIndex())
	assert.Equal(t, 3, b.FrameIndex())
	assert.True(t, a.IsLooping())
	assert.False(t, b.IsLooping())
	assert.Equal(t, "back", b.Animation())
}
