package assets

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/tidwall/gjson"
)

// defaultFrameDuration is used when metadata omits a frame duration.
const defaultFrameDuration = 100 * time.Millisecond

// ErrUnknownTag is returned when playing an animation the sheet does not define.
var ErrUnknownTag = errors.New("unknown animation tag")

// Direction is the playback order of an animation tag.
type Direction string

const (
	DirectionForward  Direction = "forward"
	DirectionReverse  Direction = "reverse"
	DirectionPingPong Direction = "pingpong"
)

// Frame is one cell of a sprite sheet.
type Frame struct {
	Rect     image.Rectangle
	Duration time.Duration
}

// Tag is a named frame range.
type Tag struct {
	Name      string
	From      int
	To        int
	Direction Direction
}

// SpriteSheet is the immutable data shared by every Sprite cloned from it.
type SpriteSheet struct {
	Key     string
	Texture *Texture
	Frames  []Frame
	Tags    map[string]Tag
}

// parseSpriteSheet reads Aseprite JSON in either the hash or array frame layout.
func parseSpriteSheet(key string, tex *Texture, meta []byte) (*SpriteSheet, error) {
	if !gjson.ValidBytes(meta) {
		return nil, &AssetError{Code: ErrCodeDecodeFailure, Path: key, Message: "metadata is not valid JSON"}
	}

	doc := gjson.ParseBytes(meta)
	framesNode := doc.Get("frames")
	if !framesNode.IsArray() && !framesNode.IsObject() {
		return nil, schemaMismatch(key, "missing frames")
	}

	sheet := &SpriteSheet{Key: key, Texture: tex, Tags: make(map[string]Tag)}
	bounds := tex.Image.Bounds()

	var parseErr error
	framesNode.ForEach(func(_, v gjson.Result) bool {
		f := v.Get("frame")
		if !f.Get("x").Exists() || !f.Get("y").Exists() || !f.Get("w").Exists() || !f.Get("h").Exists() {
			parseErr = schemaMismatch(key, "frame %d has no rectangle", len(sheet.Frames))
			return false
		}
		x, y := int(f.Get("x").Int()), int(f.Get("y").Int())
		rect := image.Rect(x, y, x+int(f.Get("w").Int()), y+int(f.Get("h").Int())).Add(bounds.Min)
		if !rect.In(bounds) {
			parseErr = schemaMismatch(key, "frame %d %v outside texture %v", len(sheet.Frames), rect, bounds)
			return false
		}

		d := defaultFrameDuration
		if ms := v.Get("duration"); ms.Exists() && ms.Int() > 0 {
			d = time.Duration(ms.Int()) * time.Millisecond
		}
		sheet.Frames = append(sheet.Frames, Frame{Rect: rect, Duration: d})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	if len(sheet.Frames) == 0 {
		return nil, schemaMismatch(key, "sheet has no frames")
	}

	for _, t := range doc.Get("meta.frameTags").Array() {
		tag := Tag{
			Name:      t.Get("name").String(),
			From:      int(t.Get("from").Int()),
			To:        int(t.Get("to").Int()),
			Direction: Direction(t.Get("direction").String()),
		}
		if tag.Direction == "" {
			tag.Direction = DirectionForward
		}
		if tag.Name == "" || tag.From < 0 || tag.To >= len(sheet.Frames) || tag.From > tag.To {
			return nil, schemaMismatch(key, "invalid frame tag %q [%d..%d]", tag.Name, tag.From, tag.To)
		}
		switch tag.Direction {
		case DirectionForward, DirectionReverse, DirectionPingPong:
		default:
			return nil, schemaMismatch(key, "tag %q has unknown direction %q", tag.Name, tag.Direction)
		}
		sheet.Tags[tag.Name] = tag
	}

	return sheet, nil
}

// Sprite is a playback cursor over a shared SpriteSheet. Copies made with
// Clone share the sheet but advance independently.
type Sprite struct {
	sheet   *SpriteSheet
	tag     Tag
	frame   int
	step    int
	elapsed time.Duration
	playing bool
	looping bool
}

// NewSprite returns a stopped sprite showing the first frame of sheet.
func NewSprite(sheet *SpriteSheet) *Sprite {
	return &Sprite{sheet: sheet, step: 1}
}

// Clone returns an independent cursor over the same sheet.
func (s *Sprite) Clone() *Sprite {
	c := *s
	return &c
}

// Sheet returns the shared sheet.
func (s *Sprite) Sheet() *SpriteSheet { return s.sheet }

// Play runs the named tag once and stops on its last frame.
func (s *Sprite) Play(name string) error { return s.start(name, false) }

// PlayAndLoop runs the named tag repeatedly.
func (s *Sprite) PlayAndLoop(name string) error { return s.start(name, true) }

// Stop freezes playback on the current frame.
func (s *Sprite) Stop() { s.playing = false }

// IsPlaying reports whether the cursor is advancing.
func (s *Sprite) IsPlaying() bool { return s.playing }

// IsLooping reports whether the current animation loops.
func (s *Sprite) IsLooping() bool { return s.looping }

// Animation returns the name of the current tag.
func (s *Sprite) Animation() string { return s.tag.Name }

// FrameIndex returns the absolute index of the frame being shown.
func (s *Sprite) FrameIndex() int { return s.frame }

// Frame returns the frame being shown.
func (s *Sprite) Frame() Frame { return s.sheet.Frames[s.frame] }

// Advance moves playback forward by delta.
func (s *Sprite) Advance(delta time.Duration) {
	if !s.playing || delta <= 0 {
		return
	}
	s.elapsed += delta
	for s.playing {
		d := s.sheet.Frames[s.frame].Duration
		if s.elapsed < d {
			return
		}
		s.elapsed -= d
		s.next()
	}
}

func (s *Sprite) start(name string, loop bool) error {
	tag, ok := s.sheet.Tags[name]
	if !ok {
		return fmt.Errorf("%w: %q in %s", ErrUnknownTag, name, s.sheet.Key)
	}
	s.tag = tag
	s.looping = loop
	s.playing = true
	s.elapsed = 0
	if tag.Direction == DirectionReverse {
		s.frame, s.step = tag.To, -1
	} else {
		s.frame, s.step = tag.From, 1
	}
	return nil
}

func (s *Sprite) next() {
	t := s.tag
	n := s.frame + s.step

	switch t.Direction {
	case DirectionPingPong:
		if n > t.To {
			s.step = -1
			n = s.frame + s.step
			if n < t.From {
				n = t.From
			}
		} else if n < t.From {
			if !s.looping {
				s.finish(t.From)
				return
			}
			s.step = 1
			n = s.frame + s.step
			if n > t.To {
				n = t.To
			}
		}
	case DirectionReverse:
		if n < t.From {
			if !s.looping {
				s.finish(t.From)
				return
			}
			n = t.To
		}
	default:
		if n > t.To {
			if !s.looping {
				s.finish(t.To)
				return
			}
			n = t.From
		}
	}
	s.frame = n
}

func (s *Sprite) finish(frame int) {
	s.frame = frame
	s.playing = false
	s.elapsed = 0
}
