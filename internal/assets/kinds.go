package assets

import (
	"bytes"
	"image"

	"golang.org/x/image/font/opentype"
)

// Kind is the decoded form a record holds.
type Kind string

const (
	KindTexture     Kind = "TEXTURE"
	KindSound       Kind = "SOUND"
	KindBytes       Kind = "BYTES"
	KindFont        Kind = "FONT"
	KindSpriteSheet Kind = "SPRITE_SHEET"
)

// Record is one cached asset. Payload is *Texture, *Sound, []byte, *Font or
// *SpriteSheet depending on Kind.
type Record struct {
	Key     string
	Kind    Kind
	Payload any
}

// Texture is a decoded image. Rendering backends upload it to the GPU
// lazily and key their handles by the *Texture pointer.
type Texture struct {
	Key   string
	Image image.Image
}

// Size returns the texture dimensions in pixels.
func (t *Texture) Size() (int, int) {
	b := t.Image.Bounds()
	return b.Dx(), b.Dy()
}

// SoundFormat is the container format of a sound file.
type SoundFormat string

const (
	SoundWAV SoundFormat = "wav"
	SoundOGG SoundFormat = "ogg"
	SoundMP3 SoundFormat = "mp3"
)

// Sound holds encoded audio. Codec work is left to the audio backend.
type Sound struct {
	Key    string
	Format SoundFormat
	Data   []byte
}

// Clone returns a copy whose Data does not alias the cached sound.
func (s *Sound) Clone() *Sound {
	c := *s
	c.Data = bytes.Clone(s.Data)
	return &c
}

// Font is a parsed OpenType/TrueType font.
type Font struct {
	Key    string
	Parsed *opentype.Font
}
