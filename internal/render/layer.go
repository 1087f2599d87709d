package render

import (
	"sort"
	"time"

	"github.com/MRamiBalles/emerald/internal/assets"
)

// Entity is a positioned texture or animated sprite in a Layer.
type Entity struct {
	Texture *assets.Texture
	Sprite  *assets.Sprite
	X, Y    float64
	Z       int
	Hidden  bool
}

// Layer is a slice-backed World for games that do not bring their own
// entity store.
type Layer struct {
	entities []*Entity
}

// NewLayer creates an empty layer.
func NewLayer() *Layer {
	return &Layer{}
}

// Spawn adds e and returns it for further mutation.
func (l *Layer) Spawn(e *Entity) *Entity {
	l.entities = append(l.entities, e)
	return e
}

// Despawn removes e. It reports whether e was present.
func (l *Layer) Despawn(e *Entity) bool {
	for i, cur := range l.entities {
		if cur == e {
			l.entities = append(l.entities[:i], l.entities[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of entities.
func (l *Layer) Len() int { return len(l.entities) }

// Each calls fn for every entity in spawn order.
func (l *Layer) Each(fn func(*Entity)) {
	for _, e := range l.entities {
		fn(e)
	}
}

// AppendDrawables appends visible entities ordered by Z, stable in spawn order.
func (l *Layer) AppendDrawables(dst []Drawable) []Drawable {
	start := len(dst)
	for _, e := range l.entities {
		if e.Hidden {
			continue
		}
		switch {
		case e.Sprite != nil:
			dst = append(dst, Drawable{
				Texture: e.Sprite.Sheet().Texture,
				Source:  e.Sprite.Frame().Rect,
				X:       e.X,
				Y:       e.Y,
				Z:       e.Z,
			})
		case e.Texture != nil:
			dst = append(dst, Drawable{Texture: e.Texture, X: e.X, Y: e.Y, Z: e.Z})
		}
	}
	added := dst[start:]
	sort.SliceStable(added, func(i, j int) bool { return added[i].Z < added[j].Z })
	return dst
}

// AnimateSprites advances every sprite in l by delta.
func AnimateSprites(l *Layer, delta time.Duration) {
	for _, e := range l.entities {
		if e.Sprite != nil {
			e.Sprite.Advance(delta)
		}
	}
}
