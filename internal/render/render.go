// Package render defines the contract between the engine and a rendering
// backend, plus the minimal world types the backend consumes.
package render

import (
	"errors"
	"fmt"
	"image"

	"github.com/MRamiBalles/emerald/internal/assets"
)

// ErrNoFrame is returned when drawing outside a Begin/Render pair.
var ErrNoFrame = errors.New("no frame in progress")

// RenderError wraps a backend failure with the operation that caused it.
// The engine propagates these without retrying.
type RenderError struct {
	Op  string
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Op, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Wrap returns err as a *RenderError for op, or nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var re *RenderError
	if errors.As(err, &re) {
		return err
	}
	return &RenderError{Op: op, Err: err}
}

// Target is the part of the platform a backend needs while drawing.
type Target interface {
	ScreenSize() (w, h float64)
	DPIScale() float64
}

// Drawable is one textured quad.
type Drawable struct {
	Texture *assets.Texture
	// Source selects a sub-rectangle of Texture; the zero value draws all of it.
	Source image.Rectangle
	X, Y   float64
	Scale  float64
	Z      int
}

// SourceRect returns the region of the texture to draw.
func (d Drawable) SourceRect() image.Rectangle {
	if d.Source.Empty() {
		return d.Texture.Image.Bounds()
	}
	return d.Source
}

// World is anything that can enumerate drawables. The engine treats it as opaque.
type World interface {
	AppendDrawables(dst []Drawable) []Drawable
}

// Engine is a rendering backend.
//
// PreDraw and PostDraw bracket every draw callback; Begin, DrawWorld, Draw
// and Render are driven by game code through the graphics handle.
type Engine interface {
	PreDraw(target Target, store *assets.Store) error
	Begin(target Target) error
	DrawWorld(world World) error
	Draw(d Drawable) error
	Render(target Target) error
	PostDraw(target Target, store *assets.Store) error
}
