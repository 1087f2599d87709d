package engine

import (
	"github.com/MRamiBalles/emerald/internal/assets"
	"github.com/MRamiBalles/emerald/internal/audio"
	"github.com/MRamiBalles/emerald/internal/render"
)

// GraphicsHandler issues draw calls for the current frame.
type GraphicsHandler struct {
	f *Facade
}

func (g *GraphicsHandler) check() error {
	if err := g.f.check(); err != nil {
		return err
	}
	if g.f.phase != phaseDraw {
		return ErrNotDrawPhase
	}
	return nil
}

// Begin starts a frame.
func (g *GraphicsHandler) Begin() error {
	if err := g.check(); err != nil {
		return err
	}
	return render.Wrap("begin", g.f.engine.renderer.Begin(g.f.engine.platform))
}

// DrawWorld queues every drawable in world.
func (g *GraphicsHandler) DrawWorld(world render.World) error {
	if err := g.check(); err != nil {
		return err
	}
	return render.Wrap("draw_world", g.f.engine.renderer.DrawWorld(world))
}

// Draw queues a single drawable.
func (g *GraphicsHandler) Draw(d render.Drawable) error {
	if err := g.check(); err != nil {
		return err
	}
	return render.Wrap("draw", g.f.engine.renderer.Draw(d))
}

// Render flushes the queued drawables to the screen.
func (g *GraphicsHandler) Render() error {
	if err := g.check(); err != nil {
		return err
	}
	return render.Wrap("render", g.f.engine.renderer.Render(g.f.engine.platform))
}

// ScreenSize returns the drawable size in physical pixels.
func (g *GraphicsHandler) ScreenSize() (w, h float64) { return g.f.ScreenSize() }

// Loader loads assets through the engine's cache.
type Loader struct {
	f *Facade
}

func (l *Loader) store() (*assets.Store, error) {
	if err := l.f.check(); err != nil {
		return nil, err
	}
	return l.f.engine.assets, nil
}

// Texture loads an image.
func (l *Loader) Texture(path string) (*assets.Texture, error) {
	s, err := l.store()
	if err != nil {
		return nil, err
	}
	return s.Texture(path)
}

// Sound loads an encoded sound. The result is a copy; play sounds by path
// through Audio.
func (l *Loader) Sound(path string) (*assets.Sound, error) {
	s, err := l.store()
	if err != nil {
		return nil, err
	}
	snd, err := s.Sound(path)
	if err != nil {
		return nil, err
	}
	return snd.Clone(), nil
}

// Bytes loads a raw file. Callers own the returned slice.
func (l *Loader) Bytes(path string) ([]byte, error) {
	s, err := l.store()
	if err != nil {
		return nil, err
	}
	return s.Bytes(path)
}

// String loads a raw file as text.
func (l *Loader) String(path string) (string, error) {
	b, err := l.Bytes(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Font loads an OpenType or TrueType font.
func (l *Loader) Font(path string) (*assets.Font, error) {
	s, err := l.store()
	if err != nil {
		return nil, err
	}
	return s.Font(path)
}

// SpriteSheet loads an Aseprite export and returns a fresh sprite over it.
// Sprites from the same files share the sheet but not playback state.
func (l *Loader) SpriteSheet(texturePath, metadataPath string) (*assets.Sprite, error) {
	s, err := l.store()
	if err != nil {
		return nil, err
	}
	sheet, err := s.SpriteSheet(texturePath, metadataPath)
	if err != nil {
		return nil, err
	}
	return assets.NewSprite(sheet), nil
}

// AudioHandler queues playback. Sounds are resolved through the asset cache
// and reach the backend after the update.
type AudioHandler struct {
	f *Facade
}

// Play plays path once at volume.
func (a *AudioHandler) Play(path string, volume float64) error {
	return a.play(path, audio.PlayOptions{Volume: volume})
}

// PlayLoop plays path until StopAll.
func (a *AudioHandler) PlayLoop(path string, volume float64) error {
	return a.play(path, audio.PlayOptions{Volume: volume, Loop: true})
}

func (a *AudioHandler) play(path string, opts audio.PlayOptions) error {
	if err := a.f.check(); err != nil {
		return err
	}
	snd, err := a.f.engine.assets.Sound(path)
	if err != nil {
		return err
	}
	a.f.engine.audio.Play(snd, opts)
	return nil
}

// StopAll stops every playing sound.
func (a *AudioHandler) StopAll() error {
	if err := a.f.check(); err != nil {
		return err
	}
	a.f.engine.audio.StopAll()
	return nil
}

// SetVolume sets the master volume in [0, 1].
func (a *AudioHandler) SetVolume(v float64) error {
	if err := a.f.check(); err != nil {
		return err
	}
	a.f.engine.audio.SetVolume(v)
	return nil
}

// Volume returns the master volume.
func (a *AudioHandler) Volume() float64 { return a.f.engine.audio.Volume() }
