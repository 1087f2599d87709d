package main

import (
	"time"

	"github.com/MRamiBalles/emerald/internal/assets"
	"github.com/MRamiBalles/emerald/internal/engine"
	"github.com/MRamiBalles/emerald/internal/input"
	"github.com/MRamiBalles/emerald/internal/platform/logger"
	"github.com/MRamiBalles/emerald/internal/render"
)

const (
	heroSheet  = "sprites/hero.png"
	heroMeta   = "sprites/hero.json"
	jumpSound  = "sfx/jump.wav"
	musicTrack = "music/theme.ogg"
	savedState = "demo/position.yaml"

	heroStartX = 64.0
	heroStartY = 64.0
	heroSpeed  = 120.0 // pixels per second
)

// demo is a small game exercising the facade: a sprite steered with the
// keyboard or mouse, a sound effect, looping music and a save file.
type demo struct {
	layer  *render.Layer
	hero   *render.Entity
	muted  bool
	noJump bool
}

func newDemo() *demo {
	return &demo{layer: render.NewLayer()}
}

func (d *demo) Initialize(f *engine.Facade) error {
	log := f.Logger()
	d.hero = d.layer.Spawn(&render.Entity{X: heroStartX, Y: heroStartY, Z: 1})

	sprite, err := f.Loader().SpriteSheet(heroSheet, heroMeta)
	switch {
	case err == nil:
		d.hero.Sprite = sprite
		if err := sprite.PlayAndLoop("idle"); err != nil {
			log.Warn("Hero has no idle animation", logger.WithField("error", err))
		}
	case assets.IsNotFound(err):
		log.Warn("Hero sprite missing, running without it", logger.WithField("path", heroSheet))
	default:
		return err
	}

	if err := f.Audio().PlayLoop(musicTrack, 0.4); err != nil {
		if !assets.IsNotFound(err) {
			return err
		}
		log.Warn("No music track", logger.WithField("path", musicTrack))
	}
	return nil
}

func (d *demo) Update(f *engine.Facade) error {
	p := f.Profiler("demo.update")
	defer p.Finish()

	in := f.Input()
	delta := f.Delta()

	if in.IsKeyJustPressed(input.KeyEscape) {
		return f.Quit()
	}

	dx, dy := 0.0, 0.0
	if in.IsKeyPressed(input.KeyLeft) || in.IsKeyPressed(input.KeyA) {
		dx--
	}
	if in.IsKeyPressed(input.KeyRight) || in.IsKeyPressed(input.KeyD) {
		dx++
	}
	if in.IsKeyPressed(input.KeyDown) || in.IsKeyPressed(input.KeyS) {
		dy--
	}
	if in.IsKeyPressed(input.KeyUp) || in.IsKeyPressed(input.KeyW) {
		dy++
	}
	d.hero.X += dx * heroSpeed * delta
	d.hero.Y += dy * heroSpeed * delta

	if in.IsMouseButtonJustPressed(input.MouseButtonLeft) {
		pos := in.MousePosition()
		d.hero.X, d.hero.Y = pos.X, pos.Y
	}

	if in.IsKeyJustPressed(input.KeySpace) && !d.noJump {
		if err := f.Audio().Play(jumpSound, 0.8); err != nil {
			if !assets.IsNotFound(err) {
				return err
			}
			f.Logger().Warn("Jump sound missing, disabling it", logger.WithField("path", jumpSound))
			d.noJump = true
		}
	}

	if in.IsKeyJustPressed(input.KeyM) {
		d.muted = !d.muted
		vol := 1.0
		if d.muted {
			vol = 0
		}
		if err := f.Audio().SetVolume(vol); err != nil {
			return err
		}
	}

	if in.IsKeyJustPressed(input.KeyF5) {
		if err := d.save(f); err != nil {
			f.Logger().Error("Save failed", logger.WithField("error", err))
		}
	}

	render.AnimateSprites(d.layer, time.Duration(delta*float64(time.Second)))
	return nil
}

func (d *demo) Draw(f *engine.Facade) error {
	p := f.Profiler("demo.draw")
	defer p.Finish()

	g := f.Graphics()
	if err := g.Begin(); err != nil {
		return err
	}
	if err := g.DrawWorld(d.layer); err != nil {
		return err
	}
	return g.Render()
}

func (d *demo) save(f *engine.Facade) error {
	state := struct {
		X float64 `yaml:"x"`
		Y float64 `yaml:"y"`
	}{d.hero.X, d.hero.Y}
	if err := f.Writer().Save(savedState, state); err != nil {
		return err
	}
	f.Logger().Event("SAVE", "demo", "position written to "+savedState)
	return nil
}
