package engine

import (
	"time"

	"github.com/MRamiBalles/emerald/internal/assets"
	"github.com/MRamiBalles/emerald/internal/input"
	"github.com/MRamiBalles/emerald/internal/platform/logger"
	"github.com/MRamiBalles/emerald/internal/profiling"
)

type phase int

const (
	phaseInit phase = iota
	phaseUpdate
	phaseDraw
)

func (p phase) String() string {
	switch p {
	case phaseInit:
		return "initialize"
	case phaseUpdate:
		return "update"
	case phaseDraw:
		return "draw"
	}
	return "unknown"
}

// Facade is the access gate handed to one game callback. It and every handle
// obtained from it expire when the callback returns; keep neither.
type Facade struct {
	engine *Engine
	phase  phase
	delta  float64
	fps    float64
	live   bool
}

// newFacade snapshots delta and fps. Initialize sees zero for both.
func (e *Engine) newFacade(p phase, delta float64) *Facade {
	fps := 0.0
	if p != phaseInit {
		fps = e.clock.FPS()
	}
	return &Facade{engine: e, phase: p, delta: delta, fps: fps, live: true}
}

func (f *Facade) expire() { f.live = false }

func (f *Facade) check() error {
	if !f.live {
		return ErrFacadeExpired
	}
	return nil
}

// Delta returns the seconds since the previous update.
func (f *Facade) Delta() float64 { return f.delta }

// SetDelta overrides Delta for the rest of this callback. This breaks normal
// timing and is meant for deterministic tests and fixed-step games.
func (f *Facade) SetDelta(d float64) { f.delta = d }

// FPS returns the smoothed frame rate.
func (f *Facade) FPS() float64 { return f.fps }

// Now returns the platform's current time.
func (f *Facade) Now() time.Time { return f.engine.platform.Now() }

// ScreenSize returns the drawable size in physical pixels.
func (f *Facade) ScreenSize() (w, h float64) {
	w, h = f.engine.platform.ScreenSize()
	dpi := f.engine.platform.DPIScale()
	return w * dpi, h * dpi
}

// Graphics returns the draw handle. Its methods fail outside Draw.
func (f *Facade) Graphics() *GraphicsHandler { return &GraphicsHandler{f: f} }

// Loader returns the asset loading handle.
func (f *Facade) Loader() *Loader { return &Loader{f: f} }

// Writer returns a writer bound to the current user-data root.
func (f *Facade) Writer() *assets.Writer { return f.engine.assets.NewWriter() }

// Audio returns the playback handle.
func (f *Facade) Audio() *AudioHandler { return &AudioHandler{f: f} }

// Logger returns the engine's logger. Messages appear after the update.
func (f *Facade) Logger() *logger.Logger { return f.engine.logger }

// Input returns a read view of this frame's input state.
func (f *Facade) Input() input.Handler { return input.NewHandler(f.engine.input) }

// Profiler opens a timing scope named name. Finish it, usually with defer,
// to record the elapsed time.
func (f *Facade) Profiler(name string) *profiling.Profiler {
	now := f.engine.platform.Now
	return f.engine.profiles.Begin(name, now(), now)
}

// SetAssetRoot changes where later loads read from.
func (f *Facade) SetAssetRoot(root string) error {
	if err := f.check(); err != nil {
		return err
	}
	f.engine.assets.SetAssetRoot(root)
	return nil
}

// SetUserDataRoot changes where later writers save to.
func (f *Facade) SetUserDataRoot(root string) error {
	if err := f.check(); err != nil {
		return err
	}
	f.engine.assets.SetUserDataRoot(root)
	return nil
}

// AssetRoot returns the asset folder root.
func (f *Facade) AssetRoot() string { return f.engine.assets.AssetRoot() }

// UserDataRoot returns the user-data folder root.
func (f *Facade) UserDataRoot() string { return f.engine.assets.UserDataRoot() }

// TouchesToMouse makes every touch also register as a left mouse button event.
func (f *Facade) TouchesToMouse(enabled bool) error {
	if err := f.check(); err != nil {
		return err
	}
	f.engine.input.SetTouchesToMouse(enabled)
	return nil
}

// MouseToTouch makes left mouse button events also register as touches.
func (f *Facade) MouseToTouch(enabled bool) error {
	if err := f.check(); err != nil {
		return err
	}
	f.engine.input.SetMouseToTouch(enabled)
	return nil
}

// SetKeyPressed injects a synthetic key press or release.
func (f *Facade) SetKeyPressed(key input.Key, pressed bool) error {
	if err := f.check(); err != nil {
		return err
	}
	if pressed {
		f.engine.input.SetKeyDown(key, false)
	} else {
		f.engine.input.SetKeyUp(key)
	}
	return nil
}

// Quit stops audio and asks the platform to close. The current callback
// still runs to completion.
func (f *Facade) Quit() error {
	if err := f.check(); err != nil {
		return err
	}
	f.engine.Quit()
	return nil
}
