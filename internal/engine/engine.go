package engine

import (
	"fmt"
	"os"

	"github.com/MRamiBalles/emerald/internal/assets"
	"github.com/MRamiBalles/emerald/internal/audio"
	"github.com/MRamiBalles/emerald/internal/input"
	"github.com/MRamiBalles/emerald/internal/platform/config"
	"github.com/MRamiBalles/emerald/internal/platform/logger"
	"github.com/MRamiBalles/emerald/internal/profiling"
	"github.com/MRamiBalles/emerald/internal/render"
)

// Options supplies collaborators. Zero values fall back to a headless
// renderer, a silent audio backend and a stdout logger built from settings.
type Options struct {
	Renderer render.Engine
	Audio    audio.Backend
	Logger   *logger.Logger

	Recorder        Recorder
	AssetObserver   assets.Observer
	ProfileObserver profiling.Observer
	FrameObservers  []FrameObserver

	// Reloads delivers new settings; they take effect at the start of the
	// next update.
	Reloads <-chan config.Settings
}

// Engine is the central orchestrator. It owns every subsystem and drives
// the game through its callbacks.
type Engine struct {
	game     Game
	settings config.Settings
	platform Platform

	clock    *FrameClock
	assets   *assets.Store
	profiles *profiling.Cache
	input    *input.Engine
	audio    *audio.Engine
	renderer render.Engine
	logger   *logger.Logger

	recorder  Recorder
	observers []FrameObserver
	reloads   <-chan config.Settings

	frame     uint64
	lastDelta float64
	quitting  bool
}

// New builds every subsystem and runs game.Initialize with a zero-delta
// facade. Any failure is a *ConstructionError.
func New(game Game, settings config.Settings, platform Platform, opts Options) (*Engine, error) {
	if game == nil {
		return nil, &ConstructionError{Subsystem: "game", Err: fmt.Errorf("no game supplied")}
	}
	if platform == nil {
		return nil, &ConstructionError{Subsystem: "platform", Err: fmt.Errorf("no platform supplied")}
	}
	if err := settings.Validate(); err != nil {
		return nil, &ConstructionError{Subsystem: "settings", Err: err}
	}

	log := opts.Logger
	if log == nil {
		var err error
		log, err = logger.New(logger.Options{Level: settings.Log.Level, File: settings.Log.File})
		if err != nil {
			return nil, &ConstructionError{Subsystem: "logging", Err: err}
		}
	}
	// A logger opened here is closed again if construction fails.
	fail := func(subsystem string, err error) error {
		if opts.Logger == nil {
			_ = log.Close()
		}
		return &ConstructionError{Subsystem: subsystem, Err: err}
	}

	store, err := assets.NewStore(assets.Config{
		AssetRoot:    settings.AssetRoot,
		UserDataRoot: settings.UserDataRoot,
	})
	if err != nil {
		return nil, fail("assets", err)
	}
	store.SetObserver(opts.AssetObserver)

	in := input.NewEngine()
	in.SetTouchesToMouse(settings.Input.TouchesToMouse)
	in.SetMouseToTouch(settings.Input.MouseToTouch)

	profiles := profiling.NewCache()
	profiles.SetObserver(opts.ProfileObserver)

	renderer := opts.Renderer
	if renderer == nil {
		renderer = render.NewHeadless()
	}

	e := &Engine{
		game:      game,
		settings:  settings,
		platform:  platform,
		clock:     NewFrameClock(platform.Now()),
		assets:    store,
		profiles:  profiles,
		input:     in,
		audio:     audio.NewEngine(opts.Audio),
		renderer:  renderer,
		logger:    log,
		recorder:  opts.Recorder,
		observers: opts.FrameObservers,
		reloads:   opts.Reloads,
	}

	f := e.newFacade(phaseInit, 0)
	err = game.Initialize(f)
	f.expire()
	if err != nil {
		return nil, fail("game", err)
	}
	e.logger.Info("Engine initialized", logger.WithField("title", settings.Title))
	if err := e.logger.Update(); err != nil {
		return nil, fail("logging", err)
	}
	// Initialization time is not part of the first frame.
	e.clock.Mark(platform.Now())
	return e, nil
}

// OnFrameUpdate runs one update with the measured delta, or with the
// configured fixed delta when set.
func (e *Engine) OnFrameUpdate() error {
	e.applyReloads()
	delta := e.clock.Tick(e.platform.Now())
	if e.settings.FixedDelta > 0 {
		delta = e.settings.FixedDelta
	}
	return e.update(delta)
}

// Advance runs one update with an explicit delta, for replays and
// fixed-step drivers. The wall clock reference moves to now.
func (e *Engine) Advance(delta float64) error {
	e.applyReloads()
	e.clock.Mark(e.platform.Now())
	return e.update(delta)
}

func (e *Engine) update(delta float64) error {
	if delta < 0 {
		delta = 0
	}
	e.clock.Push(delta)
	e.frame++
	e.lastDelta = delta
	if e.recorder != nil {
		e.recorder.RecordFrame(delta)
	}

	f := e.newFacade(phaseUpdate, delta)
	gameErr := e.game.Update(f)
	f.expire()

	// Housekeeping order: logs, then input rollover, then audio.
	if err := e.logger.Update(); err != nil {
		return fmt.Errorf("frame %d: %w", e.frame, err)
	}
	e.input.Rollover()
	if err := e.audio.PostUpdate(); err != nil {
		e.logger.Warn("Audio playback skipped", logger.WithField("error", err))
	}

	stats := e.FrameStats()
	for _, obs := range e.observers {
		obs(stats)
	}

	if gameErr != nil {
		return fmt.Errorf("update frame %d: %w", e.frame, gameErr)
	}
	return nil
}

// OnFrameDraw renders the game. It may run any number of times between
// updates and never touches input or the frame clock.
func (e *Engine) OnFrameDraw() error {
	delta := e.clock.Peek(e.platform.Now())

	if err := e.renderer.PreDraw(e.platform, e.assets); err != nil {
		return render.Wrap("pre_draw", err)
	}

	f := e.newFacade(phaseDraw, delta)
	err := e.game.Draw(f)
	f.expire()
	if err != nil {
		return fmt.Errorf("draw: %w", err)
	}

	if err := e.platform.CommitFrame(); err != nil {
		return render.Wrap("commit_frame", err)
	}
	if err := e.renderer.PostDraw(e.platform, e.assets); err != nil {
		return render.Wrap("post_draw", err)
	}
	return nil
}

// OnInputEvent ingests a platform event given in platform coordinates
// (origin top-left). Positions are flipped so y grows upwards.
func (e *Engine) OnInputEvent(ev input.Event) error {
	if e.recorder != nil {
		e.recorder.RecordInput(ev)
	}
	if ev.HasPosition() {
		_, h := e.platform.ScreenSize()
		ev.Y = h - ev.Y
	}
	return e.input.Apply(ev)
}

// OnKeyDown forwards a key press.
func (e *Engine) OnKeyDown(key input.Key, repeat bool) error {
	return e.OnInputEvent(input.Event{Kind: input.EventKeyDown, Key: key, Repeat: repeat})
}

// OnKeyUp forwards a key release.
func (e *Engine) OnKeyUp(key input.Key) error {
	return e.OnInputEvent(input.Event{Kind: input.EventKeyUp, Key: key})
}

// OnMouseMove forwards a cursor move.
func (e *Engine) OnMouseMove(x, y float64) error {
	return e.OnInputEvent(input.Event{Kind: input.EventMouseMove, X: x, Y: y})
}

// OnMouseDown forwards a button press.
func (e *Engine) OnMouseDown(button input.MouseButton, x, y float64) error {
	return e.OnInputEvent(input.Event{Kind: input.EventMouseDown, Button: button, X: x, Y: y})
}

// OnMouseUp forwards a button release.
func (e *Engine) OnMouseUp(button input.MouseButton, x, y float64) error {
	return e.OnInputEvent(input.Event{Kind: input.EventMouseUp, Button: button, X: x, Y: y})
}

// OnTouch forwards a touch point change.
func (e *Engine) OnTouch(phase input.TouchPhase, id input.TouchID, x, y float64) error {
	return e.OnInputEvent(input.Event{Kind: input.EventTouch, Phase: phase, Touch: id, X: x, Y: y})
}

// Quit silences audio and asks the platform to shut down. Audio failures
// are logged, never returned.
func (e *Engine) Quit() {
	if e.quitting {
		return
	}
	e.quitting = true
	if err := e.audio.Clear(); err != nil {
		e.logger.Warn("Audio clear failed during quit", logger.WithField("error", err))
	}
	e.logger.Event("QUIT", "engine", "shutdown requested")
	if err := e.logger.Update(); err != nil {
		fmt.Fprintln(os.Stderr, "emerald: log flush failed during quit:", err)
	}
	e.platform.Quit()
}

// Quitting reports whether Quit has been requested.
func (e *Engine) Quitting() bool { return e.quitting }

// Close releases the logger's file, if any.
func (e *Engine) Close() error { return e.logger.Close() }

// FrameStats reports the most recent update.
func (e *Engine) FrameStats() FrameStats {
	return FrameStats{Frame: e.frame, Delta: e.lastDelta, FPS: e.clock.FPS()}
}

// FPS returns the smoothed frame rate.
func (e *Engine) FPS() float64 { return e.clock.FPS() }

// ProfileSnapshot returns statistics for every profiling scope.
func (e *Engine) ProfileSnapshot() []profiling.Stats { return e.profiles.Snapshot() }

// Settings returns the settings currently in force.
func (e *Engine) Settings() config.Settings { return e.settings }

// AddFrameObserver registers fn for every later update.
func (e *Engine) AddFrameObserver(fn FrameObserver) {
	e.observers = append(e.observers, fn)
}

// applyReloads adopts the runtime-tunable part of the newest settings.
func (e *Engine) applyReloads() {
	var next *config.Settings
drain:
	for e.reloads != nil {
		select {
		case s, ok := <-e.reloads:
			if !ok {
				e.reloads = nil
				break drain
			}
			next = &s
		default:
			break drain
		}
	}
	if next != nil {
		e.applySettings(*next)
	}
}

func (e *Engine) applySettings(s config.Settings) {
	if err := e.logger.SetLevel(s.Log.Level); err != nil {
		e.logger.Warn("Ignoring reloaded log level", logger.WithField("error", err))
	} else {
		e.settings.Log.Level = s.Log.Level
	}
	e.settings.Input = s.Input
	e.settings.FixedDelta = s.FixedDelta
	e.input.SetTouchesToMouse(s.Input.TouchesToMouse)
	e.input.SetMouseToTouch(s.Input.MouseToTouch)
	e.logger.Info("Settings reloaded",
		logger.WithField("log_level", e.settings.Log.Level),
		logger.WithField("fixed_delta", e.settings.FixedDelta))
}
