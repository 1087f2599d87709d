// Package ebitenhost runs the engine inside an Ebitengine window. It is
// the only package that links against the GPU and audio drivers.
package ebitenhost

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/MRamiBalles/emerald/internal/engine"
	"github.com/MRamiBalles/emerald/internal/input"
	"github.com/MRamiBalles/emerald/internal/platform/config"
)

// ErrNotAttached is returned by Run when no engine has been attached.
var ErrNotAttached = errors.New("ebitenhost: no engine attached")

// Host adapts an *engine.Engine to ebiten.Game and serves as its Platform.
//
// Construct the Host first, pass it to engine.New, then Attach the result.
type Host struct {
	title         string
	width, height int

	engine   *engine.Engine
	renderer *Renderer

	keys    []ebiten.Key
	touchID []ebiten.TouchID
	touches map[ebiten.TouchID][2]int
	mouseX  int
	mouseY  int

	drawErr error
	quit    atomic.Bool
}

// New creates a host sized from settings.
func New(settings config.Settings) *Host {
	return &Host{
		title:    settings.Title,
		width:    settings.Render.Width,
		height:   settings.Render.Height,
		renderer: NewRenderer(),
		touches:  make(map[ebiten.TouchID][2]int),
		mouseX:   -1,
		mouseY:   -1,
	}
}

// Attach binds the engine driven by this host.
func (h *Host) Attach(e *engine.Engine) { h.engine = e }

// Renderer returns the backend to hand to engine.Options.
func (h *Host) Renderer() *Renderer { return h.renderer }

// Run opens the window and blocks until the game quits or fails.
func (h *Host) Run() error {
	if h.engine == nil {
		return ErrNotAttached
	}
	ebiten.SetWindowTitle(h.title)
	ebiten.SetWindowSize(h.width, h.height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(h)
}

// Platform

func (h *Host) ScreenSize() (float64, float64) { return float64(h.width), float64(h.height) }

func (h *Host) DPIScale() float64 {
	if m := ebiten.Monitor(); m != nil {
		return m.DeviceScaleFactor()
	}
	return 1
}

func (h *Host) Now() time.Time { return time.Now() }

// CommitFrame is a no-op: Ebitengine presents the screen after Draw returns.
func (h *Host) CommitFrame() error { return nil }

// Quit may be called from any goroutine; the window closes on the next update.
func (h *Host) Quit() { h.quit.Store(true) }

// ebiten.Game

func (h *Host) Update() error {
	if h.drawErr != nil {
		return h.drawErr
	}
	if h.quit.Load() {
		return ebiten.Termination
	}
	if err := h.pollInput(); err != nil {
		return err
	}
	if err := h.engine.OnFrameUpdate(); err != nil {
		return err
	}
	if h.quit.Load() {
		return ebiten.Termination
	}
	return nil
}

// Draw cannot return an error, so a failure is held and surfaced by the
// next Update.
func (h *Host) Draw(screen *ebiten.Image) {
	if h.drawErr != nil {
		return
	}
	h.renderer.setScreen(screen)
	defer h.renderer.setScreen(nil)
	h.drawErr = h.engine.OnFrameDraw()
}

func (h *Host) Layout(_, _ int) (int, int) { return h.width, h.height }

func (h *Host) pollInput() error {
	var errs []error
	h.keys = inpututil.AppendJustPressedKeys(h.keys[:0])
	for _, k := range h.keys {
		if key, ok := keyMap[k]; ok {
			errs = append(errs, h.engine.OnKeyDown(key, false))
		}
	}
	h.keys = inpututil.AppendJustReleasedKeys(h.keys[:0])
	for _, k := range h.keys {
		if key, ok := keyMap[k]; ok {
			errs = append(errs, h.engine.OnKeyUp(key))
		}
	}

	x, y := ebiten.CursorPosition()
	if x != h.mouseX || y != h.mouseY {
		h.mouseX, h.mouseY = x, y
		errs = append(errs, h.engine.OnMouseMove(float64(x), float64(y)))
	}
	for _, b := range buttonMap {
		if inpututil.IsMouseButtonJustPressed(b.from) {
			errs = append(errs, h.engine.OnMouseDown(b.to, float64(x), float64(y)))
		}
		if inpututil.IsMouseButtonJustReleased(b.from) {
			errs = append(errs, h.engine.OnMouseUp(b.to, float64(x), float64(y)))
		}
	}

	errs = append(errs, h.pollTouches())
	return errors.Join(errs...)
}

func (h *Host) pollTouches() error {
	var errs []error
	h.touchID = ebiten.AppendTouchIDs(h.touchID[:0])
	seen := make(map[ebiten.TouchID]bool, len(h.touchID))
	for _, id := range h.touchID {
		seen[id] = true
		x, y := ebiten.TouchPosition(id)
		pos := [2]int{x, y}
		prev, known := h.touches[id]
		h.touches[id] = pos
		switch {
		case !known:
			errs = append(errs, h.engine.OnTouch(input.TouchStarted, input.TouchID(id), float64(x), float64(y)))
		case prev != pos:
			errs = append(errs, h.engine.OnTouch(input.TouchMoved, input.TouchID(id), float64(x), float64(y)))
		}
	}
	for id, pos := range h.touches {
		if seen[id] {
			continue
		}
		delete(h.touches, id)
		errs = append(errs, h.engine.OnTouch(input.TouchEnded, input.TouchID(id), float64(pos[0]), float64(pos[1])))
	}
	return errors.Join(errs...)
}
