package engine

import (
	"time"

	"github.com/MRamiBalles/emerald/internal/input"
	"github.com/MRamiBalles/emerald/internal/render"
)

// Game is implemented by user code. Initialize runs once before any other
// callback; Update and Draw run every frame after that.
type Game interface {
	Initialize(f *Facade) error
	Update(f *Facade) error
	Draw(f *Facade) error
}

// Platform is the window and GPU context hosting the engine. It calls the
// engine's OnFrameUpdate, OnFrameDraw and input methods on its own schedule.
type Platform interface {
	render.Target
	Now() time.Time
	CommitFrame() error
	Quit()
}

// FrameStats describes one completed update.
type FrameStats struct {
	Frame uint64  `json:"frame"`
	Delta float64 `json:"delta"`
	FPS   float64 `json:"fps"`
}

// FrameObserver is told about every completed update.
type FrameObserver func(FrameStats)

// Recorder receives everything needed to reproduce a session: raw platform
// input events and the delta of each update.
type Recorder interface {
	RecordInput(ev input.Event)
	RecordFrame(delta float64)
}
