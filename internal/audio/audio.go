// Package audio queues sound commands issued by game code and hands them
// to a backend once per frame.
package audio

import (
	"errors"
	"fmt"

	"github.com/MRamiBalles/emerald/internal/assets"
)

// AudioError describes a command the backend rejected. Callers log these and
// carry on; a bad buffer never takes the frame down.
type AudioError struct {
	Op  string
	Key string
	Err error
}

func (e *AudioError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("audio %s %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("audio %s: %v", e.Op, e.Err)
}

func (e *AudioError) Unwrap() error { return e.Err }

// PlayOptions tunes a single playback.
type PlayOptions struct {
	Volume float64
	Loop   bool
}

// Backend performs audio work. Implementations may decode on their own threads.
type Backend interface {
	Play(sound *assets.Sound, opts PlayOptions) error
	StopAll() error
	SetVolume(volume float64) error
	Clear() error
}

type opKind int

const (
	opPlay opKind = iota
	opStopAll
	opVolume
)

type command struct {
	op     opKind
	sound  *assets.Sound
	opts   PlayOptions
	volume float64
}

// Engine buffers commands until PostUpdate.
type Engine struct {
	backend Backend
	queue   []command
	volume  float64
}

// NewEngine creates an engine over backend. A nil backend is replaced by Silent.
func NewEngine(backend Backend) *Engine {
	if backend == nil {
		backend = Silent{}
	}
	return &Engine{backend: backend, volume: 1}
}

// Play queues sound.
func (e *Engine) Play(sound *assets.Sound, opts PlayOptions) {
	e.queue = append(e.queue, command{op: opPlay, sound: sound, opts: opts})
}

// StopAll queues stopping every playing sound.
func (e *Engine) StopAll() {
	e.queue = append(e.queue, command{op: opStopAll})
}

// SetVolume queues a master volume change, clamped to [0, 1].
func (e *Engine) SetVolume(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	e.volume = v
	e.queue = append(e.queue, command{op: opVolume, volume: v})
}

// Volume returns the last requested master volume.
func (e *Engine) Volume() float64 { return e.volume }

// Pending returns the number of queued commands.
func (e *Engine) Pending() int { return len(e.queue) }

// PostUpdate flushes queued commands in order. Every command is attempted;
// failures are joined into the returned error.
func (e *Engine) PostUpdate() error {
	var errs []error
	for _, cmd := range e.queue {
		if err := e.apply(cmd); err != nil {
			errs = append(errs, err)
		}
	}
	e.queue = e.queue[:0]
	return errors.Join(errs...)
}

// Clear drops pending commands and silences the backend.
func (e *Engine) Clear() error {
	e.queue = e.queue[:0]
	if err := e.backend.Clear(); err != nil {
		return &AudioError{Op: "clear", Err: err}
	}
	return nil
}

func (e *Engine) apply(cmd command) error {
	switch cmd.op {
	case opPlay:
		if err := e.backend.Play(cmd.sound, cmd.opts); err != nil {
			return &AudioError{Op: "play", Key: cmd.sound.Key, Err: err}
		}
	case opStopAll:
		if err := e.backend.StopAll(); err != nil {
			return &AudioError{Op: "stop_all", Err: err}
		}
	case opVolume:
		if err := e.backend.SetVolume(cmd.volume); err != nil {
			return &AudioError{Op: "volume", Err: err}
		}
	}
	return nil
}

// Silent is a Backend that accepts everything and plays nothing.
type Silent struct{}

func (Silent) Play(*assets.Sound, PlayOptions) error { return nil }
func (Silent) StopAll() error                        { return nil }
func (Silent) SetVolume(float64) error               { return nil }
func (Silent) Clear() error                          { return nil }
