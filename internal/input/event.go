package input

import "fmt"

// EventKind names a platform input event.
type EventKind string

const (
	EventKeyDown   EventKind = "KEY_DOWN"
	EventKeyUp     EventKind = "KEY_UP"
	EventMouseMove EventKind = "MOUSE_MOVE"
	EventMouseDown EventKind = "MOUSE_DOWN"
	EventMouseUp   EventKind = "MOUSE_UP"
	EventTouch     EventKind = "TOUCH"
)

// Event is one platform input event in engine coordinates. Only the fields
// relevant to Kind are set.
type Event struct {
	Kind   EventKind   `json:"kind"`
	Key    Key         `json:"key,omitempty"`
	Repeat bool        `json:"repeat,omitempty"`
	Button MouseButton `json:"button,omitempty"`
	Touch  TouchID     `json:"touch,omitempty"`
	Phase  TouchPhase  `json:"phase,omitempty"`
	X      float64     `json:"x,omitempty"`
	Y      float64     `json:"y,omitempty"`
}

// HasPosition reports whether the event carries coordinates.
func (ev Event) HasPosition() bool {
	switch ev.Kind {
	case EventMouseMove, EventMouseDown, EventMouseUp, EventTouch:
		return true
	}
	return false
}

// Apply feeds ev into the state machine.
func (e *Engine) Apply(ev Event) error {
	switch ev.Kind {
	case EventKeyDown:
		e.SetKeyDown(ev.Key, ev.Repeat)
	case EventKeyUp:
		e.SetKeyUp(ev.Key)
	case EventMouseMove:
		e.SetMousePosition(ev.X, ev.Y)
	case EventMouseDown:
		e.SetMouseDown(ev.Button, ev.X, ev.Y)
	case EventMouseUp:
		e.SetMouseUp(ev.Button, ev.X, ev.Y)
	case EventTouch:
		e.TouchEvent(ev.Phase, ev.Touch, ev.X, ev.Y)
	default:
		return fmt.Errorf("unknown input event kind %q", ev.Kind)
	}
	return nil
}
