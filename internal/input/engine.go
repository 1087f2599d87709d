package input

// Engine is the per-frame input state machine.
//
// It is not safe for concurrent use; the owning game engine mutates it
// from the platform callback thread only.
type Engine struct {
	keysDown     map[Key]struct{}
	keysPressed  map[Key]struct{}
	keysReleased map[Key]struct{}

	buttonsDown     map[MouseButton]struct{}
	buttonsPressed  map[MouseButton]struct{}
	buttonsReleased map[MouseButton]struct{}

	mouse   Point
	touches map[TouchID]Touch

	touchesToMouse bool
	mouseToTouch   bool
}

// NewEngine creates an input engine with no keys held.
func NewEngine() *Engine {
	return &Engine{
		keysDown:        make(map[Key]struct{}),
		keysPressed:     make(map[Key]struct{}),
		keysReleased:    make(map[Key]struct{}),
		buttonsDown:     make(map[MouseButton]struct{}),
		buttonsPressed:  make(map[MouseButton]struct{}),
		buttonsReleased: make(map[MouseButton]struct{}),
		touches:         make(map[TouchID]Touch),
	}
}

// SetTouchesToMouse mirrors touch events into synthetic left-button mouse events.
func (e *Engine) SetTouchesToMouse(enabled bool) {
	e.touchesToMouse = enabled
}

// SetMouseToTouch mirrors left-button mouse events into synthetic touches.
func (e *Engine) SetMouseToTouch(enabled bool) {
	e.mouseToTouch = enabled
}

// TouchesToMouse reports whether touch events are mirrored to the mouse.
func (e *Engine) TouchesToMouse() bool { return e.touchesToMouse }

// MouseToTouch reports whether mouse events are mirrored to touches.
func (e *Engine) MouseToTouch() bool { return e.mouseToTouch }

// SetKeyDown marks key as held. A key only counts as pressed this frame on
// the transition from up to down, so OS key repeats never re-trigger it.
func (e *Engine) SetKeyDown(key Key, repeat bool) {
	if _, held := e.keysDown[key]; !held {
		e.keysPressed[key] = struct{}{}
	}
	e.keysDown[key] = struct{}{}
}

// SetKeyUp releases key.
func (e *Engine) SetKeyUp(key Key) {
	delete(e.keysDown, key)
	e.keysReleased[key] = struct{}{}
}

// SetMousePosition records the cursor position.
func (e *Engine) SetMousePosition(x, y float64) {
	e.mouse = Point{X: x, Y: y}
	if e.mouseToTouch {
		if _, held := e.buttonsDown[MouseButtonLeft]; held {
			e.setTouch(TouchMoved, MouseTouchID, x, y)
		}
	}
}

// SetMouseDown presses button at (x, y).
func (e *Engine) SetMouseDown(button MouseButton, x, y float64) {
	e.setMouseDown(button, x, y)
	if e.mouseToTouch && button == MouseButtonLeft {
		e.setTouch(TouchStarted, MouseTouchID, x, y)
	}
}

// SetMouseUp releases button at (x, y).
func (e *Engine) SetMouseUp(button MouseButton, x, y float64) {
	e.setMouseUp(button, x, y)
	if e.mouseToTouch && button == MouseButtonLeft {
		e.setTouch(TouchEnded, MouseTouchID, x, y)
	}
}

// TouchEvent records the latest phase and position of touch id.
func (e *Engine) TouchEvent(phase TouchPhase, id TouchID, x, y float64) {
	e.setTouch(phase, id, x, y)
	if !e.touchesToMouse {
		return
	}

	switch phase {
	case TouchStarted:
		e.setMouseDown(MouseButtonLeft, x, y)
	case TouchMoved, TouchStationary:
		e.mouse = Point{X: x, Y: y}
	case TouchEnded, TouchCancelled:
		e.setMouseUp(MouseButtonLeft, x, y)
	}
}

// Rollover clears the transient pressed/released sets and retires finished
// touches. It must run exactly once per frame, after the update callback.
func (e *Engine) Rollover() {
	clear(e.keysPressed)
	clear(e.keysReleased)
	clear(e.buttonsPressed)
	clear(e.buttonsReleased)

	for id, t := range e.touches {
		switch t.Phase {
		case TouchEnded, TouchCancelled:
			delete(e.touches, id)
		default:
			t.Phase = TouchStationary
			e.touches[id] = t
		}
	}
}

// The unexported setters never project into the other channel, which keeps
// the touch/mouse mirrors one-directional.

func (e *Engine) setMouseDown(button MouseButton, x, y float64) {
	e.mouse = Point{X: x, Y: y}
	if _, held := e.buttonsDown[button]; !held {
		e.buttonsPressed[button] = struct{}{}
	}
	e.buttonsDown[button] = struct{}{}
}

func (e *Engine) setMouseUp(button MouseButton, x, y float64) {
	e.mouse = Point{X: x, Y: y}
	delete(e.buttonsDown, button)
	e.buttonsReleased[button] = struct{}{}
}

func (e *Engine) setTouch(phase TouchPhase, id TouchID, x, y float64) {
	e.touches[id] = Touch{ID: id, Position: Point{X: x, Y: y}, Phase: phase}
}
