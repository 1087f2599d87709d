package input

import "sort"

// Handler is a read-only view over an Engine's current frame state.
type Handler struct {
	engine *Engine
}

// NewHandler wraps e.
func NewHandler(e *Engine) Handler {
	return Handler{engine: e}
}

// IsKeyPressed reports whether key is currently held.
func (h Handler) IsKeyPressed(key Key) bool {
	_, ok := h.engine.keysDown[key]
	return ok
}

// IsKeyJustPressed reports whether key went down during this frame.
func (h Handler) IsKeyJustPressed(key Key) bool {
	_, ok := h.engine.keysPressed[key]
	return ok
}

// IsKeyJustReleased reports whether key went up during this frame.
func (h Handler) IsKeyJustReleased(key Key) bool {
	_, ok := h.engine.keysReleased[key]
	return ok
}

// IsMouseButtonPressed reports whether button is currently held.
func (h Handler) IsMouseButtonPressed(button MouseButton) bool {
	_, ok := h.engine.buttonsDown[button]
	return ok
}

// IsMouseButtonJustPressed reports whether button went down during this frame.
func (h Handler) IsMouseButtonJustPressed(button MouseButton) bool {
	_, ok := h.engine.buttonsPressed[button]
	return ok
}

// IsMouseButtonJustReleased reports whether button went up during this frame.
func (h Handler) IsMouseButtonJustReleased(button MouseButton) bool {
	_, ok := h.engine.buttonsReleased[button]
	return ok
}

// MousePosition returns the last known cursor position.
func (h Handler) MousePosition() Point {
	return h.engine.mouse
}

// Touch returns the state of touch id.
func (h Handler) Touch(id TouchID) (Touch, bool) {
	t, ok := h.engine.touches[id]
	return t, ok
}

// Touches returns every active touch ordered by id.
func (h Handler) Touches() []Touch {
	out := make([]Touch, 0, len(h.engine.touches))
	for _, t := range h.engine.touches {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// PressedKeys returns the keys currently held, ordered.
func (h Handler) PressedKeys() []Key {
	out := make([]Key, 0, len(h.engine.keysDown))
	for k := range h.engine.keysDown {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// TouchesToMouse reports the touch-to-mouse remap flag.
func (h Handler) TouchesToMouse() bool { return h.engine.touchesToMouse }

// MouseToTouch reports the mouse-to-touch remap flag.
func (h Handler) MouseToTouch() bool { return h.engine.mouseToTouch }
