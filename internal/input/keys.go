// Package input tracks per-frame keyboard, mouse and touch state.
//
// Platform hosts feed raw events into an Engine; game code reads the
// resulting state through a Handler. Transient "just pressed" and
// "just released" bits live for exactly one frame and are cleared by
// Engine.Rollover after the update callback has consumed them.
package input

// Key identifies a keyboard key independent of the platform host.
type Key int

const (
	KeyUnknown Key = iota
	KeySpace
	KeyApostrophe
	KeyComma
	KeyMinus
	KeyPeriod
	KeySlash
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeySemicolon
	KeyEqual
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	KeyLeftBracket
	KeyBackslash
	KeyRightBracket
	KeyGraveAccent
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyInsert
	KeyDelete
	KeyRight
	KeyLeft
	KeyDown
	KeyUp
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyLeftShift
	KeyLeftControl
	KeyLeftAlt
	KeyRightShift
	KeyRightControl
	KeyRightAlt
)

// MouseButton identifies a mouse button.
type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
)

// TouchID identifies one finger for the lifetime of its contact.
type TouchID uint64

// MouseTouchID is the id used for touches synthesized from the left mouse button.
const MouseTouchID TouchID = ^TouchID(0)

// TouchPhase is the lifecycle stage of a touch.
type TouchPhase string

const (
	TouchStarted    TouchPhase = "STARTED"
	TouchMoved      TouchPhase = "MOVED"
	TouchStationary TouchPhase = "STATIONARY"
	TouchEnded      TouchPhase = "ENDED"
	TouchCancelled  TouchPhase = "CANCELLED"
)

// Point is a position in screen space with the origin at the bottom left.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Touch is the latest known state of one contact point.
type Touch struct {
	ID       TouchID    `json:"id"`
	Position Point      `json:"position"`
	Phase    TouchPhase `json:"phase"`
}
