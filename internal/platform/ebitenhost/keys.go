package ebitenhost

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/MRamiBalles/emerald/internal/input"
)

var keyMap = map[ebiten.Key]input.Key{
	ebiten.KeySpace:        input.KeySpace,
	ebiten.KeyQuote:        input.KeyApostrophe,
	ebiten.KeyComma:        input.KeyComma,
	ebiten.KeyMinus:        input.KeyMinus,
	ebiten.KeyPeriod:       input.KeyPeriod,
	ebiten.KeySlash:        input.KeySlash,
	ebiten.KeyDigit0:       input.Key0,
	ebiten.KeyDigit1:       input.Key1,
	ebiten.KeyDigit2:       input.Key2,
	ebiten.KeyDigit3:       input.Key3,
	ebiten.KeyDigit4:       input.Key4,
	ebiten.KeyDigit5:       input.Key5,
	ebiten.KeyDigit6:       input.Key6,
	ebiten.KeyDigit7:       input.Key7,
	ebiten.KeyDigit8:       input.Key8,
	ebiten.KeyDigit9:       input.Key9,
	ebiten.KeySemicolon:    input.KeySemicolon,
	ebiten.KeyEqual:        input.KeyEqual,
	ebiten.KeyA:            input.KeyA,
	ebiten.KeyB:            input.KeyB,
	ebiten.KeyC:            input.KeyC,
	ebiten.KeyD:            input.KeyD,
	ebiten.KeyE:            input.KeyE,
	ebiten.KeyF:            input.KeyF,
	ebiten.KeyG:            input.KeyG,
	ebiten.KeyH:            input.KeyH,
	ebiten.KeyI:            input.KeyI,
	ebiten.KeyJ:            input.KeyJ,
	ebiten.KeyK:            input.KeyK,
	ebiten.KeyL:            input.KeyL,
	ebiten.KeyM:            input.KeyM,
	ebiten.KeyN:            input.KeyN,
	ebiten.KeyO:            input.KeyO,
	ebiten.KeyP:            input.KeyP,
	ebiten.KeyQ:            input.KeyQ,
	ebiten.KeyR:            input.KeyR,
	ebiten.KeyS:            input.KeyS,
	ebiten.KeyT:            input.KeyT,
	ebiten.KeyU:            input.KeyU,
	ebiten.KeyV:            input.KeyV,
	ebiten.KeyW:            input.KeyW,
	ebiten.KeyX:            input.KeyX,
	ebiten.KeyY:            input.KeyY,
	ebiten.KeyZ:            input.KeyZ,
	ebiten.KeyBracketLeft:  input.KeyLeftBracket,
	ebiten.KeyBackslash:    input.KeyBackslash,
	ebiten.KeyBracketRight: input.KeyRightBracket,
	ebiten.KeyBackquote:    input.KeyGraveAccent,
	ebiten.KeyEscape:       input.KeyEscape,
	ebiten.KeyEnter:        input.KeyEnter,
	ebiten.KeyTab:          input.KeyTab,
	ebiten.KeyBackspace:    input.KeyBackspace,
	ebiten.KeyInsert:       input.KeyInsert,
	ebiten.KeyDelete:       input.KeyDelete,
	ebiten.KeyArrowRight:   input.KeyRight,
	ebiten.KeyArrowLeft:    input.KeyLeft,
	ebiten.KeyArrowDown:    input.KeyDown,
	ebiten.KeyArrowUp:      input.KeyUp,
	ebiten.KeyPageUp:       input.KeyPageUp,
	ebiten.KeyPageDown:     input.KeyPageDown,
	ebiten.KeyHome:         input.KeyHome,
	ebiten.KeyEnd:          input.KeyEnd,
	ebiten.KeyF1:           input.KeyF1,
	ebiten.KeyF2:           input.KeyF2,
	ebiten.KeyF3:           input.KeyF3,
	ebiten.KeyF4:           input.KeyF4,
	ebiten.KeyF5:           input.KeyF5,
	ebiten.KeyF6:           input.KeyF6,
	ebiten.KeyF7:           input.KeyF7,
	ebiten.KeyF8:           input.KeyF8,
	ebiten.KeyF9:           input.KeyF9,
	ebiten.KeyF10:          input.KeyF10,
	ebiten.KeyF11:          input.KeyF11,
	ebiten.KeyF12:          input.KeyF12,
	ebiten.KeyShiftLeft:    input.KeyLeftShift,
	ebiten.KeyControlLeft:  input.KeyLeftControl,
	ebiten.KeyAltLeft:      input.KeyLeftAlt,
	ebiten.KeyShiftRight:   input.KeyRightShift,
	ebiten.KeyControlRight: input.KeyRightControl,
	ebiten.KeyAltRight:     input.KeyRightAlt,
}

var buttonMap = []struct {
	from ebiten.MouseButton
	to   input.MouseButton
}{
	{ebiten.MouseButtonLeft, input.MouseButtonLeft},
	{ebiten.MouseButtonRight, input.MouseButtonRight},
	{ebiten.MouseButtonMiddle, input.MouseButtonMiddle},
}
