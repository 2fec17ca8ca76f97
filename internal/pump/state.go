package pump

import (
	"github.com/annel0/eventpump/internal/event"
	"github.com/annel0/eventpump/internal/native"
)

// KeyboardState снимок клавиатуры, индексируется скан-кодом.
type KeyboardState []uint8

// Pressed сообщает, нажата ли клавиша.
func (ks KeyboardState) Pressed(sc event.Scancode) bool {
	return int(sc) < len(ks) && ks[sc] != 0
}

// PressedScancodes все нажатые клавиши по возрастанию скан-кода.
func (ks KeyboardState) PressedScancodes() []event.Scancode {
	var out []event.Scancode
	for i, v := range ks {
		if v != 0 {
			out = append(out, event.Scancode(i))
		}
	}
	return out
}

// MouseState положение и кнопки мыши. Для относительного состояния
// X и Y содержат смещение с прошлого запроса.
type MouseState struct {
	Buttons event.MouseButtonState
	X, Y    int32
}

// Pressed сообщает, нажата ли кнопка.
func (ms MouseState) Pressed(b event.MouseButton) bool {
	return ms.Buttons.Pressed(b)
}

func mouseState(s native.MouseSnapshot) MouseState {
	return MouseState{Buttons: event.MouseButtonState(s.Buttons), X: s.X, Y: s.Y}
}

// KeyboardState снимок клавиатуры на момент последнего PumpEvents.
func (p *Pump) KeyboardState() KeyboardState {
	return KeyboardState(p.backend.KeyboardState())
}

// MouseState абсолютное положение и кнопки мыши.
func (p *Pump) MouseState() MouseState {
	return mouseState(p.backend.MouseState())
}

// RelativeMouseState смещение мыши с прошлого вызова.
func (p *Pump) RelativeMouseState() MouseState {
	return mouseState(p.backend.RelativeMouseState())
}
