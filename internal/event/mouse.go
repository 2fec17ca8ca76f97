package event

import "github.com/annel0/eventpump/internal/native"

// TouchMouseID идентификатор "мыши", события которой сгенерированы сенсором.
const TouchMouseID uint32 = 0xFFFFFFFF

// MouseButton номер кнопки мыши.
type MouseButton uint8

const (
	ButtonUnknown MouseButton = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
	ButtonX1
	ButtonX2
)

// MouseButtonState маска зажатых кнопок.
type MouseButtonState uint32

// Mask бит кнопки в MouseButtonState.
func (b MouseButton) Mask() MouseButtonState {
	if b == ButtonUnknown {
		return 0
	}
	return 1 << (b - 1)
}

// Pressed сообщает, зажата ли кнопка b.
func (s MouseButtonState) Pressed(b MouseButton) bool {
	return s&b.Mask() != 0
}

// WheelDirection направление прокрутки колеса.
type WheelDirection uint32

const (
	WheelNormal WheelDirection = iota
	WheelFlipped
)

const (
	offMouseWindow = 8
	offMouseWhich  = 12
)

// MouseMotion перемещение мыши.
type MouseMotion struct {
	Header
	WindowID uint32
	Which    uint32
	State    MouseButtonState
	X, Y     int32
	XRel     int32
	YRel     int32
}

func (MouseMotion) Kind() Kind { return KindMouseMotion }

func decodeMouseMotion(r *native.Record) Event {
	return MouseMotion{
		Header:   header(r),
		WindowID: r.U32(offMouseWindow),
		Which:    r.U32(offMouseWhich),
		State:    MouseButtonState(r.U32(16)),
		X:        r.I32(20),
		Y:        r.I32(24),
		XRel:     r.I32(28),
		YRel:     r.I32(32),
	}
}

func (e MouseMotion) put(r *native.Record) {
	r.PutU32(offMouseWindow, e.WindowID)
	r.PutU32(offMouseWhich, e.Which)
	r.PutU32(16, uint32(e.State))
	r.PutI32(20, e.X)
	r.PutI32(24, e.Y)
	r.PutI32(28, e.XRel)
	r.PutI32(32, e.YRel)
}

// MouseButtonEvent поля нажатия и отпускания кнопки.
type MouseButtonEvent struct {
	WindowID uint32
	Which    uint32
	Button   MouseButton
	Clicks   uint8
	X, Y     int32
}

func decodeMouseButton(r *native.Record) MouseButtonEvent {
	return MouseButtonEvent{
		WindowID: r.U32(offMouseWindow),
		Which:    r.U32(offMouseWhich),
		Button:   MouseButton(r.U8(16)),
		Clicks:   r.U8(18),
		X:        r.I32(20),
		Y:        r.I32(24),
	}
}

func (b MouseButtonEvent) put(r *native.Record, pressed bool) {
	r.PutU32(offMouseWindow, b.WindowID)
	r.PutU32(offMouseWhich, b.Which)
	r.PutU8(16, uint8(b.Button))
	if pressed {
		r.PutU8(17, 1)
	}
	r.PutU8(18, b.Clicks)
	r.PutI32(20, b.X)
	r.PutI32(24, b.Y)
}

type MouseButtonDown struct {
	Header
	MouseButtonEvent
}

func (MouseButtonDown) Kind() Kind { return KindMouseButtonDown }

func (e MouseButtonDown) put(r *native.Record) { e.MouseButtonEvent.put(r, true) }

type MouseButtonUp struct {
	Header
	MouseButtonEvent
}

func (MouseButtonUp) Kind() Kind { return KindMouseButtonUp }

func (e MouseButtonUp) put(r *native.Record) { e.MouseButtonEvent.put(r, false) }

// MouseWheel прокрутка. X, Y в целых шагах, PreciseX/PreciseY с дробной частью.
type MouseWheel struct {
	Header
	WindowID  uint32
	Which     uint32
	X, Y      int32
	Direction WheelDirection
	PreciseX  float32
	PreciseY  float32
}

func (MouseWheel) Kind() Kind { return KindMouseWheel }

func decodeMouseWheel(r *native.Record) Event {
	return MouseWheel{
		Header:    header(r),
		WindowID:  r.U32(offMouseWindow),
		Which:     r.U32(offMouseWhich),
		X:         r.I32(16),
		Y:         r.I32(20),
		Direction: WheelDirection(r.U32(24)),
		PreciseX:  r.F32(28),
		PreciseY:  r.F32(32),
	}
}

func (e MouseWheel) put(r *native.Record) {
	r.PutU32(offMouseWindow, e.WindowID)
	r.PutU32(offMouseWhich, e.Which)
	r.PutI32(16, e.X)
	r.PutI32(20, e.Y)
	r.PutU32(24, uint32(e.Direction))
	r.PutF32(28, e.PreciseX)
	r.PutF32(32, e.PreciseY)
}
