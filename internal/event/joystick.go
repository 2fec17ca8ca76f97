package event

import "github.com/annel0/eventpump/internal/native"

// JoystickNone идентификатор экземпляра "нет устройства".
const JoystickNone int32 = -1

// HatState положение крестовины.
type HatState uint8

const (
	HatCentered  HatState = 0x00
	HatUp        HatState = 0x01
	HatRight     HatState = 0x02
	HatDown      HatState = 0x04
	HatLeft      HatState = 0x08
	HatRightUp            = HatRight | HatUp
	HatRightDown          = HatRight | HatDown
	HatLeftUp             = HatLeft | HatUp
	HatLeftDown           = HatLeft | HatDown
)

// Общая раскладка устройств: идентификатор экземпляра, индекс, состояние, значение.
const (
	offWhich = 8
	offIndex = 12
	offState = 13
	offValue = 16
)

type JoyAxisMotion struct {
	Header
	Which int32
	Axis  uint8
	Value int16
}

func (JoyAxisMotion) Kind() Kind { return KindJoyAxisMotion }

func decodeJoyAxis(r *native.Record) Event {
	return JoyAxisMotion{header(r), r.I32(offWhich), r.U8(offIndex), r.I16(offValue)}
}

func (e JoyAxisMotion) put(r *native.Record) {
	r.PutI32(offWhich, e.Which)
	r.PutU8(offIndex, e.Axis)
	r.PutI16(offValue, e.Value)
}

type JoyBallMotion struct {
	Header
	Which int32
	Ball  uint8
	XRel  int16
	YRel  int16
}

func (JoyBallMotion) Kind() Kind { return KindJoyBallMotion }

func decodeJoyBall(r *native.Record) Event {
	return JoyBallMotion{header(r), r.I32(offWhich), r.U8(offIndex), r.I16(offValue), r.I16(offValue + 2)}
}

func (e JoyBallMotion) put(r *native.Record) {
	r.PutI32(offWhich, e.Which)
	r.PutU8(offIndex, e.Ball)
	r.PutI16(offValue, e.XRel)
	r.PutI16(offValue+2, e.YRel)
}

type JoyHatMotion struct {
	Header
	Which int32
	Hat   uint8
	State HatState
}

func (JoyHatMotion) Kind() Kind { return KindJoyHatMotion }

func decodeJoyHat(r *native.Record) Event {
	return JoyHatMotion{header(r), r.I32(offWhich), r.U8(offIndex), HatState(r.U8(offState))}
}

func (e JoyHatMotion) put(r *native.Record) {
	r.PutI32(offWhich, e.Which)
	r.PutU8(offIndex, e.Hat)
	r.PutU8(offState, uint8(e.State))
}

// JoyButton поля нажатия и отпускания кнопки джойстика.
type JoyButton struct {
	Which  int32
	Button uint8
}

func decodeJoyButton(r *native.Record) JoyButton {
	return JoyButton{Which: r.I32(offWhich), Button: r.U8(offIndex)}
}

func (b JoyButton) put(r *native.Record, pressed bool) {
	r.PutI32(offWhich, b.Which)
	r.PutU8(offIndex, b.Button)
	if pressed {
		r.PutU8(offState, 1)
	}
}

type JoyButtonDown struct {
	Header
	JoyButton
}

func (JoyButtonDown) Kind() Kind { return KindJoyButtonDown }

func (e JoyButtonDown) put(r *native.Record) { e.JoyButton.put(r, true) }

type JoyButtonUp struct {
	Header
	JoyButton
}

func (JoyButtonUp) Kind() Kind { return KindJoyButtonUp }

func (e JoyButtonUp) put(r *native.Record) { e.JoyButton.put(r, false) }

// JoyDeviceAdded Which здесь индекс устройства, а не идентификатор экземпляра.
type JoyDeviceAdded struct {
	Header
	Which int32
}

func (JoyDeviceAdded) Kind() Kind { return KindJoyDeviceAdded }

func (e JoyDeviceAdded) put(r *native.Record) { r.PutI32(offWhich, e.Which) }

type JoyDeviceRemoved struct {
	Header
	Which int32
}

func (JoyDeviceRemoved) Kind() Kind { return KindJoyDeviceRemoved }

func (e JoyDeviceRemoved) put(r *native.Record) { r.PutI32(offWhich, e.Which) }
