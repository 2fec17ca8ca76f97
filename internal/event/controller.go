package event

import "github.com/annel0/eventpump/internal/native"

// ControllerAxis ось игрового контроллера.
type ControllerAxis uint8

const (
	AxisLeftX ControllerAxis = iota
	AxisLeftY
	AxisRightX
	AxisRightY
	AxisTriggerLeft
	AxisTriggerRight
)

// ControllerButton кнопка игрового контроллера.
type ControllerButton uint8

const (
	PadA ControllerButton = iota
	PadB
	PadX
	PadY
	PadBack
	PadGuide
	PadStart
	PadLeftStick
	PadRightStick
	PadLeftShoulder
	PadRightShoulder
	PadUp
	PadDown
	PadLeft
	PadRight
)

type ControllerAxisMotion struct {
	Header
	Which int32
	Axis  ControllerAxis
	Value int16
}

func (ControllerAxisMotion) Kind() Kind { return KindControllerAxisMotion }

func decodeControllerAxis(r *native.Record) Event {
	return ControllerAxisMotion{header(r), r.I32(offWhich), ControllerAxis(r.U8(offIndex)), r.I16(offValue)}
}

func (e ControllerAxisMotion) put(r *native.Record) {
	r.PutI32(offWhich, e.Which)
	r.PutU8(offIndex, uint8(e.Axis))
	r.PutI16(offValue, e.Value)
}

// ControllerButtonEvent поля нажатия и отпускания кнопки контроллера.
type ControllerButtonEvent struct {
	Which  int32
	Button ControllerButton
}

func decodeControllerButton(r *native.Record) ControllerButtonEvent {
	return ControllerButtonEvent{Which: r.I32(offWhich), Button: ControllerButton(r.U8(offIndex))}
}

func (b ControllerButtonEvent) put(r *native.Record, pressed bool) {
	r.PutI32(offWhich, b.Which)
	r.PutU8(offIndex, uint8(b.Button))
	if pressed {
		r.PutU8(offState, 1)
	}
}

type ControllerButtonDown struct {
	Header
	ControllerButtonEvent
}

func (ControllerButtonDown) Kind() Kind { return KindControllerButtonDown }

func (e ControllerButtonDown) put(r *native.Record) { e.ControllerButtonEvent.put(r, true) }

type ControllerButtonUp struct {
	Header
	ControllerButtonEvent
}

func (ControllerButtonUp) Kind() Kind { return KindControllerButtonUp }

func (e ControllerButtonUp) put(r *native.Record) { e.ControllerButtonEvent.put(r, false) }

type ControllerDeviceAdded struct {
	Header
	Which int32
}

func (ControllerDeviceAdded) Kind() Kind { return KindControllerDeviceAdded }

func (e ControllerDeviceAdded) put(r *native.Record) { r.PutI32(offWhich, e.Which) }

type ControllerDeviceRemoved struct {
	Header
	Which int32
}

func (ControllerDeviceRemoved) Kind() Kind { return KindControllerDeviceRemoved }

func (e ControllerDeviceRemoved) put(r *native.Record) { r.PutI32(offWhich, e.Which) }

type ControllerDeviceRemapped struct {
	Header
	Which int32
}

func (ControllerDeviceRemapped) Kind() Kind { return KindControllerDeviceRemapped }

func (e ControllerDeviceRemapped) put(r *native.Record) { r.PutI32(offWhich, e.Which) }
