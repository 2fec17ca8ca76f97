package event

import (
	"fmt"
	"reflect"

	"github.com/annel0/eventpump/internal/handle"
	"github.com/annel0/eventpump/internal/native"
)

// CustomKinds обратный поиск зарегистрированных пользовательских кодов.
// Реализуется реестром типов.
type CustomKinds interface {
	TypeFor(code Kind) (reflect.Type, bool)
}

// Codec переводит нативные записи в события и обратно.
// Реестр нужен только для распознавания пользовательских кодов.
type Codec struct {
	custom CustomKinds
}

// NewCodec создаёт кодек. custom может быть nil: тогда все коды выше
// KindUser разбираются как Unhandled.
func NewCodec(custom CustomKinds) *Codec {
	return &Codec{custom: custom}
}

type decoder func(r *native.Record) Event

// encoder реализуют только виды, которые можно отправить в очередь.
type encoder interface {
	Event
	put(r *native.Record)
}

// Таблица разбора: по одной функции на хорошо известный код.
var decoders = map[Kind]decoder{
	KindQuit:                   func(r *native.Record) Event { return Quit{header(r)} },
	KindAppTerminating:         func(r *native.Record) Event { return AppTerminating{header(r)} },
	KindAppLowMemory:           func(r *native.Record) Event { return AppLowMemory{header(r)} },
	KindAppWillEnterBackground: func(r *native.Record) Event { return AppWillEnterBackground{header(r)} },
	KindAppDidEnterBackground:  func(r *native.Record) Event { return AppDidEnterBackground{header(r)} },
	KindAppWillEnterForeground: func(r *native.Record) Event { return AppWillEnterForeground{header(r)} },
	KindAppDidEnterForeground:  func(r *native.Record) Event { return AppDidEnterForeground{header(r)} },
	KindClipboardUpdate:        func(r *native.Record) Event { return ClipboardUpdate{header(r)} },
	KindRenderTargetsReset:     func(r *native.Record) Event { return RenderTargetsReset{header(r)} },
	KindRenderDeviceReset:      func(r *native.Record) Event { return RenderDeviceReset{header(r)} },

	KindWindow: decodeWindow,

	KindKeyDown:     func(r *native.Record) Event { return KeyDown{header(r), decodeKey(r)} },
	KindKeyUp:       func(r *native.Record) Event { return KeyUp{header(r), decodeKey(r)} },
	KindTextEditing: decodeTextEditing,
	KindTextInput:   decodeTextInput,

	KindMouseMotion:     decodeMouseMotion,
	KindMouseButtonDown: func(r *native.Record) Event { return MouseButtonDown{header(r), decodeMouseButton(r)} },
	KindMouseButtonUp:   func(r *native.Record) Event { return MouseButtonUp{header(r), decodeMouseButton(r)} },
	KindMouseWheel:      decodeMouseWheel,

	KindJoyAxisMotion:    decodeJoyAxis,
	KindJoyBallMotion:    decodeJoyBall,
	KindJoyHatMotion:     decodeJoyHat,
	KindJoyButtonDown:    func(r *native.Record) Event { return JoyButtonDown{header(r), decodeJoyButton(r)} },
	KindJoyButtonUp:      func(r *native.Record) Event { return JoyButtonUp{header(r), decodeJoyButton(r)} },
	KindJoyDeviceAdded:   func(r *native.Record) Event { return JoyDeviceAdded{header(r), r.I32(offWhich)} },
	KindJoyDeviceRemoved: func(r *native.Record) Event { return JoyDeviceRemoved{header(r), r.I32(offWhich)} },

	KindControllerAxisMotion:     decodeControllerAxis,
	KindControllerButtonDown:     func(r *native.Record) Event { return ControllerButtonDown{header(r), decodeControllerButton(r)} },
	KindControllerButtonUp:       func(r *native.Record) Event { return ControllerButtonUp{header(r), decodeControllerButton(r)} },
	KindControllerDeviceAdded:    func(r *native.Record) Event { return ControllerDeviceAdded{header(r), r.I32(offWhich)} },
	KindControllerDeviceRemoved:  func(r *native.Record) Event { return ControllerDeviceRemoved{header(r), r.I32(offWhich)} },
	KindControllerDeviceRemapped: func(r *native.Record) Event { return ControllerDeviceRemapped{header(r), r.I32(offWhich)} },

	KindFingerDown:    func(r *native.Record) Event { return FingerDown{header(r), decodeFinger(r)} },
	KindFingerUp:      func(r *native.Record) Event { return FingerUp{header(r), decodeFinger(r)} },
	KindFingerMotion:  func(r *native.Record) Event { return FingerMotion{header(r), decodeFinger(r)} },
	KindDollarGesture: func(r *native.Record) Event { return DollarGesture{header(r), decodeDollar(r)} },
	KindDollarRecord:  func(r *native.Record) Event { return DollarRecord{header(r), decodeDollar(r)} },
	KindMultiGesture:  decodeMultiGesture,

	KindDropFile:     func(r *native.Record) Event { return DropFile{header(r), takeDropString(r), r.U32(offDropWindow)} },
	KindDropText:     func(r *native.Record) Event { return DropText{header(r), takeDropString(r), r.U32(offDropWindow)} },
	KindDropBegin:    func(r *native.Record) Event { return DropBegin{header(r), r.U32(offDropWindow)} },
	KindDropComplete: func(r *native.Record) Event { return DropComplete{header(r), r.U32(offDropWindow)} },

	KindAudioDeviceAdded:   func(r *native.Record) Event { return AudioDeviceAdded{header(r), decodeAudioDevice(r)} },
	KindAudioDeviceRemoved: func(r *native.Record) Event { return AudioDeviceRemoved{header(r), decodeAudioDevice(r)} },

	KindUser: decodeUser,
}

// Decode разбирает запись. Функция тотальна: неизвестный код даёт
// Unhandled, а не ошибку.
func (c *Codec) Decode(r native.Record) Event {
	k := Kind(r.Type())
	if dec, ok := decoders[k]; ok {
		return dec(&r)
	}
	if k.IsCustom() && c.custom != nil {
		if _, ok := c.custom.TypeFor(k); ok {
			return decodeUser(&r)
		}
	}
	return Unhandled{Header: header(&r), Type: uint32(k), Record: r}
}

// Inspect разбирает запись, не забирая владение нативными строками.
// Предназначен для просмотра очереди без извлечения записей.
func (c *Codec) Inspect(r native.Record) Event {
	switch Kind(r.Type()) {
	case KindDropFile:
		return DropFile{header(&r), peekDropString(&r), r.U32(offDropWindow)}
	case KindDropText:
		return DropText{header(&r), peekDropString(&r), r.U32(offDropWindow)}
	}
	return c.Decode(r)
}

// Release освобождает значения, на которые ссылается запись, удалённая
// из очереди без разбора: строку перетаскивания и полезную нагрузку
// зарегистрированного пользовательского кода. Общий код KindUser не
// трогается, его Data1 принадлежит отправителю. Возвращает true, если
// значение было освобождено.
func (c *Codec) Release(r native.Record) bool {
	k := Kind(r.Type())
	switch {
	case k == KindDropFile || k == KindDropText:
		_, found, _ := handle.TakeIf(handle.Handle(r.U64(offDropRef)), isString)
		return found
	case k.IsCustom() && c.custom != nil:
		if _, ok := c.custom.TypeFor(k); !ok {
			return false
		}
		_, ok := handle.Take(handle.Handle(r.U64(offUserData1)))
		return ok
	}
	return false
}

// Encode собирает запись из события. Заполняются только поля, которые
// определены для вида; остальное остаётся нулями.
func (c *Codec) Encode(e Event) (native.Record, error) {
	var r native.Record
	if e == nil {
		return r, fmt.Errorf("nil event: %w", ErrEncodingUnsupported)
	}
	enc, ok := e.(encoder)
	if !ok {
		return r, fmt.Errorf("%s is receive-only: %w", e.Kind(), ErrEncodingUnsupported)
	}
	if u, ok := e.(User); ok && (u.Type < KindUser || u.Type > KindLast) {
		return r, fmt.Errorf("user event type 0x%x outside user range: %w", uint32(u.Type), ErrEncodingUnsupported)
	}
	r.SetType(uint32(e.Kind()))
	r.SetTimestamp(e.Time())
	enc.put(&r)
	return r, nil
}

var plain = NewCodec(nil)

// Decode разбирает запись без учёта пользовательских кодов.
func Decode(r native.Record) Event { return plain.Decode(r) }

// Encode собирает запись; см. Codec.Encode.
func Encode(e Event) (native.Record, error) { return plain.Encode(e) }
