package event

import "github.com/annel0/eventpump/internal/native"

// Scancode физическое положение клавиши, не зависит от раскладки.
type Scancode uint32

// Keycode виртуальный код клавиши с учётом раскладки.
type Keycode int32

// Mod битовая маска модификаторов.
type Mod uint16

const (
	ScancodeUnknown Scancode = 0
	ScancodeA       Scancode = 4
	ScancodeD       Scancode = 7
	ScancodeS       Scancode = 22
	ScancodeW       Scancode = 26
	ScancodeReturn  Scancode = 40
	ScancodeEscape  Scancode = 41
	ScancodeSpace   Scancode = 44
)

const (
	KeyUnknown Keycode = 0
	KeyReturn  Keycode = '\r'
	KeyEscape  Keycode = 0x1B
	KeySpace   Keycode = ' '
	KeyA       Keycode = 'a'
	KeyD       Keycode = 'd'
	KeyS       Keycode = 's'
	KeyW       Keycode = 'w'
)

const (
	ModNone   Mod = 0x0000
	ModLShift Mod = 0x0001
	ModRShift Mod = 0x0002
	ModLCtrl  Mod = 0x0040
	ModRCtrl  Mod = 0x0080
	ModLAlt   Mod = 0x0100
	ModRAlt   Mod = 0x0200
	ModLGui   Mod = 0x0400
	ModRGui   Mod = 0x0800
	ModNum    Mod = 0x1000
	ModCaps   Mod = 0x2000
	ModMode   Mod = 0x4000
	ModScroll Mod = 0x8000

	ModShift = ModLShift | ModRShift
	ModCtrl  = ModLCtrl | ModRCtrl
	ModAlt   = ModLAlt | ModRAlt
	ModGui   = ModLGui | ModRGui
)

// Has сообщает, зажат ли хотя бы один из модификаторов m.
func (k Mod) Has(m Mod) bool { return k&m != 0 }

// Key поля нажатия и отпускания клавиши.
type Key struct {
	WindowID uint32
	Repeat   bool
	Scancode Scancode
	Keycode  Keycode
	Mod      Mod
}

type KeyDown struct {
	Header
	Key
}

func (KeyDown) Kind() Kind { return KindKeyDown }

func (e KeyDown) put(r *native.Record) { e.Key.put(r, true) }

type KeyUp struct {
	Header
	Key
}

func (KeyUp) Kind() Kind { return KindKeyUp }

func (e KeyUp) put(r *native.Record) { e.Key.put(r, false) }

const (
	offKeyWindow   = 8
	offKeyState    = 12
	offKeyRepeat   = 13
	offKeyScancode = 16
	offKeySym      = 20
	offKeyMod      = 24
)

func decodeKey(r *native.Record) Key {
	return Key{
		WindowID: r.U32(offKeyWindow),
		Repeat:   r.U8(offKeyRepeat) != 0,
		Scancode: Scancode(r.U32(offKeyScancode)),
		Keycode:  Keycode(r.I32(offKeySym)),
		Mod:      Mod(r.U16(offKeyMod)),
	}
}

func (k Key) put(r *native.Record, pressed bool) {
	r.PutU32(offKeyWindow, k.WindowID)
	if pressed {
		r.PutU8(offKeyState, 1)
	}
	if k.Repeat {
		r.PutU8(offKeyRepeat, 1)
	}
	r.PutU32(offKeyScancode, uint32(k.Scancode))
	r.PutI32(offKeySym, int32(k.Keycode))
	r.PutU16(offKeyMod, uint16(k.Mod))
}

// TextSize размер встроенного буфера текста, включая завершающий ноль.
const TextSize = 32

const (
	offTextWindow = 8
	offText       = 12
	offTextStart  = 44
	offTextLength = 48
)

// TextEditing промежуточный ввод метода ввода (IME).
type TextEditing struct {
	Header
	WindowID uint32
	Text     string
	Start    int32
	Length   int32
}

func (TextEditing) Kind() Kind { return KindTextEditing }

func decodeTextEditing(r *native.Record) Event {
	return TextEditing{
		Header:   header(r),
		WindowID: r.U32(offTextWindow),
		Text:     r.CString(offText, TextSize),
		Start:    r.I32(offTextStart),
		Length:   r.I32(offTextLength),
	}
}

// TextInput введённый текст в UTF-8.
type TextInput struct {
	Header
	WindowID uint32
	Text     string
}

func (TextInput) Kind() Kind { return KindTextInput }

func decodeTextInput(r *native.Record) Event {
	return TextInput{
		Header:   header(r),
		WindowID: r.U32(offTextWindow),
		Text:     r.CString(offText, TextSize),
	}
}
