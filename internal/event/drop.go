package event

import (
	"github.com/annel0/eventpump/internal/handle"
	"github.com/annel0/eventpump/internal/native"
)

const (
	offDropRef    = 8
	offDropWindow = 16
)

// DropFile в окно перетащен файл.
type DropFile struct {
	Header
	Path     string
	WindowID uint32
}

func (DropFile) Kind() Kind { return KindDropFile }

// DropText в окно перетащен текст.
type DropText struct {
	Header
	Text     string
	WindowID uint32
}

func (DropText) Kind() Kind { return KindDropText }

type DropBegin struct {
	Header
	WindowID uint32
}

func (DropBegin) Kind() Kind { return KindDropBegin }

type DropComplete struct {
	Header
	WindowID uint32
}

func (DropComplete) Kind() Kind { return KindDropComplete }

// takeDropString забирает строку, выделенную нативной стороной.
// После разбора строка принадлежит событию; отсутствующая или чужая
// ссылка даёт "".
func takeDropString(r *native.Record) string {
	v, _, taken := handle.TakeIf(handle.Handle(r.U64(offDropRef)), isString)
	if !taken {
		return ""
	}
	return v.(string)
}

// peekDropString читает строку, оставляя её в таблице.
func peekDropString(r *native.Record) string {
	v, _ := handle.Peek(handle.Handle(r.U64(offDropRef)))
	s, _ := v.(string)
	return s
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

// NewDropRecord собирает нативную запись перетаскивания так, как её
// порождает бэкенд. Для DropFile и DropText строка размещается в таблице
// ссылок и будет забрана при разборе.
func NewDropRecord(kind Kind, timestamp, windowID uint32, s string) native.Record {
	var r native.Record
	r.SetType(uint32(kind))
	r.SetTimestamp(timestamp)
	if kind == KindDropFile || kind == KindDropText {
		r.PutU64(offDropRef, uint64(handle.New(s)))
	}
	r.PutU32(offDropWindow, windowID)
	return r
}

// AudioDevice подключение или отключение аудиоустройства.
type AudioDevice struct {
	Which     uint32
	IsCapture bool
}

func decodeAudioDevice(r *native.Record) AudioDevice {
	return AudioDevice{Which: r.U32(8), IsCapture: r.U8(12) != 0}
}

type AudioDeviceAdded struct {
	Header
	AudioDevice
}

func (AudioDeviceAdded) Kind() Kind { return KindAudioDeviceAdded }

type AudioDeviceRemoved struct {
	Header
	AudioDevice
}

func (AudioDeviceRemoved) Kind() Kind { return KindAudioDeviceRemoved }
