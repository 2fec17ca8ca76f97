// Package native описывает границу с нативной очередью событий: формат
// сырой записи фиксированного размера и интерфейсы, которые предоставляет
// нижележащая библиотека (опрос, ожидание, отправка, выдача кодов).
package native

import (
	"encoding/binary"
	"math"
)

// RecordSize размер нативной записи события в байтах.
const RecordSize = 56

// Record сырая нативная запись: 32-битный код классификации, 32-битная
// метка времени, далее объединение, трактуемое согласно коду.
// Все поля хранятся в little-endian.
type Record [RecordSize]byte

// Границы диапазонов кодов классификации.
const (
	FirstEvent uint32 = 0
	// UserEvent общий "пользовательский" код; всё, что выше, выдаётся
	// приложению через RegisterEvents.
	UserEvent uint32 = 0x8000
	LastEvent uint32 = 0xFFFF
)

// Type возвращает код классификации записи.
func (r *Record) Type() uint32 {
	return binary.LittleEndian.Uint32(r[0:4])
}

// SetType записывает код классификации.
func (r *Record) SetType(t uint32) {
	binary.LittleEndian.PutUint32(r[0:4], t)
}

// Timestamp возвращает монотонную метку времени в миллисекундах.
func (r *Record) Timestamp() uint32 {
	return binary.LittleEndian.Uint32(r[4:8])
}

// SetTimestamp записывает метку времени.
func (r *Record) SetTimestamp(ts uint32) {
	binary.LittleEndian.PutUint32(r[4:8], ts)
}

// Чтение и запись полей объединения по смещению.

func (r *Record) U8(off int) uint8 { return r[off] }

func (r *Record) PutU8(off int, v uint8) { r[off] = v }

func (r *Record) U16(off int) uint16 { return binary.LittleEndian.Uint16(r[off:]) }

func (r *Record) PutU16(off int, v uint16) { binary.LittleEndian.PutUint16(r[off:], v) }

func (r *Record) I16(off int) int16 { return int16(r.U16(off)) }

func (r *Record) PutI16(off int, v int16) { r.PutU16(off, uint16(v)) }

func (r *Record) U32(off int) uint32 { return binary.LittleEndian.Uint32(r[off:]) }

func (r *Record) PutU32(off int, v uint32) { binary.LittleEndian.PutUint32(r[off:], v) }

func (r *Record) I32(off int) int32 { return int32(r.U32(off)) }

func (r *Record) PutI32(off int, v int32) { r.PutU32(off, uint32(v)) }

func (r *Record) U64(off int) uint64 { return binary.LittleEndian.Uint64(r[off:]) }

func (r *Record) PutU64(off int, v uint64) { binary.LittleEndian.PutUint64(r[off:], v) }

func (r *Record) I64(off int) int64 { return int64(r.U64(off)) }

func (r *Record) PutI64(off int, v int64) { r.PutU64(off, uint64(v)) }

func (r *Record) F32(off int) float32 { return math.Float32frombits(r.U32(off)) }

func (r *Record) PutF32(off int, v float32) { r.PutU32(off, math.Float32bits(v)) }

// CString читает нуль-терминированную строку из встроенного буфера.
func (r *Record) CString(off, size int) string {
	buf := r[off : off+size]
	for i, b := range buf {
		if b == 0 {
			return string(buf[:i])
		}
	}
	return string(buf)
}

// PutCString записывает строку во встроенный буфер, обрезая её так,
// чтобы оставить место под завершающий ноль.
func (r *Record) PutCString(off, size int, s string) {
	buf := r[off : off+size]
	clear(buf)
	if len(s) > size-1 {
		s = s[:size-1]
	}
	copy(buf, s)
}
