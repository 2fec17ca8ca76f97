// Package replay записывает сырые записи очереди в файл и воспроизводит их.
//
// Файл начинается с заголовка фиксированного размера, за которым идёт
// zstd-поток кадров. Кадр состоит из смещения от начала сессии и
// нативной записи без изменений.
package replay

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/annel0/eventpump/internal/native"
)

const (
	// Magic первые байты файла записи.
	Magic = "EVRP"
	// Version текущая версия формата.
	Version uint16 = 1
	// Ext расширение файлов записи.
	Ext = ".evrp"

	headerSize = 4 + 2 + 2 + 16 + 8
	frameSize  = 8 + native.RecordSize
)

var (
	ErrBadMagic   = errors.New("replay: not a recording")
	ErrBadVersion = errors.New("replay: unsupported format version")
	ErrTruncated  = errors.New("replay: truncated frame")
)

// Header описывает сессию записи.
type Header struct {
	Version uint16
	Session uuid.UUID
	Start   time.Time
}

func (h Header) marshal() []byte {
	b := make([]byte, headerSize)
	copy(b, Magic)
	binary.LittleEndian.PutUint16(b[4:], h.Version)
	copy(b[8:24], h.Session[:])
	binary.LittleEndian.PutUint64(b[24:], uint64(h.Start.UnixNano()))
	return b
}

func readHeader(r io.Reader) (Header, error) {
	var h Header
	b := make([]byte, headerSize)
	if _, err := io.ReadFull(r, b); err != nil {
		return h, fmt.Errorf("read header: %w", ErrBadMagic)
	}
	if string(b[:4]) != Magic {
		return h, ErrBadMagic
	}
	h.Version = binary.LittleEndian.Uint16(b[4:])
	if h.Version != Version {
		return h, fmt.Errorf("version %d: %w", h.Version, ErrBadVersion)
	}
	copy(h.Session[:], b[8:24])
	h.Start = time.Unix(0, int64(binary.LittleEndian.Uint64(b[24:])))
	return h, nil
}

// Frame одна записанная запись.
type Frame struct {
	Offset time.Duration
	Record native.Record
}

func (f Frame) marshal(b []byte) {
	binary.LittleEndian.PutUint64(b, uint64(f.Offset))
	copy(b[8:], f.Record[:])
}

func unmarshalFrame(b []byte) Frame {
	var f Frame
	f.Offset = time.Duration(binary.LittleEndian.Uint64(b))
	copy(f.Record[:], b[8:])
	return f
}
