package replay

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// Reader последовательно читает кадры записи.
type Reader struct {
	Header
	zr     *zstd.Decoder
	closer io.Closer
	buf    [frameSize]byte
}

// NewReader проверяет заголовок и готовит поток кадров.
func NewReader(r io.Reader) (*Reader, error) {
	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	return &Reader{Header: h, zr: zr}, nil
}

// Open открывает файл записи.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	r.closer = f
	return r, nil
}

// Next возвращает следующий кадр или io.EOF в конце записи.
func (r *Reader) Next() (Frame, error) {
	_, err := io.ReadFull(r.zr, r.buf[:])
	switch {
	case err == nil:
		return unmarshalFrame(r.buf[:]), nil
	case errors.Is(err, io.ErrUnexpectedEOF):
		return Frame{}, ErrTruncated
	default:
		return Frame{}, err
	}
}

func (r *Reader) Close() error {
	r.zr.Close()
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}
