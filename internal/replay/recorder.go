package replay

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"github.com/annel0/eventpump/internal/event"
	"github.com/annel0/eventpump/internal/logging"
	"github.com/annel0/eventpump/internal/native"
)

// Recorder пишет сырые записи в поток. Подключается к помпе как Tap.
type Recorder struct {
	mu       sync.Mutex
	header   Header
	zw       *zstd.Encoder
	closer   io.Closer
	now      func() time.Time
	buf      [frameSize]byte
	recorded uint64
	skipped  uint64
	closed   bool
}

// NewRecorder пишет заголовок новой сессии в w.
func NewRecorder(w io.Writer) (*Recorder, error) {
	return newRecorder(w, time.Now)
}

func newRecorder(w io.Writer, now func() time.Time) (*Recorder, error) {
	h := Header{Version: Version, Session: uuid.New(), Start: now()}
	if _, err := w.Write(h.marshal()); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, err
	}
	return &Recorder{header: h, zw: zw, now: now}, nil
}

// Create открывает файл сессии в dir. Имя файла содержит идентификатор сессии.
func Create(dir string) (*Recorder, string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, "", err
	}
	f, err := os.CreateTemp(dir, "session-*"+Ext)
	if err != nil {
		return nil, "", err
	}
	rec, err := NewRecorder(f)
	if err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, "", err
	}
	rec.closer = f

	path := filepath.Join(dir, "session-"+rec.header.Session.String()+Ext)
	if err := os.Rename(f.Name(), path); err != nil {
		path = f.Name()
	}
	logging.Info("replay: запись сессии %s в %s", rec.header.Session, path)
	return rec, path, nil
}

// Header заголовок записываемой сессии.
func (r *Recorder) Header() Header { return r.header }

// Recordable сообщает, переживёт ли запись процесс. Пользовательские
// записи и перетаскивание несут ссылки на значения в памяти процесса.
func Recordable(rec native.Record) bool {
	k := event.Kind(rec.Type())
	switch {
	case k == event.KindUser || k.IsCustom():
		return false
	case k == event.KindDropFile || k == event.KindDropText:
		return false
	}
	return true
}

// Record добавляет запись в поток.
func (r *Recorder) Record(rec native.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return fmt.Errorf("record: %w", os.ErrClosed)
	}
	if !Recordable(rec) {
		r.skipped++
		return nil
	}
	Frame{Offset: r.now().Sub(r.header.Start), Record: rec}.marshal(r.buf[:])
	if _, err := r.zw.Write(r.buf[:]); err != nil {
		return err
	}
	r.recorded++
	return nil
}

// Stats число записанных и пропущенных записей.
func (r *Recorder) Stats() (recorded, skipped uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recorded, r.skipped
}

// Close дописывает поток и закрывает файл, если он открыт через Create.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	err := r.zw.Close()
	if r.closer != nil {
		if cerr := r.closer.Close(); err == nil {
			err = cerr
		}
	}
	if r.skipped > 0 {
		logging.Debug("replay: сессия %s, пропущено %d записей с локальными ссылками", r.header.Session, r.skipped)
	}
	return err
}
