package native

import (
	"sync"
	"time"
)

// DefaultCapacity предельное число ожидающих записей, как у нативной очереди.
const DefaultCapacity = 65535

// NumScancodes размер массива состояния клавиатуры.
const NumScancodes = 512

// Source опрашивается в PumpEvents и возвращает записи от "устройств".
type Source func() []Record

// MemQueue реализация нативной очереди в памяти процесса.
// Используется в тестах, демо и при воспроизведении записей.
type MemQueue struct {
	mu       sync.Mutex
	records  []Record
	capacity int
	notify   chan struct{}
	closed   bool
	disabled map[uint32]bool
	nextCode uint32
	sources  []Source
	start    time.Time

	keys   [NumScancodes]uint8
	mouse  MouseSnapshot
	relX   int32
	relY   int32
	primed bool
}

// NewMemQueue создаёт очередь; capacity <= 0 означает DefaultCapacity.
func NewMemQueue(capacity int) *MemQueue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemQueue{
		capacity: capacity,
		notify:   make(chan struct{}),
		disabled: make(map[uint32]bool),
		nextCode: UserEvent + 1,
		start:    time.Now(),
	}
}

// Ticks миллисекунды с момента создания очереди.
func (q *MemQueue) Ticks() uint32 {
	return uint32(time.Since(q.start).Milliseconds())
}

// Push копирует запись в очередь. Нулевая метка времени заменяется текущей.
func (q *MemQueue) Push(r Record) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pushLocked(r)
}

func (q *MemQueue) pushLocked(r Record) error {
	if q.closed {
		return ErrClosed
	}
	if q.disabled[r.Type()] {
		return ErrFiltered
	}
	if len(q.records) >= q.capacity {
		return ErrQueueFull
	}
	if r.Timestamp() == 0 {
		r.SetTimestamp(q.Ticks())
	}
	q.records = append(q.records, r)
	close(q.notify)
	q.notify = make(chan struct{})
	return nil
}

// Poll забирает первую запись без блокировки.
func (q *MemQueue) Poll() (Record, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.popLocked()
}

func (q *MemQueue) popLocked() (Record, bool) {
	if len(q.records) == 0 {
		return Record{}, false
	}
	r := q.records[0]
	q.records[0] = Record{}
	q.records = q.records[1:]
	return r, true
}

// Wait блокирует до появления записи или закрытия очереди.
func (q *MemQueue) Wait() (Record, error) {
	for {
		q.mu.Lock()
		if r, ok := q.popLocked(); ok {
			q.mu.Unlock()
			return r, nil
		}
		if q.closed {
			q.mu.Unlock()
			return Record{}, ErrClosed
		}
		ch := q.notify
		q.mu.Unlock()
		<-ch
	}
}

// WaitTimeout как Wait, но не дольше d.
func (q *MemQueue) WaitTimeout(d time.Duration) (Record, bool) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	for {
		q.mu.Lock()
		if r, ok := q.popLocked(); ok {
			q.mu.Unlock()
			return r, true
		}
		if q.closed {
			q.mu.Unlock()
			return Record{}, false
		}
		ch := q.notify
		q.mu.Unlock()

		select {
		case <-ch:
		case <-timer.C:
			return q.Poll()
		}
	}
}

// Peek возвращает до n записей с кодом в [lo, hi], не удаляя их.
func (q *MemQueue) Peek(n int, lo, hi uint32) []Record {
	if n <= 0 {
		return nil
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Record, 0, min(n, len(q.records)))
	for _, r := range q.records {
		if len(out) >= n {
			break
		}
		if t := r.Type(); t >= lo && t <= hi {
			out = append(out, r)
		}
	}
	return out
}

// Flush удаляет записи с кодом в [lo, hi] и возвращает удалённые.
func (q *MemQueue) Flush(lo, hi uint32) []Record {
	q.mu.Lock()
	defer q.mu.Unlock()
	var removed []Record
	kept := q.records[:0]
	for _, r := range q.records {
		if t := r.Type(); t < lo || t > hi {
			kept = append(kept, r)
		} else {
			removed = append(removed, r)
		}
	}
	clear(q.records[len(kept):])
	q.records = kept
	return removed
}

// Len количество ожидающих записей.
func (q *MemQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.records)
}

// AddSource подключает источник, опрашиваемый в PumpEvents.
func (q *MemQueue) AddSource(src Source) {
	q.mu.Lock()
	q.sources = append(q.sources, src)
	q.mu.Unlock()
}

// PumpEvents опрашивает источники и добавляет их записи. Записи сверх
// ёмкости теряются, как и в нативной реализации.
func (q *MemQueue) PumpEvents() {
	q.mu.Lock()
	sources := append([]Source(nil), q.sources...)
	q.mu.Unlock()

	for _, src := range sources {
		for _, r := range src() {
			_ = q.Push(r)
		}
	}
}

// Close будит ожидающих; дальнейшие Push возвращают ErrClosed.
func (q *MemQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.notify)
	q.notify = make(chan struct{})
}

// SetEnabled включает или выключает вид событий и возвращает прежнее состояние.
// Стоящие в очереди записи остаются на месте до Flush.
func (q *MemQueue) SetEnabled(kind uint32, on bool) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	was := !q.disabled[kind]
	if on {
		delete(q.disabled, kind)
	} else {
		q.disabled[kind] = true
	}
	return was
}

// Enabled сообщает, принимаются ли записи вида kind.
func (q *MemQueue) Enabled(kind uint32) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return !q.disabled[kind]
}

// RegisterEvents выделяет n последовательных кодов выше UserEvent.
// Коды никогда не переиспользуются.
func (q *MemQueue) RegisterEvents(n int) (uint32, error) {
	if n <= 0 {
		return 0, ErrRangeExhausted
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if uint64(q.nextCode)+uint64(n)-1 > uint64(LastEvent) {
		return 0, ErrRangeExhausted
	}
	code := q.nextCode
	q.nextCode += uint32(n)
	return code, nil
}

// SetKey отмечает клавишу нажатой или отпущенной.
func (q *MemQueue) SetKey(scancode uint32, pressed bool) {
	if scancode >= NumScancodes {
		return
	}
	q.mu.Lock()
	if pressed {
		q.keys[scancode] = 1
	} else {
		q.keys[scancode] = 0
	}
	q.mu.Unlock()
}

// KeyboardState копия массива состояний клавиш, индексируется скан-кодом.
func (q *MemQueue) KeyboardState() []uint8 {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]uint8, NumScancodes)
	copy(out, q.keys[:])
	return out
}

// SetMouse обновляет состояние мыши; смещение копится до RelativeMouseState.
func (q *MemQueue) SetMouse(buttons uint32, x, y int32) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.primed {
		q.relX += x - q.mouse.X
		q.relY += y - q.mouse.Y
	}
	q.primed = true
	q.mouse = MouseSnapshot{Buttons: buttons, X: x, Y: y}
}

// MouseState текущие кнопки и позиция мыши.
func (q *MemQueue) MouseState() MouseSnapshot {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.mouse
}

// RelativeMouseState смещение с прошлого вызова; счётчик сбрасывается.
func (q *MemQueue) RelativeMouseState() MouseSnapshot {
	q.mu.Lock()
	defer q.mu.Unlock()
	s := MouseSnapshot{Buttons: q.mouse.Buttons, X: q.relX, Y: q.relY}
	q.relX, q.relY = 0, 0
	return s
}

var _ Backend = (*MemQueue)(nil)
