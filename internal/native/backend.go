package native

import (
	"errors"
	"time"
)

var (
	// ErrClosed возвращается ожиданием, когда очередь закрыта.
	ErrClosed = errors.New("event queue is closed")
	// ErrQueueFull очередь достигла предельной ёмкости.
	ErrQueueFull = errors.New("event queue is full")
	// ErrFiltered вид записи выключен, запись не принята.
	ErrFiltered = errors.New("event kind is disabled")
	// ErrRangeExhausted пользовательский диапазон кодов исчерпан.
	ErrRangeExhausted = errors.New("custom event range exhausted")
)

// Queue минимальный набор примитивов нативной очереди.
type Queue interface {
	// Poll забирает одну запись, не блокируясь.
	Poll() (Record, bool)
	// Wait блокирует вызывающий поток до появления записи.
	Wait() (Record, error)
	// WaitTimeout блокирует не дольше d; false означает таймаут.
	WaitTimeout(d time.Duration) (Record, bool)
	// Push копирует запись в нативное хранилище. Запись выключенного
	// вида отвергается с ErrFiltered.
	Push(r Record) error
	// Peek возвращает до n записей с кодами в [lo, hi], не удаляя их.
	Peek(n int, lo, hi uint32) []Record
	// Flush удаляет все записи с кодами в [lo, hi] и возвращает их:
	// ссылки на значения в удалённых записях освобождает вызывающий.
	Flush(lo, hi uint32) []Record
	// Len количество ожидающих записей.
	Len() int
	// PumpEvents собирает ввод от устройств в очередь.
	PumpEvents()
}

// EventState управляет включением видов событий. Записи выключенного
// вида не принимаются в очередь. Уже стоящие записи SetEnabled не трогает,
// их убирают через Flush.
type EventState interface {
	SetEnabled(kind uint32, on bool) (was bool)
	Enabled(kind uint32) bool
}

// Registrar выдаёт коды из пользовательского диапазона.
// RegisterEvents вызывается под блокировкой реестра типов, поэтому
// реализация не должна блокироваться и не должна обращаться к реестру.
type Registrar interface {
	RegisterEvents(n int) (uint32, error)
}

// MouseSnapshot состояние мыши на момент запроса.
type MouseSnapshot struct {
	Buttons uint32
	X, Y    int32
}

// InputState снимки состояния клавиатуры и мыши.
type InputState interface {
	KeyboardState() []uint8
	MouseState() MouseSnapshot
	RelativeMouseState() MouseSnapshot
}

// Backend всё, что слой событий ожидает от нативной библиотеки.
type Backend interface {
	Queue
	EventState
	Registrar
	InputState
}
