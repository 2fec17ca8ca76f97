// Package pump владеет подсистемой событий процесса.
//
// Помпа единственна на процесс: пока она жива, повторный New возвращает
// ErrPumpActive. Извлечение событий предполагается из одной горутины,
// отправка через Sender допустима из любой.
package pump

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/annel0/eventpump/internal/event"
	"github.com/annel0/eventpump/internal/eventbus"
	"github.com/annel0/eventpump/internal/logging"
	"github.com/annel0/eventpump/internal/native"
	"github.com/annel0/eventpump/internal/registry"
)

// live флаг единственности помпы в процессе.
var live atomic.Bool

// Tap получает каждую сырую запись до разбора.
type Tap interface {
	Record(rec native.Record) error
}

// Option настраивает помпу.
type Option func(*Pump)

// WithBus публикует разобранные события в указанную шину. Шина
// остаётся во владении вызывающего.
func WithBus(bus eventbus.EventBus) Option {
	return func(p *Pump) { p.bus = bus }
}

// WithTap передаёт сырые записи наблюдателю, например записи повтора.
func WithTap(tap Tap) Option {
	return func(p *Pump) { p.tap = tap }
}

// WithBusBuffer размер буфера подписчика собственной шины помпы.
func WithBusBuffer(n int) Option {
	return func(p *Pump) { p.busBuffer = n }
}

// Pump подсистема событий.
type Pump struct {
	backend   native.Backend
	registry  *registry.Registry
	codec     *event.Codec
	stats     *counters
	bus       eventbus.EventBus
	ownsBus   bool
	busBuffer int
	tap       Tap
	closed    atomic.Bool
	closeOnce sync.Once
}

// New запускает подсистему событий над бэкендом. reg может быть nil,
// если пользовательские типы не нужны.
func New(backend native.Backend, reg *registry.Registry, opts ...Option) (*Pump, error) {
	if !live.CompareAndSwap(false, true) {
		return nil, ErrPumpActive
	}
	p := &Pump{
		backend:  backend,
		registry: reg,
		codec:    codecFor(reg),
		stats:    newCounters(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.bus == nil {
		p.bus = eventbus.NewMemoryBus(p.busBuffer)
		p.ownsBus = true
	}
	logging.Debug("event pump started, %d events pending", backend.Len())
	return p, nil
}

// Close освобождает подсистему. Повторный вызов ничего не делает.
func (p *Pump) Close() error {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		if p.ownsBus {
			p.bus.Close()
		}
		live.Store(false)
		logging.Debug("event pump closed")
	})
	return nil
}

// deliver единая точка разбора: счётчики, запись повтора, наблюдатели.
func (p *Pump) deliver(rec native.Record) event.Event {
	if p.tap != nil {
		if err := p.tap.Record(rec); err != nil {
			logging.Warn("event tap: %v", err)
		}
	}
	ev := p.codec.Decode(rec)
	p.stats.observe(ev)
	if u, ok := ev.(event.Unhandled); ok {
		logging.LogRecord("UNHANDLED", u.Kind(), u.Record[:])
	}
	if err := p.bus.Publish(context.Background(), ev); err != nil && !p.closed.Load() {
		logging.Warn("event watch: %v", err)
	}
	return ev
}

// PollEvent забирает одно событие, не блокируясь.
func (p *Pump) PollEvent() (event.Event, bool) {
	if p.closed.Load() {
		return nil, false
	}
	rec, ok := p.backend.Poll()
	if !ok {
		return nil, false
	}
	return p.deliver(rec), true
}

// WaitEvent блокируется до следующего события.
func (p *Pump) WaitEvent() (event.Event, error) {
	if p.closed.Load() {
		return nil, ErrPumpClosed
	}
	rec, err := p.backend.Wait()
	if err != nil {
		return nil, err
	}
	return p.deliver(rec), nil
}

// WaitEventTimeout ждёт не дольше d.
func (p *Pump) WaitEventTimeout(d time.Duration) (event.Event, bool) {
	if p.closed.Load() {
		return nil, false
	}
	rec, ok := p.backend.WaitTimeout(d)
	if !ok {
		return nil, false
	}
	return p.deliver(rec), true
}

func (p *Pump) PollIter() PollIter { return PollIter{p: p} }
func (p *Pump) WaitIter() WaitIter { return WaitIter{p: p} }

func (p *Pump) WaitTimeoutIter(d time.Duration) WaitTimeoutIter {
	return WaitTimeoutIter{p: p, timeout: d}
}

// Sender отправитель, связанный со счётчиками помпы.
func (p *Pump) Sender() Sender {
	return Sender{queue: p.backend, codec: p.codec, registry: p.registry, stats: p.stats}
}

// Registry реестр пользовательских типов; может быть nil.
func (p *Pump) Registry() *registry.Registry { return p.registry }

// PumpEvents собирает ввод устройств в очередь.
func (p *Pump) PumpEvents() { p.backend.PumpEvents() }

// EnableKind включает вид и возвращает прежнее состояние.
func (p *Pump) EnableKind(k event.Kind) bool {
	return p.backend.SetEnabled(uint32(k), true)
}

// DisableKind выключает вид; ожидающие события этого вида удаляются.
func (p *Pump) DisableKind(k event.Kind) bool {
	was := p.backend.SetEnabled(uint32(k), false)
	p.FlushKind(k)
	return was
}

func (p *Pump) IsKindEnabled(k event.Kind) bool {
	return p.backend.Enabled(uint32(k))
}

// FlushKind удаляет ожидающие события вида k.
func (p *Pump) FlushKind(k event.Kind) {
	p.FlushKinds(k, k)
}

// FlushKinds удаляет ожидающие события с видами в [lo, hi]. Значения,
// на которые ссылались удалённые записи, освобождаются.
func (p *Pump) FlushKinds(lo, hi event.Kind) {
	removed := p.backend.Flush(uint32(lo), uint32(hi))
	released := 0
	for _, rec := range removed {
		if p.codec.Release(rec) {
			released++
		}
	}
	if len(removed) > 0 {
		logging.Debug("flush %s..%s: удалено %d, освобождено значений %d", lo, hi, len(removed), released)
	}
}

// PeekEvents возвращает до n ожидающих событий с видами в [lo, hi],
// оставляя их в очереди.
func (p *Pump) PeekEvents(n int, lo, hi event.Kind) []event.Event {
	recs := p.backend.Peek(n, uint32(lo), uint32(hi))
	out := make([]event.Event, 0, len(recs))
	for _, rec := range recs {
		out = append(out, p.codec.Inspect(rec))
	}
	return out
}

// AddWatch подписывает handler на извлекаемые события.
func (p *Pump) AddWatch(f eventbus.Filter, h eventbus.Handler) (eventbus.Subscription, error) {
	return p.bus.Subscribe(context.Background(), f, h)
}

// Bus шина наблюдателей помпы.
func (p *Pump) Bus() eventbus.EventBus { return p.bus }

// Stats снимок счётчиков.
func (p *Pump) Stats() Stats {
	s := p.stats.snapshot()
	s.Queued = p.backend.Len()
	return s
}
