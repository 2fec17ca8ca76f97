package pump

import (
	"fmt"
	"reflect"

	"github.com/annel0/eventpump/internal/event"
	"github.com/annel0/eventpump/internal/handle"
	"github.com/annel0/eventpump/internal/logging"
	"github.com/annel0/eventpump/internal/native"
	"github.com/annel0/eventpump/internal/registry"
)

// Sender отправляет события в нативную очередь. Значение можно свободно
// копировать и использовать из нескольких горутин: очередь копирует
// запись при добавлении.
type Sender struct {
	queue    native.Queue
	codec    *event.Codec
	registry *registry.Registry
	stats    *counters
}

// NewSender создаёт отправителя поверх очереди без помпы. reg может быть
// nil, тогда PushCustom всегда возвращает ErrNotRegistered.
func NewSender(queue native.Queue, reg *registry.Registry) Sender {
	return Sender{queue: queue, codec: codecFor(reg), registry: reg}
}

// Push кодирует событие и добавляет его в очередь. Вид только для
// приёма отвергается до обращения к очереди.
func (s Sender) Push(ev event.Event) error {
	rec, err := s.codec.Encode(ev)
	if err != nil {
		return err
	}
	return s.push(ev.Kind(), rec)
}

// PushRaw добавляет готовую запись как есть.
func (s Sender) PushRaw(rec native.Record) error {
	return s.push(event.Kind(rec.Type()), rec)
}

func (s Sender) push(kind event.Kind, rec native.Record) error {
	if err := s.queue.Push(rec); err != nil {
		s.stats.pushFailed()
		logging.Debug("push %s отклонён очередью: %v", kind, err)
		return &PushError{Kind: kind, Native: err.Error(), Err: err}
	}
	s.stats.pushed()
	return nil
}

// PushCustom отправляет значение зарегистрированного типа. Значение
// переходит во владение очереди; получатель забирает его через
// ReclaimCustom. При отказе очереди значение освобождается здесь же.
func PushCustom[T any](s Sender, v T) error {
	code, ok := codeOf[T](s.registry)
	if !ok {
		return fmt.Errorf("%s: %w", reflect.TypeFor[T](), ErrNotRegistered)
	}
	h := handle.New(v)
	if err := s.Push(event.User{Type: code, Data1: uint64(h)}); err != nil {
		handle.Take(h)
		return err
	}
	return nil
}

// ReclaimCustom достаёт значение T из пользовательского события.
// Значение выдаётся ровно один раз.
func ReclaimCustom[T any](reg *registry.Registry, ev event.User) (T, error) {
	var zero T
	code, ok := codeOf[T](reg)
	if !ok {
		return zero, fmt.Errorf("%s: %w", reflect.TypeFor[T](), ErrNotRegistered)
	}
	if ev.Type != code {
		return zero, fmt.Errorf("event %s is not %s: %w", ev.Type, reflect.TypeFor[T](), ErrPayloadMismatch)
	}
	v, found, taken := handle.TakeIf(ev.Payload(), func(v any) bool {
		_, ok := v.(T)
		return ok
	})
	switch {
	case !found:
		return zero, ErrPayloadReclaimed
	case !taken:
		return zero, fmt.Errorf("payload %T is not %s: %w", v, reflect.TypeFor[T](), ErrPayloadMismatch)
	}
	return v.(T), nil
}

// IsCustom сообщает, несёт ли событие значение типа T.
func IsCustom[T any](reg *registry.Registry, ev event.Event) bool {
	code, ok := codeOf[T](reg)
	return ok && ev.Kind() == code
}

func codeOf[T any](reg *registry.Registry) (event.Kind, bool) {
	if reg == nil {
		return 0, false
	}
	return registry.CodeOf[T](reg)
}

func codecFor(reg *registry.Registry) *event.Codec {
	if reg == nil {
		return event.NewCodec(nil)
	}
	return event.NewCodec(reg)
}
