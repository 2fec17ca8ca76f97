package pump

import (
	"iter"
	"time"

	"github.com/annel0/eventpump/internal/event"
)

// PollIter неблокирующий итератор. false от Next не завершает
// последовательность: следующий вызов может вернуть событие.
type PollIter struct {
	p *Pump
}

// Next забирает одно событие, если оно есть.
func (it PollIter) Next() (event.Event, bool) {
	return it.p.PollEvent()
}

// Drain выдаёт события, пока очередь не опустеет. Удобно для
// обработки всего накопленного за кадр.
func (it PollIter) Drain() iter.Seq[event.Event] {
	return func(yield func(event.Event) bool) {
		for {
			ev, ok := it.Next()
			if !ok || !yield(ev) {
				return
			}
		}
	}
}

// WaitIter блокирующий итератор без ограничения времени.
type WaitIter struct {
	p *Pump
}

// Next блокируется до следующего события. Ошибка означает закрытие
// очереди или помпы.
func (it WaitIter) Next() (event.Event, error) {
	return it.p.WaitEvent()
}

// WaitTimeoutIter блокирующий итератор с таймаутом на каждый шаг.
type WaitTimeoutIter struct {
	p       *Pump
	timeout time.Duration
}

// Next ждёт не дольше заданного при создании времени.
func (it WaitTimeoutIter) Next() (event.Event, bool) {
	return it.p.WaitEventTimeout(it.timeout)
}
