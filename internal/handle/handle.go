// Package handle позволяет значению Go пройти через нетипизированную
// нативную очередь в виде целочисленной ссылки.
//
// Это единственное место, где ссылка из сырой записи превращается обратно
// в значение. Владение передаётся ровно один раз: Take возвращает значение
// и удаляет запись из таблицы, повторный Take сообщает об отсутствии.
// Таблица живёт всё время работы процесса; ссылки никогда не
// переиспользуются, поэтому устаревшая ссылка не может указать на чужое значение.
package handle

import (
	"sync"
	"sync/atomic"
)

// Handle непрозрачная ссылка на значение в таблице. Ноль не выдаётся.
type Handle uint64

var (
	mu     sync.Mutex
	values = make(map[Handle]any)
	next   atomic.Uint64
)

// New помещает v в таблицу и возвращает ссылку на него.
func New(v any) Handle {
	h := Handle(next.Add(1))
	mu.Lock()
	values[h] = v
	mu.Unlock()
	return h
}

// Take забирает значение и освобождает ссылку.
func Take(h Handle) (any, bool) {
	mu.Lock()
	defer mu.Unlock()
	v, ok := values[h]
	if ok {
		delete(values, h)
	}
	return v, ok
}

// Peek возвращает значение, не забирая его.
func Peek(h Handle) (any, bool) {
	mu.Lock()
	defer mu.Unlock()
	v, ok := values[h]
	return v, ok
}

// Live число ещё не забранных значений.
func Live() int {
	mu.Lock()
	defer mu.Unlock()
	return len(values)
}

// TakeIf забирает значение, только если match его принимает.
// found сообщает, была ли ссылка в таблице.
func TakeIf(h Handle, match func(any) bool) (v any, found, taken bool) {
	mu.Lock()
	defer mu.Unlock()
	v, found = values[h]
	if !found || !match(v) {
		return v, found, false
	}
	delete(values, h)
	return v, true, true
}
