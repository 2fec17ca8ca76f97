// Package eventbus раздаёт разобранные события наблюдателям.
//
// Помпа публикует каждое извлечённое событие; подписчики получают его
// в своей горутине в том же порядке, в каком события покидали очередь.
// Медленный подписчик не тормозит помпу: при переполнении его буфера
// событие отбрасывается и учитывается в Stats.Dropped.
package eventbus

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/annel0/eventpump/internal/event"
)

// ErrClosed шина уже закрыта.
var ErrClosed = errors.New("eventbus: closed")

// DefaultBuffer размер буфера подписчика по умолчанию.
const DefaultBuffer = 1024

// Filter позволяет подписаться только на нужные виды событий.
type Filter struct {
	Kinds []event.Kind // Пустой список означает все виды.
}

// Match сообщает, проходит ли событие фильтр.
func (f Filter) Match(ev event.Event) bool {
	return len(f.Kinds) == 0 || slices.Contains(f.Kinds, ev.Kind())
}

// Subscription возвращается при подписке; позволяет отписаться.
type Subscription interface {
	Unsubscribe()
}

// Handler потребляет события.
type Handler func(ctx context.Context, ev event.Event)

// Stats агрегированные метрики шины.
type Stats struct {
	Published uint64
	Consumed  uint64
	Dropped   uint64
	InFlight  int
}

// EventBus абстракция шины событий.
type EventBus interface {
	Publish(ctx context.Context, ev event.Event) error
	Subscribe(ctx context.Context, f Filter, h Handler) (Subscription, error)
	Metrics() Stats
	Close()
}

//================ In-Memory implementation =================//

type memoryBus struct {
	mu          sync.RWMutex
	subscribers map[int]*subscriber
	nextID      int
	stats       Stats
	capacity    int
	closed      bool
	wg          sync.WaitGroup
}

type subscriber struct {
	filter  Filter
	handler Handler
	ctx     context.Context
	cancel  context.CancelFunc
	queue   chan event.Event
}

// NewMemoryBus создаёт in-memory шину; capacity размер буфера каждого
// подписчика.
func NewMemoryBus(capacity int) EventBus {
	if capacity <= 0 {
		capacity = DefaultBuffer
	}
	return &memoryBus{
		subscribers: make(map[int]*subscriber),
		capacity:    capacity,
	}
}

func (mb *memoryBus) Publish(ctx context.Context, ev event.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	mb.mu.Lock()
	defer mb.mu.Unlock()
	if mb.closed {
		return ErrClosed
	}
	mb.stats.Published++
	for _, sub := range mb.subscribers {
		if !sub.filter.Match(ev) {
			continue
		}
		select {
		case sub.queue <- ev:
		default:
			// Буфер подписчика заполнен
			mb.stats.Dropped++
		}
	}
	return nil
}

func (mb *memoryBus) Subscribe(ctx context.Context, f Filter, h Handler) (Subscription, error) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	if mb.closed {
		return nil, ErrClosed
	}
	id := mb.nextID
	mb.nextID++
	cctx, cancel := context.WithCancel(ctx)
	sub := &subscriber{
		filter:  f,
		handler: h,
		ctx:     cctx,
		cancel:  cancel,
		queue:   make(chan event.Event, mb.capacity),
	}
	mb.subscribers[id] = sub

	mb.wg.Add(1)
	go mb.dispatchLoop(sub)

	return &memSub{bus: mb, id: id}, nil
}

func (mb *memoryBus) Metrics() Stats {
	mb.mu.RLock()
	defer mb.mu.RUnlock()
	s := mb.stats
	for _, sub := range mb.subscribers {
		s.InFlight += len(sub.queue)
	}
	return s
}

// Close отписывает всех и дожидается завершения обработчиков.
func (mb *memoryBus) Close() {
	mb.mu.Lock()
	if mb.closed {
		mb.mu.Unlock()
		return
	}
	mb.closed = true
	for id, sub := range mb.subscribers {
		sub.cancel()
		delete(mb.subscribers, id)
	}
	mb.mu.Unlock()
	mb.wg.Wait()
}

// dispatchLoop доставляет события одному подписчику по порядку.
func (mb *memoryBus) dispatchLoop(sub *subscriber) {
	defer mb.wg.Done()
	for {
		select {
		case <-sub.ctx.Done():
			return
		case ev := <-sub.queue:
			sub.handler(sub.ctx, ev)
			mb.mu.Lock()
			mb.stats.Consumed++
			mb.mu.Unlock()
		}
	}
}

type memSub struct {
	bus  *memoryBus
	id   int
	once sync.Once
}

func (s *memSub) Unsubscribe() {
	s.once.Do(func() {
		s.bus.mu.Lock()
		if sub, ok := s.bus.subscribers[s.id]; ok {
			sub.cancel()
			delete(s.bus.subscribers, s.id)
		}
		s.bus.mu.Unlock()
	})
}
