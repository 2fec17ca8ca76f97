package pump

import (
	"sync"
	"sync/atomic"

	"github.com/annel0/eventpump/internal/event"
)

// Stats счётчики помпы с момента создания.
type Stats struct {
	Decoded    uint64
	Unhandled  uint64
	Pushed     uint64
	PushFailed uint64
	Queued     int
	ByKind     map[event.Kind]uint64
}

// counters безопасен для nil: отправитель без помпы ничего не считает.
type counters struct {
	decoded   atomic.Uint64
	unhandled atomic.Uint64
	pushedN   atomic.Uint64
	pushFailN atomic.Uint64
	mu        sync.Mutex
	byKind    map[event.Kind]uint64
}

func newCounters() *counters {
	return &counters{byKind: make(map[event.Kind]uint64)}
}

func (c *counters) observe(ev event.Event) {
	if c == nil {
		return
	}
	c.decoded.Add(1)
	if _, ok := ev.(event.Unhandled); ok {
		c.unhandled.Add(1)
	}
	c.mu.Lock()
	c.byKind[ev.Kind()]++
	c.mu.Unlock()
}

func (c *counters) pushed() {
	if c != nil {
		c.pushedN.Add(1)
	}
}

func (c *counters) pushFailed() {
	if c != nil {
		c.pushFailN.Add(1)
	}
}

func (c *counters) snapshot() Stats {
	s := Stats{
		Decoded:    c.decoded.Load(),
		Unhandled:  c.unhandled.Load(),
		Pushed:     c.pushedN.Load(),
		PushFailed: c.pushFailN.Load(),
	}
	c.mu.Lock()
	s.ByKind = make(map[event.Kind]uint64, len(c.byKind))
	for k, n := range c.byKind {
		s.ByKind[k] = n
	}
	c.mu.Unlock()
	return s
}
