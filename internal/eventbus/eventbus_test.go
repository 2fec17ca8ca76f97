package eventbus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/annel0/eventpump/internal/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeliveryIsOrderedAndFiltered(t *testing.T) {
	bus := NewMemoryBus(16)
	defer bus.Close()

	var (
		mu  sync.Mutex
		got []uint32
	)
	done := make(chan struct{})
	_, err := bus.Subscribe(context.Background(), Filter{Kinds: []event.Kind{event.KindKeyDown}}, func(ctx context.Context, ev event.Event) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, ev.Time())
		if len(got) == 5 {
			close(done)
		}
	})
	require.NoError(t, err)

	for i := uint32(1); i <= 5; i++ {
		require.NoError(t, bus.Publish(context.Background(), event.KeyDown{Header: event.Header{Timestamp: i}}))
		require.NoError(t, bus.Publish(context.Background(), event.Quit{}))
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("события не доставлены")
	}
	mu.Lock()
	assert.Equal(t, []uint32{1, 2, 3, 4, 5}, got)
	mu.Unlock()

	assert.Eventually(t, func() bool { return bus.Metrics().Consumed == 5 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, uint64(10), bus.Metrics().Published)
}

func TestSlowSubscriberDrops(t *testing.T) {
	bus := NewMemoryBus(1)
	defer bus.Close()

	release := make(chan struct{})
	_, err := bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev event.Event) {
		<-release
	})
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		require.NoError(t, bus.Publish(context.Background(), event.Quit{}))
	}
	close(release)

	stats := bus.Metrics()
	assert.Equal(t, uint64(10), stats.Published)
	assert.GreaterOrEqual(t, stats.Dropped, uint64(8))
}

func TestUnsubscribeAndClose(t *testing.T) {
	bus := NewMemoryBus(4)

	calls := 0
	sub, err := bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev event.Event) { calls++ })
	require.NoError(t, err)
	sub.Unsubscribe()
	sub.Unsubscribe()

	require.NoError(t, bus.Publish(context.Background(), event.Quit{}))
	bus.Close()
	assert.Zero(t, calls)

	assert.ErrorIs(t, bus.Publish(context.Background(), event.Quit{}), ErrClosed)
	_, err = bus.Subscribe(context.Background(), Filter{}, func(context.Context, event.Event) {})
	assert.ErrorIs(t, err, ErrClosed)
	bus.Close()
}

func TestFilterMatch(t *testing.T) {
	assert.True(t, Filter{}.Match(event.Quit{}))
	f := Filter{Kinds: []event.Kind{event.KindMouseMotion, event.KindWindow}}
	assert.True(t, f.Match(event.Window{}))
	assert.False(t, f.Match(event.Quit{}))
}

func TestLoggingListener(t *testing.T) {
	bus := NewMemoryBus(4)
	defer bus.Close()

	sub, err := StartLoggingListener(bus, Filter{})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(context.Background(), event.Quit{}))
	assert.Eventually(t, func() bool { return bus.Metrics().Consumed == 1 }, time.Second, 5*time.Millisecond)
	sub.Unsubscribe()
}
