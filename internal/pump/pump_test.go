package pump

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/annel0/eventpump/internal/event"
	"github.com/annel0/eventpump/internal/eventbus"
	"github.com/annel0/eventpump/internal/handle"
	"github.com/annel0/eventpump/internal/native"
	"github.com/annel0/eventpump/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatMessage struct {
	From string
	Text string
}

type scoreUpdate struct {
	Score int
}

// newTestPump создаёт помпу над очередью в памяти и закрывает её по
// завершении теста.
func newTestPump(t *testing.T, opts ...Option) (*Pump, *native.MemQueue) {
	t.Helper()
	q := native.NewMemQueue(0)
	p, err := New(q, registry.New(q), opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		p.Close()
		q.Close()
	})
	return p, q
}

func TestSinglePumpPerProcess(t *testing.T) {
	p, q := newTestPump(t)

	_, err := New(q, nil)
	assert.ErrorIs(t, err, ErrPumpActive)

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	again, err := New(q, nil)
	require.NoError(t, err)
	again.Close()
}

func TestPushThenPoll(t *testing.T) {
	p, _ := newTestPump(t)
	s := p.Sender()

	require.NoError(t, s.Push(event.Quit{Header: event.Header{Timestamp: 7}}))
	require.NoError(t, s.Push(event.KeyDown{Header: event.Header{Timestamp: 8}, Key: event.Key{Scancode: event.ScancodeEscape}}))

	ev, ok := p.PollEvent()
	require.True(t, ok)
	assert.Equal(t, event.Quit{Header: event.Header{Timestamp: 7}}, ev)

	ev, ok = p.PollIter().Next()
	require.True(t, ok)
	assert.Equal(t, event.KindKeyDown, ev.Kind())

	_, ok = p.PollEvent()
	assert.False(t, ok)

	st := p.Stats()
	assert.Equal(t, uint64(2), st.Pushed)
	assert.Equal(t, uint64(2), st.Decoded)
	assert.Equal(t, uint64(1), st.ByKind[event.KindQuit])
	assert.Zero(t, st.Queued)
}

func TestPushReceiveOnlyDoesNotTouchQueue(t *testing.T) {
	p, q := newTestPump(t)

	err := p.Sender().Push(event.DropBegin{})
	assert.ErrorIs(t, err, event.ErrEncodingUnsupported)
	assert.Zero(t, q.Len())
	assert.Zero(t, p.Stats().Pushed)
}

func TestPushNativeFailure(t *testing.T) {
	q := native.NewMemQueue(1)
	s := NewSender(q, nil)

	require.NoError(t, s.Push(event.Quit{}))
	err := s.Push(event.Quit{})
	require.Error(t, err)

	var pe *PushError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, event.KindQuit, pe.Kind)
	assert.Equal(t, native.ErrQueueFull.Error(), pe.Native)
	assert.ErrorIs(t, err, ErrNativePush)
	assert.ErrorIs(t, err, native.ErrQueueFull)
}

func TestCustomRoundTrip(t *testing.T) {
	p, _ := newTestPump(t)
	_, err := registry.RegisterType[chatMessage](p.Registry())
	require.NoError(t, err)
	_, err = registry.RegisterType[scoreUpdate](p.Registry())
	require.NoError(t, err)

	before := handle.Live()
	msg := chatMessage{From: "alice", Text: "hi"}
	require.NoError(t, PushCustom(p.Sender(), msg))

	ev, ok := p.PollEvent()
	require.True(t, ok)
	u, ok := ev.(event.User)
	require.True(t, ok, "ожидалось пользовательское событие, получено %T", ev)
	assert.True(t, IsCustom[chatMessage](p.Registry(), u))
	assert.False(t, IsCustom[scoreUpdate](p.Registry(), u))

	_, err = ReclaimCustom[scoreUpdate](p.Registry(), u)
	assert.ErrorIs(t, err, ErrPayloadMismatch)

	got, err := ReclaimCustom[chatMessage](p.Registry(), u)
	require.NoError(t, err)
	assert.Equal(t, msg, got)

	_, err = ReclaimCustom[chatMessage](p.Registry(), u)
	assert.ErrorIs(t, err, ErrPayloadReclaimed)
	assert.Equal(t, before, handle.Live())
}

func TestPushCustomUnregistered(t *testing.T) {
	p, q := newTestPump(t)

	err := PushCustom(p.Sender(), scoreUpdate{Score: 1})
	assert.ErrorIs(t, err, ErrNotRegistered)
	assert.Zero(t, q.Len())

	err = PushCustom(NewSender(q, nil), scoreUpdate{Score: 1})
	assert.ErrorIs(t, err, ErrNotRegistered)
}

func TestPushCustomFailureReleasesPayload(t *testing.T) {
	q := native.NewMemQueue(1)
	reg := registry.New(q)
	_, err := registry.RegisterType[scoreUpdate](reg)
	require.NoError(t, err)
	s := NewSender(q, reg)

	require.NoError(t, s.Push(event.Quit{}))
	before := handle.Live()
	err = PushCustom(s, scoreUpdate{Score: 5})
	assert.ErrorIs(t, err, ErrNativePush)
	assert.Equal(t, before, handle.Live())
}

func TestReclaimForgedPayload(t *testing.T) {
	q := native.NewMemQueue(0)
	reg := registry.New(q)
	code, err := registry.RegisterType[scoreUpdate](reg)
	require.NoError(t, err)

	h := handle.New("not a score")
	defer handle.Take(h)

	_, err = ReclaimCustom[scoreUpdate](reg, event.User{Type: code, Data1: uint64(h)})
	assert.ErrorIs(t, err, ErrPayloadMismatch)
	_, still := handle.Peek(h)
	assert.True(t, still, "чужое значение не должно забираться")
}

func TestWaitTimeoutIsBounded(t *testing.T) {
	p, _ := newTestPump(t)

	start := time.Now()
	_, ok := p.WaitEventTimeout(50 * time.Millisecond)
	elapsed := time.Since(start)
	assert.False(t, ok)
	assert.GreaterOrEqual(t, elapsed, 40*time.Millisecond)
	assert.Less(t, elapsed, 200*time.Millisecond)

	start = time.Now()
	_, ok = p.WaitTimeoutIter(50 * time.Millisecond).Next()
	assert.False(t, ok)
	assert.Less(t, time.Since(start), 200*time.Millisecond)
}

func TestPollDoesNotBlock(t *testing.T) {
	p, _ := newTestPump(t)

	start := time.Now()
	_, ok := p.PollEvent()
	assert.False(t, ok)
	assert.Less(t, time.Since(start), 5*time.Millisecond)
}

func TestWaitWakesOnPushFromOtherGoroutine(t *testing.T) {
	p, _ := newTestPump(t)
	s := p.Sender()

	go func() {
		time.Sleep(10 * time.Millisecond)
		_ = s.Push(event.Window{WindowID: 2, Event: event.WindowResizedTo(640, 480)})
	}()

	ev, err := p.WaitIter().Next()
	require.NoError(t, err)
	assert.Equal(t, event.Window{WindowID: 2, Event: event.WindowResizedTo(640, 480)}, stripTime(ev))

	go func() {
		time.Sleep(10 * time.Millisecond)
		_ = s.Push(event.Quit{})
	}()
	ev, ok := p.WaitEventTimeout(time.Second)
	require.True(t, ok)
	assert.Equal(t, event.KindQuit, ev.Kind())
}

// stripTime обнуляет метку времени, проставленную очередью.
func stripTime(ev event.Event) event.Event {
	if w, ok := ev.(event.Window); ok {
		w.Header = event.Header{}
		return w
	}
	return ev
}

func TestWaitAfterCloseFails(t *testing.T) {
	p, q := newTestPump(t)
	require.NoError(t, p.Close())

	_, err := p.WaitEvent()
	assert.ErrorIs(t, err, ErrPumpClosed)
	_, ok := p.PollEvent()
	assert.False(t, ok)
	q.Close()
}

func TestDrainEmptiesQueue(t *testing.T) {
	p, _ := newTestPump(t)
	s := p.Sender()
	for i := 1; i <= 5; i++ {
		require.NoError(t, s.Push(event.JoyDeviceAdded{Header: event.Header{Timestamp: uint32(i)}, Which: int32(i)}))
	}

	var got []int32
	for ev := range p.PollIter().Drain() {
		got = append(got, ev.(event.JoyDeviceAdded).Which)
		if len(got) == 3 {
			break
		}
	}
	assert.Equal(t, []int32{1, 2, 3}, got)

	n := 0
	for range p.PollIter().Drain() {
		n++
	}
	assert.Equal(t, 2, n)
}

func TestKindStateAndFlush(t *testing.T) {
	p, q := newTestPump(t)
	s := p.Sender()

	assert.True(t, p.IsKindEnabled(event.KindMouseMotion))
	require.NoError(t, s.Push(event.MouseMotion{X: 1}))
	assert.True(t, p.DisableKind(event.KindMouseMotion))
	assert.Zero(t, q.Len(), "выключение удаляет ожидающие события")

	err := s.Push(event.MouseMotion{X: 2})
	assert.ErrorIs(t, err, ErrNativePush)
	assert.ErrorIs(t, err, native.ErrFiltered)
	assert.Zero(t, q.Len())
	assert.Equal(t, uint64(1), p.Stats().PushFailed)
	assert.False(t, p.EnableKind(event.KindMouseMotion))

	require.NoError(t, s.Push(event.KeyDown{}))
	require.NoError(t, s.Push(event.KeyUp{}))
	require.NoError(t, s.Push(event.Quit{}))
	p.FlushKind(event.KindQuit)
	assert.Equal(t, 2, q.Len())
	p.FlushKinds(event.KindKeyDown, event.KindTextInput)
	assert.Zero(t, q.Len())
}

func TestPushCustomToDisabledKindReleasesPayload(t *testing.T) {
	p, q := newTestPump(t)
	code, err := registry.RegisterType[scoreUpdate](p.Registry())
	require.NoError(t, err)
	p.DisableKind(code)

	before := handle.Live()
	err = PushCustom(p.Sender(), scoreUpdate{Score: 9})
	assert.ErrorIs(t, err, native.ErrFiltered)
	assert.Zero(t, q.Len())
	assert.Equal(t, before, handle.Live())
}

func TestFlushReleasesPendingPayloads(t *testing.T) {
	p, q := newTestPump(t)
	code, err := registry.RegisterType[chatMessage](p.Registry())
	require.NoError(t, err)

	before := handle.Live()
	require.NoError(t, PushCustom(p.Sender(), chatMessage{From: "bob", Text: "one"}))
	require.NoError(t, PushCustom(p.Sender(), chatMessage{From: "bob", Text: "two"}))
	require.NoError(t, q.Push(event.NewDropRecord(event.KindDropFile, 1, 1, "/tmp/b.png")))
	require.NoError(t, p.Sender().Push(event.User{Type: event.KindUser, Data1: 77}))
	assert.Equal(t, before+3, handle.Live())

	p.FlushKind(code)
	assert.Equal(t, before+1, handle.Live())
	assert.Equal(t, 2, q.Len())

	p.FlushKinds(event.KindDropFile, event.KindDropFile)
	assert.Equal(t, before, handle.Live())

	ev, ok := p.PollEvent()
	require.True(t, ok)
	assert.Equal(t, uint64(77), ev.(event.User).Data1)
}

func TestDisableKindReleasesPendingPayloads(t *testing.T) {
	p, q := newTestPump(t)
	code, err := registry.RegisterType[scoreUpdate](p.Registry())
	require.NoError(t, err)

	before := handle.Live()
	require.NoError(t, PushCustom(p.Sender(), scoreUpdate{Score: 1}))
	require.NoError(t, q.Push(event.NewDropRecord(event.KindDropText, 1, 1, "text")))

	assert.True(t, p.DisableKind(code))
	assert.True(t, p.DisableKind(event.KindDropText))
	assert.Zero(t, q.Len())
	assert.Equal(t, before, handle.Live())
}

func TestPeekLeavesEvents(t *testing.T) {
	p, q := newTestPump(t)
	require.NoError(t, q.Push(event.NewDropRecord(event.KindDropFile, 1, 3, "/tmp/a.png")))
	require.NoError(t, p.Sender().Push(event.Quit{Header: event.Header{Timestamp: 2}}))

	peeked := p.PeekEvents(10, event.KindFirst, event.KindLast)
	require.Len(t, peeked, 2)
	assert.Equal(t, event.DropFile{Header: event.Header{Timestamp: 1}, Path: "/tmp/a.png", WindowID: 3}, peeked[0])
	assert.Len(t, p.PeekEvents(10, event.KindDropFile, event.KindDropComplete), 1)
	assert.Equal(t, 2, q.Len())

	ev, ok := p.PollEvent()
	require.True(t, ok)
	assert.Equal(t, "/tmp/a.png", ev.(event.DropFile).Path)
}

func TestInputState(t *testing.T) {
	p, q := newTestPump(t)

	q.SetKey(uint32(event.ScancodeEscape), true)
	ks := p.KeyboardState()
	assert.True(t, ks.Pressed(event.ScancodeEscape))
	assert.False(t, ks.Pressed(event.Scancode(native.NumScancodes+10)))
	assert.Equal(t, []event.Scancode{event.ScancodeEscape}, ks.PressedScancodes())

	q.SetMouse(uint32(event.ButtonLeft.Mask()), 10, 20)
	q.SetMouse(uint32(event.ButtonLeft.Mask()), 15, 18)
	ms := p.MouseState()
	assert.Equal(t, int32(15), ms.X)
	assert.True(t, ms.Pressed(event.ButtonLeft))
	assert.False(t, ms.Pressed(event.ButtonRight))

	rel := p.RelativeMouseState()
	assert.Equal(t, int32(5), rel.X)
	assert.Equal(t, int32(-2), rel.Y)
	assert.Zero(t, p.RelativeMouseState().X)
}

func TestPumpEventsPullsSources(t *testing.T) {
	p, q := newTestPump(t)
	q.AddSource(func() []native.Record {
		rec, _ := event.Encode(event.FingerDown{Finger: event.Finger{FingerID: 9}})
		return []native.Record{rec}
	})

	p.PumpEvents()
	ev, ok := p.PollEvent()
	require.True(t, ok)
	assert.Equal(t, int64(9), ev.(event.FingerDown).FingerID)
}

func TestWatchSeesDrainedEvents(t *testing.T) {
	p, _ := newTestPump(t)

	var (
		mu  sync.Mutex
		got []event.Kind
	)
	_, err := p.AddWatch(eventbus.Filter{Kinds: []event.Kind{event.KindQuit}}, func(ctx context.Context, ev event.Event) {
		mu.Lock()
		got = append(got, ev.Kind())
		mu.Unlock()
	})
	require.NoError(t, err)

	require.NoError(t, p.Sender().Push(event.KeyDown{}))
	require.NoError(t, p.Sender().Push(event.Quit{}))
	for range p.PollIter().Drain() {
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, time.Second, 5*time.Millisecond)
}

type recordingTap struct {
	mu    sync.Mutex
	kinds []uint32
}

func (r *recordingTap) Record(rec native.Record) error {
	r.mu.Lock()
	r.kinds = append(r.kinds, rec.Type())
	r.mu.Unlock()
	return nil
}

func TestTapSeesRawRecords(t *testing.T) {
	tap := &recordingTap{}
	p, q := newTestPump(t, WithTap(tap))

	var raw native.Record
	raw.SetType(0x1234)
	require.NoError(t, q.Push(raw))
	require.NoError(t, p.Sender().Push(event.Quit{}))

	ev, ok := p.PollEvent()
	require.True(t, ok)
	assert.IsType(t, event.Unhandled{}, ev)
	_, _ = p.PollEvent()

	assert.Equal(t, []uint32{0x1234, uint32(event.KindQuit)}, tap.kinds)
	assert.Equal(t, uint64(1), p.Stats().Unhandled)
}

func TestExternalBusIsNotClosed(t *testing.T) {
	bus := eventbus.NewMemoryBus(8)
	defer bus.Close()
	p, _ := newTestPump(t, WithBus(bus))
	require.NoError(t, p.Close())

	assert.NoError(t, bus.Publish(context.Background(), event.Quit{}))
}
