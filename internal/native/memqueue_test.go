package native

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(code, ts uint32) Record {
	var r Record
	r.SetType(code)
	r.SetTimestamp(ts)
	return r
}

func TestRecordAccessors(t *testing.T) {
	var r Record
	r.PutI32(8, -5)
	r.PutU64(16, 1<<40)
	r.PutF32(24, 1.5)
	r.PutI16(30, -2)
	r.PutCString(32, 8, "abcdefghij")

	assert.Equal(t, int32(-5), r.I32(8))
	assert.Equal(t, uint64(1<<40), r.U64(16))
	assert.Equal(t, float32(1.5), r.F32(24))
	assert.Equal(t, int16(-2), r.I16(30))
	assert.Equal(t, "abcdefg", r.CString(32, 8), "строка обрезается с местом под ноль")
	assert.Zero(t, r[39])
}

func TestQueueFIFO(t *testing.T) {
	q := NewMemQueue(0)
	for i := uint32(1); i <= 3; i++ {
		require.NoError(t, q.Push(rec(0x100, i)))
	}
	for i := uint32(1); i <= 3; i++ {
		r, ok := q.Poll()
		require.True(t, ok)
		assert.Equal(t, i, r.Timestamp())
	}
	_, ok := q.Poll()
	assert.False(t, ok)
}

func TestQueueCapacityAndClose(t *testing.T) {
	q := NewMemQueue(2)
	require.NoError(t, q.Push(rec(0x100, 1)))
	require.NoError(t, q.Push(rec(0x100, 1)))
	assert.ErrorIs(t, q.Push(rec(0x100, 1)), ErrQueueFull)

	q.Close()
	assert.ErrorIs(t, q.Push(rec(0x100, 1)), ErrClosed)

	// ожидающие записи всё ещё можно забрать
	_, err := q.Wait()
	require.NoError(t, err)
	_, err = q.Wait()
	require.NoError(t, err)
	_, err = q.Wait()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestQueueStampsZeroTimestamp(t *testing.T) {
	q := NewMemQueue(0)
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, q.Push(rec(0x100, 0)))
	r, _ := q.Poll()
	assert.NotZero(t, r.Timestamp())
}

func TestWaitTimeout(t *testing.T) {
	q := NewMemQueue(0)

	start := time.Now()
	_, ok := q.WaitTimeout(30 * time.Millisecond)
	assert.False(t, ok)
	assert.GreaterOrEqual(t, time.Since(start), 25*time.Millisecond)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		time.Sleep(5 * time.Millisecond)
		_ = q.Push(rec(0x300, 1))
	}()
	r, ok := q.WaitTimeout(time.Second)
	require.True(t, ok)
	assert.Equal(t, uint32(0x300), r.Type())
	wg.Wait()
}

func TestPeekFlushAndDisable(t *testing.T) {
	q := NewMemQueue(0)
	for _, code := range []uint32{0x100, 0x300, 0x301, 0x400} {
		require.NoError(t, q.Push(rec(code, 1)))
	}
	assert.Len(t, q.Peek(10, 0x300, 0x3FF), 2)
	assert.Len(t, q.Peek(1, 0, LastEvent), 1)
	assert.Nil(t, q.Peek(0, 0, LastEvent))
	assert.Equal(t, 4, q.Len())

	removed := q.Flush(0x300, 0x3FF)
	require.Len(t, removed, 2)
	assert.Equal(t, uint32(0x300), removed[0].Type())
	assert.Equal(t, uint32(0x301), removed[1].Type())
	assert.Equal(t, 2, q.Len())
	assert.Empty(t, q.Flush(0x300, 0x3FF))

	assert.True(t, q.SetEnabled(0x400, false))
	assert.Equal(t, 2, q.Len(), "выключение не трогает стоящие записи")
	assert.ErrorIs(t, q.Push(rec(0x400, 1)), ErrFiltered)
	assert.Len(t, q.Flush(0x400, 0x400), 1)
	assert.Equal(t, 1, q.Len())
	assert.False(t, q.Enabled(0x400))
	assert.False(t, q.SetEnabled(0x400, true))
}

func TestRegisterEvents(t *testing.T) {
	q := NewMemQueue(0)
	first, err := q.RegisterEvents(2)
	require.NoError(t, err)
	assert.Equal(t, uint32(UserEvent+1), first)

	next, err := q.RegisterEvents(1)
	require.NoError(t, err)
	assert.Equal(t, first+2, next)

	_, err = q.RegisterEvents(0)
	assert.ErrorIs(t, err, ErrRangeExhausted)
	_, err = q.RegisterEvents(int(LastEvent))
	assert.ErrorIs(t, err, ErrRangeExhausted)
}

func TestInputState(t *testing.T) {
	q := NewMemQueue(0)
	q.SetKey(4, true)
	q.SetKey(NumScancodes, true)
	ks := q.KeyboardState()
	assert.Equal(t, uint8(1), ks[4])
	ks[4] = 0
	assert.Equal(t, uint8(1), q.KeyboardState()[4], "снимок должен быть копией")

	q.SetMouse(1, 10, 10)
	assert.Zero(t, q.RelativeMouseState().X)
	q.SetMouse(1, 13, 7)
	rel := q.RelativeMouseState()
	assert.Equal(t, int32(3), rel.X)
	assert.Equal(t, int32(-3), rel.Y)
	assert.Equal(t, MouseSnapshot{Buttons: 1, X: 13, Y: 7}, q.MouseState())
}
