package handle

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTakeExactlyOnce(t *testing.T) {
	h := New("payload")
	require.NotZero(t, h)

	v, ok := Peek(h)
	require.True(t, ok)
	assert.Equal(t, "payload", v)

	v, ok = Take(h)
	require.True(t, ok)
	assert.Equal(t, "payload", v)

	_, ok = Take(h)
	assert.False(t, ok, "повторный Take должен сообщать об отсутствии")
	_, ok = Peek(h)
	assert.False(t, ok)
}

func TestHandlesAreNeverReused(t *testing.T) {
	a := New(1)
	_, _ = Take(a)
	b := New(2)
	assert.NotEqual(t, a, b)
	_, _ = Take(b)
}

func TestUnknownHandle(t *testing.T) {
	_, ok := Take(0)
	assert.False(t, ok)
	_, ok = Take(Handle(^uint64(0)))
	assert.False(t, ok)
}

func TestConcurrentNewTake(t *testing.T) {
	before := Live()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h := New(i)
			v, ok := Take(h)
			assert.True(t, ok)
			assert.Equal(t, i, v)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, before, Live())
}

func TestTakeIf(t *testing.T) {
	h := New(42)
	isString := func(v any) bool { _, ok := v.(string); return ok }

	v, found, taken := TakeIf(h, isString)
	assert.True(t, found)
	assert.False(t, taken)
	assert.Equal(t, 42, v)

	_, found, taken = TakeIf(h, func(any) bool { return true })
	assert.True(t, found)
	assert.True(t, taken)

	_, found, taken = TakeIf(h, func(any) bool { return true })
	assert.False(t, found)
	assert.False(t, taken)
}
