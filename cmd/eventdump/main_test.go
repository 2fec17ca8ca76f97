package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/eventpump/internal/event"
	"github.com/annel0/eventpump/internal/replay"
)

// writeRecording создаёт файл записи с указанными событиями.
func writeRecording(t *testing.T, evs ...event.Event) string {
	t.Helper()
	rec, path, err := replay.Create(t.TempDir())
	require.NoError(t, err)
	for _, ev := range evs {
		raw, err := event.Encode(ev)
		require.NoError(t, err)
		require.NoError(t, rec.Record(raw))
	}
	require.NoError(t, rec.Close())
	return path
}

func TestTail(t *testing.T) {
	path := writeRecording(t,
		event.Window{Header: event.Header{Timestamp: 1}, WindowID: 2, Event: event.WindowResizedTo(800, 600)},
		event.KeyDown{Header: event.Header{Timestamp: 2}, Key: event.Key{Scancode: event.ScancodeEscape, Keycode: event.KeyEscape}},
		event.Quit{Header: event.Header{Timestamp: 3}},
	)

	var out bytes.Buffer
	require.NoError(t, run([]string{"-file", path}, &out))
	s := out.String()
	assert.Contains(t, s, "Window window=2 Resized (800,600)")
	assert.Contains(t, s, "KeyDown scancode=41")
	assert.Contains(t, s, "Total events: 3")

	out.Reset()
	require.NoError(t, run([]string{"-file", path, "-kinds", "Quit", "-limit", "5"}, &out))
	assert.Contains(t, out.String(), "Total events: 1")

	out.Reset()
	require.NoError(t, run([]string{"-file", path, "-limit", "2"}, &out))
	assert.Contains(t, out.String(), "Total events: 2")
}

func TestStats(t *testing.T) {
	path := writeRecording(t, event.Quit{}, event.Quit{}, event.MouseMotion{X: 1})

	var out bytes.Buffer
	require.NoError(t, run([]string{"-cmd", "stats", "-file", path}, &out))
	assert.Contains(t, out.String(), "Quit: 2 events")
	assert.Contains(t, out.String(), "MouseMotion: 1 events")
	assert.Contains(t, out.String(), "Total events: 3")
}

func TestKinds(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"-cmd", "kinds"}, &out))
	assert.Contains(t, out.String(), "0x0100 Quit")
	assert.Contains(t, out.String(), "receive-only")
}

func TestErrors(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, run([]string{"-cmd", "nope"}, &out))
	assert.Error(t, run([]string{"-cmd", "tail"}, &out))
	assert.Error(t, run([]string{"-kinds", "NoSuchKind"}, &out))
	assert.Error(t, run([]string{"-kinds", "KeyDown,12abc"}, &out))
}
