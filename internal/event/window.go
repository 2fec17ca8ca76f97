package event

import (
	"fmt"

	"github.com/annel0/eventpump/internal/native"
)

// WindowEventID подвид оконного события.
type WindowEventID uint8

const (
	WindowNone WindowEventID = iota
	WindowShown
	WindowHidden
	WindowExposed
	WindowMoved
	WindowResized
	WindowSizeChanged
	WindowMinimized
	WindowMaximized
	WindowRestored
	WindowEnter
	WindowLeave
	WindowFocusGained
	WindowFocusLost
	WindowClose
	WindowTakeFocus
	WindowHitTest
	WindowICCProfileChanged
	WindowDisplayChanged
)

var windowEventNames = [...]string{
	"None", "Shown", "Hidden", "Exposed", "Moved", "Resized", "SizeChanged",
	"Minimized", "Maximized", "Restored", "Enter", "Leave", "FocusGained",
	"FocusLost", "Close", "TakeFocus", "HitTest", "ICCProfileChanged", "DisplayChanged",
}

func (id WindowEventID) String() string {
	if int(id) < len(windowEventNames) {
		return windowEventNames[id]
	}
	return fmt.Sprintf("WindowEvent(%d)", uint8(id))
}

// Params число значимых параметров подвида. Для неизвестных подвидов
// сохраняются оба параметра.
func (id WindowEventID) Params() int {
	switch id {
	case WindowMoved, WindowResized, WindowSizeChanged:
		return 2
	case WindowDisplayChanged:
		return 1
	}
	if int(id) < len(windowEventNames) {
		return 0
	}
	return 2
}

// WindowEvent подвид и его параметры. Смысл Data1/Data2 зависит от ID:
// для Moved это x и y, для Resized ширина и высота, для DisplayChanged
// индекс дисплея. Незначимые параметры всегда равны нулю.
type WindowEvent struct {
	ID    WindowEventID
	Data1 int32
	Data2 int32
}

// WindowMovedTo окно перемещено в (x, y).
func WindowMovedTo(x, y int32) WindowEvent {
	return WindowEvent{ID: WindowMoved, Data1: x, Data2: y}
}

// WindowResizedTo размер окна изменён пользователем.
func WindowResizedTo(w, h int32) WindowEvent {
	return WindowEvent{ID: WindowResized, Data1: w, Data2: h}
}

// WindowSizeChangedTo размер окна изменён программно или системой.
func WindowSizeChangedTo(w, h int32) WindowEvent {
	return WindowEvent{ID: WindowSizeChanged, Data1: w, Data2: h}
}

// WindowOnDisplay окно переместилось на другой дисплей.
func WindowOnDisplay(display int32) WindowEvent {
	return WindowEvent{ID: WindowDisplayChanged, Data1: display}
}

// Window событие окна.
type Window struct {
	Header
	WindowID uint32
	Event    WindowEvent
}

func (Window) Kind() Kind { return KindWindow }

const (
	offWindowID    = 8
	offWindowEvent = 12
	offWindowData1 = 16
	offWindowData2 = 20
)

func decodeWindow(r *native.Record) Event {
	we := WindowEvent{ID: WindowEventID(r.U8(offWindowEvent))}
	switch we.ID.Params() {
	case 2:
		we.Data2 = r.I32(offWindowData2)
		fallthrough
	case 1:
		we.Data1 = r.I32(offWindowData1)
	}
	return Window{Header: header(r), WindowID: r.U32(offWindowID), Event: we}
}

func (e Window) put(r *native.Record) {
	r.PutU32(offWindowID, e.WindowID)
	r.PutU8(offWindowEvent, uint8(e.Event.ID))
	switch e.Event.ID.Params() {
	case 2:
		r.PutI32(offWindowData2, e.Event.Data2)
		fallthrough
	case 1:
		r.PutI32(offWindowData1, e.Event.Data1)
	}
}
