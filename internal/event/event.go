// Package event переводит нативные записи фиксированного формата в
// типизированные события и обратно.
//
// Каждому виду соответствует своя структура; все они реализуют Event.
// Обработка обычно выглядит как переключатель по типу:
//
//	switch e := ev.(type) {
//	case event.KeyDown:
//		...
//	case event.Window:
//		...
//	case event.Unhandled:
//		// вид неизвестен этой версии пакета
//	}
package event

import (
	"errors"

	"github.com/annel0/eventpump/internal/native"
)

// ErrEncodingUnsupported вид события нельзя отправить в очередь.
var ErrEncodingUnsupported = errors.New("event kind cannot be encoded")

// Event типизированное событие. Набор реализаций закрыт этим пакетом.
type Event interface {
	// Kind код классификации события.
	Kind() Kind
	// Time монотонная метка времени в миллисекундах.
	Time() uint32
	sealed()
}

// Header общие для всех событий поля.
type Header struct {
	Timestamp uint32
}

func (h Header) Time() uint32 { return h.Timestamp }

func (Header) sealed() {}

func header(r *native.Record) Header {
	return Header{Timestamp: r.Timestamp()}
}

// Unhandled запись, которую этот пакет не умеет разобрать: код новее
// поддерживаемой версии или незарегистрированный пользовательский код.
// Запись сохраняется целиком.
type Unhandled struct {
	Header
	Type   uint32
	Record native.Record
}

func (e Unhandled) Kind() Kind { return Kind(e.Type) }

// Виды, которые порождает только нативная библиотека.
var receiveOnly = map[Kind]struct{}{
	KindAppTerminating:         {},
	KindAppLowMemory:           {},
	KindAppWillEnterBackground: {},
	KindAppDidEnterBackground:  {},
	KindAppWillEnterForeground: {},
	KindAppDidEnterForeground:  {},
	KindTextEditing:            {},
	KindTextInput:              {},
	KindDollarGesture:          {},
	KindDollarRecord:           {},
	KindMultiGesture:           {},
	KindClipboardUpdate:        {},
	KindDropFile:               {},
	KindDropText:               {},
	KindDropBegin:              {},
	KindDropComplete:           {},
	KindAudioDeviceAdded:       {},
	KindAudioDeviceRemoved:     {},
	KindRenderTargetsReset:     {},
	KindRenderDeviceReset:      {},
}
