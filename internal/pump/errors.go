package pump

import (
	"errors"
	"fmt"

	"github.com/annel0/eventpump/internal/event"
)

var (
	// ErrPumpActive в процессе уже есть живая помпа.
	ErrPumpActive = errors.New("pump: another event pump is active")
	// ErrPumpClosed помпа закрыта.
	ErrPumpClosed = errors.New("pump: closed")
	// ErrNativePush нативная очередь отвергла запись.
	ErrNativePush = errors.New("pump: native push failed")
	// ErrNotRegistered тип полезной нагрузки не зарегистрирован.
	ErrNotRegistered = errors.New("pump: payload type not registered")
	// ErrPayloadReclaimed полезная нагрузка уже забрана.
	ErrPayloadReclaimed = errors.New("pump: payload already reclaimed")
	// ErrPayloadMismatch код события или значение не соответствуют типу.
	ErrPayloadMismatch = errors.New("pump: payload type mismatch")
)

// PushError отказ нативной очереди с её собственным текстом ошибки.
type PushError struct {
	Kind   event.Kind
	Native string
	Err    error
}

func (e *PushError) Error() string {
	return fmt.Sprintf("push %s: %s", e.Kind, e.Native)
}

// Unwrap позволяет проверять и ErrNativePush, и исходную ошибку бэкенда.
func (e *PushError) Unwrap() []error {
	return []error{ErrNativePush, e.Err}
}
