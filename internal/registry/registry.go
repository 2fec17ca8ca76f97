// Package registry связывает типы пользовательских событий с кодами
// классификации, выданными нативным слоем.
//
// Записи только добавляются: нативная библиотека никогда не переиспользует
// выданные коды, поэтому и связь тип-код живёт до конца процесса.
package registry

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/annel0/eventpump/internal/event"
	"github.com/annel0/eventpump/internal/logging"
	"github.com/annel0/eventpump/internal/native"
)

var (
	// ErrAlreadyRegistered тип уже зарегистрирован; повторная регистрация
	// не возвращает прежний код, а считается ошибкой вызывающего.
	ErrAlreadyRegistered = errors.New("event type already registered")
	// ErrNilType передан nil вместо типа.
	ErrNilType = errors.New("event type is nil")
)

// Entry одна связь тип-код.
type Entry struct {
	Code event.Kind
	Type reflect.Type
}

// Registry двусторонняя связь типов полезной нагрузки и кодов.
// Чтение безопасно из нескольких горутин.
type Registry struct {
	mu        sync.RWMutex
	registrar native.Registrar
	byType    map[reflect.Type]event.Kind
	byCode    map[event.Kind]reflect.Type
}

// New создаёт пустой реестр, получающий коды от registrar.
func New(registrar native.Registrar) *Registry {
	return &Registry{
		registrar: registrar,
		byType:    make(map[reflect.Type]event.Kind),
		byCode:    make(map[event.Kind]reflect.Type),
	}
}

// Register выделяет код для типа t. Выделение кода выполняется под той же
// блокировкой, что и вставка: два конкурентных вызова для одного типа не
// получат два кода. Поэтому native.Registrar.RegisterEvents обязан
// возвращаться без блокировки и не вызывать методы реестра.
func (r *Registry) Register(t reflect.Type) (event.Kind, error) {
	if t == nil {
		return 0, ErrNilType
	}
	code, err := r.register(t)
	if err != nil {
		return 0, err
	}
	logging.Debug("Зарегистрирован тип события %s -> 0x%04x", t, uint32(code))
	return code, nil
}

func (r *Registry) register(t reflect.Type) (event.Kind, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if code, exists := r.byType[t]; exists {
		return 0, fmt.Errorf("%s (code 0x%04x): %w", t, uint32(code), ErrAlreadyRegistered)
	}

	raw, err := r.registrar.RegisterEvents(1)
	if err != nil {
		return 0, fmt.Errorf("register %s: %w", t, err)
	}
	code := event.Kind(raw)
	if !code.IsCustom() {
		return 0, fmt.Errorf("register %s: native layer returned code 0x%x outside custom range", t, raw)
	}
	if _, taken := r.byCode[code]; taken {
		return 0, fmt.Errorf("register %s: native layer reissued code 0x%04x", t, raw)
	}

	r.byType[t] = code
	r.byCode[code] = t
	return code, nil
}

// CodeFor код, выданный типу t.
func (r *Registry) CodeFor(t reflect.Type) (event.Kind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	code, ok := r.byType[t]
	return code, ok
}

// TypeFor тип, которому выдан код.
func (r *Registry) TypeFor(code event.Kind) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byCode[code]
	return t, ok
}

// Len число зарегистрированных типов.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byType)
}

// Entries снимок реестра, упорядоченный по коду.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	out := make([]Entry, 0, len(r.byCode))
	for code, t := range r.byCode {
		out = append(out, Entry{Code: code, Type: t})
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// RegisterType регистрирует тип T.
func RegisterType[T any](r *Registry) (event.Kind, error) {
	return r.Register(reflect.TypeFor[T]())
}

// CodeOf код, выданный типу T.
func CodeOf[T any](r *Registry) (event.Kind, bool) {
	return r.CodeFor(reflect.TypeFor[T]())
}

var _ event.CustomKinds = (*Registry)(nil)
