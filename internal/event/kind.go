package event

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/annel0/eventpump/internal/native"
)

// Kind код классификации нативной записи.
type Kind uint32

// Хорошо известные коды. Значения совпадают с нативной библиотекой.
const KindFirst Kind = 0

// Приложение
const (
	KindQuit Kind = 0x100 + iota
	KindAppTerminating
	KindAppLowMemory
	KindAppWillEnterBackground
	KindAppDidEnterBackground
	KindAppWillEnterForeground
	KindAppDidEnterForeground
)

// Окно
const (
	KindWindow Kind = 0x200
)

// Клавиатура
const (
	KindKeyDown Kind = 0x300 + iota
	KindKeyUp
	KindTextEditing
	KindTextInput
)

// Мышь
const (
	KindMouseMotion Kind = 0x400 + iota
	KindMouseButtonDown
	KindMouseButtonUp
	KindMouseWheel
)

// Джойстик
const (
	KindJoyAxisMotion Kind = 0x600 + iota
	KindJoyBallMotion
	KindJoyHatMotion
	KindJoyButtonDown
	KindJoyButtonUp
	KindJoyDeviceAdded
	KindJoyDeviceRemoved
)

// Игровой контроллер
const (
	KindControllerAxisMotion Kind = 0x650 + iota
	KindControllerButtonDown
	KindControllerButtonUp
	KindControllerDeviceAdded
	KindControllerDeviceRemoved
	KindControllerDeviceRemapped
)

// Сенсор
const (
	KindFingerDown Kind = 0x700 + iota
	KindFingerUp
	KindFingerMotion
)

// Жесты
const (
	KindDollarGesture Kind = 0x800 + iota
	KindDollarRecord
	KindMultiGesture
)

const KindClipboardUpdate Kind = 0x900

// Drag and drop
const (
	KindDropFile Kind = 0x1000 + iota
	KindDropText
	KindDropBegin
	KindDropComplete
)

// Аудиоустройства
const (
	KindAudioDeviceAdded Kind = 0x1100 + iota
	KindAudioDeviceRemoved
)

// Рендер
const (
	KindRenderTargetsReset Kind = 0x2000 + iota
	KindRenderDeviceReset
)

// Пользовательский диапазон. Коды выше KindUser выдаёт нативный слой
// при регистрации; с хорошо известными кодами они не пересекаются.
const (
	KindUser Kind = Kind(native.UserEvent)
	KindLast Kind = Kind(native.LastEvent)
)

var kindNames = map[Kind]string{
	KindQuit:                     "Quit",
	KindAppTerminating:           "AppTerminating",
	KindAppLowMemory:             "AppLowMemory",
	KindAppWillEnterBackground:   "AppWillEnterBackground",
	KindAppDidEnterBackground:    "AppDidEnterBackground",
	KindAppWillEnterForeground:   "AppWillEnterForeground",
	KindAppDidEnterForeground:    "AppDidEnterForeground",
	KindWindow:                   "Window",
	KindKeyDown:                  "KeyDown",
	KindKeyUp:                    "KeyUp",
	KindTextEditing:              "TextEditing",
	KindTextInput:                "TextInput",
	KindMouseMotion:              "MouseMotion",
	KindMouseButtonDown:          "MouseButtonDown",
	KindMouseButtonUp:            "MouseButtonUp",
	KindMouseWheel:               "MouseWheel",
	KindJoyAxisMotion:            "JoyAxisMotion",
	KindJoyBallMotion:            "JoyBallMotion",
	KindJoyHatMotion:             "JoyHatMotion",
	KindJoyButtonDown:            "JoyButtonDown",
	KindJoyButtonUp:              "JoyButtonUp",
	KindJoyDeviceAdded:           "JoyDeviceAdded",
	KindJoyDeviceRemoved:         "JoyDeviceRemoved",
	KindControllerAxisMotion:     "ControllerAxisMotion",
	KindControllerButtonDown:     "ControllerButtonDown",
	KindControllerButtonUp:       "ControllerButtonUp",
	KindControllerDeviceAdded:    "ControllerDeviceAdded",
	KindControllerDeviceRemoved:  "ControllerDeviceRemoved",
	KindControllerDeviceRemapped: "ControllerDeviceRemapped",
	KindFingerDown:               "FingerDown",
	KindFingerUp:                 "FingerUp",
	KindFingerMotion:             "FingerMotion",
	KindDollarGesture:            "DollarGesture",
	KindDollarRecord:             "DollarRecord",
	KindMultiGesture:             "MultiGesture",
	KindClipboardUpdate:          "ClipboardUpdate",
	KindDropFile:                 "DropFile",
	KindDropText:                 "DropText",
	KindDropBegin:                "DropBegin",
	KindDropComplete:             "DropComplete",
	KindAudioDeviceAdded:         "AudioDeviceAdded",
	KindAudioDeviceRemoved:       "AudioDeviceRemoved",
	KindRenderTargetsReset:       "RenderTargetsReset",
	KindRenderDeviceReset:        "RenderDeviceReset",
	KindUser:                     "User",
}

// String возвращает имя вида или шестнадцатеричный код.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	if k.IsCustom() {
		return fmt.Sprintf("Custom(0x%04x)", uint32(k))
	}
	return fmt.Sprintf("Kind(0x%x)", uint32(k))
}

// IsCustom сообщает, лежит ли код в диапазоне, выдаваемом при регистрации.
func (k Kind) IsCustom() bool {
	return k > KindUser && k <= KindLast
}

// IsWellKnown сообщает, известен ли код этому пакету.
func (k Kind) IsWellKnown() bool {
	_, ok := kindNames[k]
	return ok
}

// ReceiveOnly сообщает, что записи этого вида порождает только нативная
// библиотека и Encode для них не поддерживается.
func (k Kind) ReceiveOnly() bool {
	if k.IsCustom() {
		return false
	}
	_, ok := receiveOnly[k]
	return ok || !k.IsWellKnown()
}

// Kinds возвращает все хорошо известные коды по возрастанию.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kindNames))
	for k := range kindNames {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// ParseKind разбирает имя вида (без учёта регистра) или число вида 0x8001.
func ParseKind(s string) (Kind, error) {
	s = strings.TrimSpace(s)
	for k, name := range kindNames {
		if strings.EqualFold(name, s) {
			return k, nil
		}
	}
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("unknown event kind %q", s)
	}
	return Kind(v), nil
}
