package registry

import (
	"sync"

	"github.com/annel0/eventpump/internal/native"
)

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default общий реестр процесса. Создаётся при первом вызове с переданным
// registrar; последующие вызовы возвращают тот же экземпляр и registrar
// игнорируют. Реестр никогда не уничтожается, как и выданные им коды.
func Default(registrar native.Registrar) *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = New(registrar)
	})
	return defaultRegistry
}
