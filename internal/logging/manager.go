package logging

import (
	"errors"
	"fmt"
	"sync"
)

// Логгеры компонентов: у каждого свой файл и свои пороги
var components = struct {
	sync.Mutex
	loggers map[string]*Logger
}{loggers: make(map[string]*Logger)}

// ComponentLogger возвращает логгер компонента, создавая его при первом
// обращении, и выставляет ему пороги. Если файл лога открыть не удалось,
// возвращается глобальный логгер без изменения его порогов.
func ComponentLogger(component string, console, file LogLevel) *Logger {
	components.Lock()
	defer components.Unlock()

	logger, exists := components.loggers[component]
	if !exists {
		var err error
		logger, err = NewLogger(component)
		if err != nil {
			Warn("логгер %s недоступен, используется общий: %v", component, err)
			return current()
		}
		components.loggers[component] = logger
	}
	logger.SetLevels(console, file)
	return logger
}

// PumpLogger логгер помпы событий
func PumpLogger(console LogLevel) *Logger {
	return ComponentLogger("pump", console, TRACE)
}

// CloseComponents закрывает файлы всех логгеров компонентов
func CloseComponents() error {
	components.Lock()
	defer components.Unlock()

	var errs []error
	for component, logger := range components.loggers {
		if err := logger.Close(); err != nil {
			errs = append(errs, fmt.Errorf("закрытие логгера %s: %w", component, err))
		}
	}
	clear(components.loggers)
	return errors.Join(errs...)
}
