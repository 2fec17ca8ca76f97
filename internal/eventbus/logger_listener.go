package eventbus

import (
	"context"

	"github.com/annel0/eventpump/internal/event"
	"github.com/annel0/eventpump/internal/logging"
)

// StartLoggingListener подписывается на события и пишет их в лог.
// Функция неблокирующая.
func StartLoggingListener(bus EventBus, f Filter) (Subscription, error) {
	sub, err := bus.Subscribe(context.Background(), f, func(ctx context.Context, ev event.Event) {
		logging.Debug("[EventBus] t=%d %s %+v", ev.Time(), ev.Kind(), ev)
	})
	if err != nil {
		return nil, err
	}
	logging.Info("🪵 LoggingListener: подписка на события активирована")
	return sub, nil
}
