// Package metrics публикует счётчики помпы и шины наблюдателей в Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/annel0/eventpump/internal/event"
	"github.com/annel0/eventpump/internal/eventbus"
	"github.com/annel0/eventpump/internal/logging"
	"github.com/annel0/eventpump/internal/pump"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StatsSource то, что экспортер опрашивает раз в интервал.
type StatsSource interface {
	Stats() pump.Stats
	Bus() eventbus.EventBus
}

// Exporter периодически переносит накопленные счётчики в метрики.
// Счётчики источника монотонны, поэтому в Counter добавляется дельта.
type Exporter struct {
	src      StatsSource
	interval time.Duration
	quit     chan struct{}
	done     chan struct{}
	started  atomic.Bool
	stopOnce sync.Once
	server   *http.Server
	mu       sync.Mutex

	decoded    prometheus.Counter
	unhandled  prometheus.Counter
	pushed     prometheus.Counter
	pushFailed prometheus.Counter
	queued     prometheus.Gauge
	byKind     *prometheus.CounterVec

	published prometheus.Counter
	consumed  prometheus.Counter
	dropped   prometheus.Counter
	inflight  prometheus.Gauge

	prev    pump.Stats
	prevBus eventbus.Stats
}

// NewExporter создаёт экспортер и регистрирует метрики в reg.
// Опрос не запускается до Start.
func NewExporter(src StatsSource, reg prometheus.Registerer, interval time.Duration) (*Exporter, error) {
	if interval <= 0 {
		interval = time.Second
	}
	e := &Exporter{
		src:      src,
		interval: interval,
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		decoded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eventpump",
			Name:      "events_decoded_total",
			Help:      "Событий, извлечённых из очереди и разобранных.",
		}),
		unhandled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eventpump",
			Name:      "events_unhandled_total",
			Help:      "Записей с кодом, который не удалось распознать.",
		}),
		pushed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eventpump",
			Name:      "events_pushed_total",
			Help:      "Событий, принятых нативной очередью.",
		}),
		pushFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eventpump",
			Name:      "events_push_failed_total",
			Help:      "Отказов нативной очереди при добавлении.",
		}),
		queued: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "eventpump",
			Name:      "events_queued",
			Help:      "Записей, ожидающих в нативной очереди.",
		}),
		byKind: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eventpump",
			Name:      "events_by_kind_total",
			Help:      "Разобранных событий по видам.",
		}, []string{"kind"}),
		published: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eventbus",
			Name:      "messages_published_total",
			Help:      "Событий, опубликованных наблюдателям.",
		}),
		consumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eventbus",
			Name:      "messages_consumed_total",
			Help:      "Событий, обработанных наблюдателями.",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eventbus",
			Name:      "messages_dropped_total",
			Help:      "Событий, отброшенных из-за переполнения буфера наблюдателя.",
		}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "eventbus",
			Name:      "messages_inflight",
			Help:      "Событий в буферах наблюдателей.",
		}),
	}

	collectors := []prometheus.Collector{
		e.decoded, e.unhandled, e.pushed, e.pushFailed, e.queued, e.byKind,
		e.published, e.consumed, e.dropped, e.inflight,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Start запускает периодический опрос источника.
func (e *Exporter) Start() {
	if e.started.CompareAndSwap(false, true) {
		go e.loop()
	}
}

// StartHTTP запускает эндпоинт /metrics на addr и опрос источника.
// Метод неблокирующий.
func (e *Exporter) StartHTTP(addr string, g prometheus.Gatherer) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	e.server = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logging.Info("📈 Prometheus /metrics доступен по адресу %s", addr)
		if err := e.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Ошибка Prometheus HTTP сервера: %v", err)
		}
	}()
	e.Start()
}

// Stop останавливает опрос и HTTP-сервер, если он запущен.
func (e *Exporter) Stop() {
	e.stopOnce.Do(func() {
		close(e.quit)
		if e.started.Load() {
			<-e.done
		}
		if e.server != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = e.server.Shutdown(ctx)
		}
	})
}

func (e *Exporter) loop() {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	defer close(e.done)

	for {
		select {
		case <-ticker.C:
			e.Collect()
		case <-e.quit:
			e.Collect()
			return
		}
	}
}

// Collect переносит текущие счётчики источника в метрики.
func (e *Exporter) Collect() {
	e.mu.Lock()
	defer e.mu.Unlock()

	stats := e.src.Stats()
	addDelta(e.decoded, stats.Decoded, e.prev.Decoded)
	addDelta(e.unhandled, stats.Unhandled, e.prev.Unhandled)
	addDelta(e.pushed, stats.Pushed, e.prev.Pushed)
	addDelta(e.pushFailed, stats.PushFailed, e.prev.PushFailed)
	e.queued.Set(float64(stats.Queued))
	for kind, n := range stats.ByKind {
		addDelta(e.byKind.WithLabelValues(kindLabel(kind)), n, e.prev.ByKind[kind])
	}
	e.prev = stats

	if bus := e.src.Bus(); bus != nil {
		bs := bus.Metrics()
		addDelta(e.published, bs.Published, e.prevBus.Published)
		addDelta(e.consumed, bs.Consumed, e.prevBus.Consumed)
		addDelta(e.dropped, bs.Dropped, e.prevBus.Dropped)
		e.inflight.Set(float64(bs.InFlight))
		e.prevBus = bs
	}
}

func addDelta(c prometheus.Counter, cur, prev uint64) {
	if cur > prev {
		c.Add(float64(cur - prev))
	}
}

// kindLabel сворачивает пользовательские коды в одну метку, чтобы
// число рядов не зависело от числа зарегистрированных типов.
func kindLabel(k event.Kind) string {
	if k.IsCustom() {
		return "Custom"
	}
	return k.String()
}
