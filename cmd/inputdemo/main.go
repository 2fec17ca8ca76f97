package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/annel0/eventpump/internal/config"
	"github.com/annel0/eventpump/internal/event"
	"github.com/annel0/eventpump/internal/eventbus"
	"github.com/annel0/eventpump/internal/logging"
	"github.com/annel0/eventpump/internal/metrics"
	"github.com/annel0/eventpump/internal/native"
	"github.com/annel0/eventpump/internal/pump"
	"github.com/annel0/eventpump/internal/registry"
	"github.com/annel0/eventpump/internal/replay"
)

// Notice пользовательская полезная нагрузка демо.
type Notice struct {
	Seq  int
	Text string
}

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML config (defaults to $EVENTPUMP_CONFIG)")
		duration   = flag.Duration("duration", 5*time.Second, "Stop after this long")
		replayFile = flag.String("replay", "", "Play this recording into the queue on start")
	)
	flag.Parse()

	// === КОНФИГУРАЦИЯ ===
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	logging.Dir = cfg.Logging.GetDir()
	if err := logging.InitDefaultLogger("inputdemo"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()
	logger := logging.PumpLogger(cfg.Logging.GetLevel())
	defer func() {
		if err := logging.CloseComponents(); err != nil {
			log.Printf("❌ %v", err)
		}
	}()

	logging.Info("🎮 Запуск демо подсистемы событий (очередь %d, шаг ожидания %s)",
		cfg.Queue.GetCapacity(), cfg.Queue.GetWaitTimeout())

	// === ИНИЦИАЛИЗАЦИЯ КОМПОНЕНТОВ ===
	queue := native.NewMemQueue(cfg.Queue.GetCapacity())
	defer queue.Close()
	queue.AddSource(syntheticInput(queue))

	reg := registry.Default(queue)
	code, err := registry.RegisterType[Notice](reg)
	if err != nil {
		log.Fatalf("❌ Ошибка регистрации типа: %v", err)
	}
	logger.Debug("Notice зарегистрирован с кодом %s", code)

	var opts []pump.Option
	if dir := cfg.Replay.GetDir(); dir != "" {
		rec, path, err := replay.Create(dir)
		if err != nil {
			log.Fatalf("❌ Ошибка создания записи: %v", err)
		}
		defer func() {
			if err := rec.Close(); err != nil {
				logging.Error("❌ Ошибка закрытия записи %s: %v", path, err)
			}
			recorded, skipped := rec.Stats()
			logging.Info("💾 Запись %s: %d событий, пропущено %d", path, recorded, skipped)
		}()
		opts = append(opts, pump.WithTap(rec))
	}

	p, err := pump.New(queue, reg, opts...)
	if err != nil {
		log.Fatalf("❌ Ошибка запуска помпы: %v", err)
	}
	defer p.Close()

	if _, err := eventbus.StartLoggingListener(p.Bus(), eventbus.Filter{Kinds: []event.Kind{event.KindKeyDown, event.KindKeyUp}}); err != nil {
		logging.Warn("наблюдатель лога: %v", err)
	}

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector())
	exporter, err := metrics.NewExporter(p, promReg, cfg.Metrics.GetRefresh())
	if err != nil {
		log.Fatalf("❌ Ошибка регистрации метрик: %v", err)
	}
	if addr := cfg.Metrics.GetListen(); addr != "" {
		exporter.StartHTTP(addr, promReg)
	} else {
		exporter.Start()
	}
	defer exporter.Stop()

	// Отправители в отдельных горутинах: сигнал ОС или истечение времени дают Quit
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *duration)
	defer cancel()

	sender := p.Sender()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		logging.Info("📡 %v, завершение работы...", context.Cause(gctx))
		return sender.Push(event.Quit{})
	})
	g.Go(func() error {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for seq := 1; ; seq++ {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
			}
			if err := pump.PushCustom(sender, Notice{Seq: seq, Text: "tick"}); err != nil {
				return fmt.Errorf("notice #%d: %w", seq, err)
			}
		}
	})

	if *replayFile != "" {
		g.Go(func() error {
			return playRecording(gctx, *replayFile, sender, cfg.Replay.Paced)
		})
	}

	logging.Info("✅ Помпа запущена, ожидание событий")
	run(p, logger, cfg.Queue.GetWaitTimeout())
	cancel()
	if err := g.Wait(); err != nil {
		logging.Error("❌ Ошибка отправителя: %v", err)
	}

	st := p.Stats()
	logging.Info("📊 Разобрано %d событий, нераспознанных %d, отправлено %d", st.Decoded, st.Unhandled, st.Pushed)
	logging.Info("👋 Демо остановлено")
}

// run главный цикл: сбор ввода и разбор событий до Quit.
func run(p *pump.Pump, logger *logging.Logger, step time.Duration) {
	it := p.WaitTimeoutIter(step)
	for {
		p.PumpEvents()
		ev, ok := it.Next()
		if !ok {
			continue
		}
		switch e := ev.(type) {
		case event.Quit:
			return
		case event.User:
			if !pump.IsCustom[Notice](p.Registry(), e) {
				continue
			}
			n, err := pump.ReclaimCustom[Notice](p.Registry(), e)
			if err != nil {
				logger.Warn("Notice: %v", err)
				continue
			}
			ms := p.MouseState()
			logger.Info("🔔 Notice #%d %s; мышь (%d,%d), нажато клавиш %d",
				n.Seq, n.Text, ms.X, ms.Y, len(p.KeyboardState().PressedScancodes()))
		case event.MouseMotion:
			rel := p.RelativeMouseState()
			logger.Trace("мышь (%d,%d) смещение (%d,%d)", e.X, e.Y, rel.X, rel.Y)
		}
	}
}

// playRecording воспроизводит запись в очередь. Остановка по контексту
// ошибкой не считается.
func playRecording(ctx context.Context, path string, s pump.Sender, paced bool) error {
	r, err := replay.Open(path)
	if err != nil {
		return fmt.Errorf("replay %s: %w", path, err)
	}
	defer r.Close()

	n, err := replay.NewPlayer(r).Play(ctx, s, replay.Filter{}, paced)
	logging.Info("⏪ Воспроизведено %d событий из %s", n, path)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("replay %s: %w", path, err)
	}
	return nil
}

// syntheticInput источник ввода для очереди в памяти: круговое движение
// мыши и периодические нажатия пробела.
func syntheticInput(q *native.MemQueue) native.Source {
	tick := 0
	return func() []native.Record {
		tick++
		x, y := int32(100+tick%50), int32(100+(tick/2)%50)
		q.SetMouse(0, x, y)

		var evs []event.Event
		if tick%5 == 0 {
			evs = append(evs, event.MouseMotion{X: x, Y: y, XRel: 1, YRel: 1})
		}
		if tick%20 == 0 {
			down := tick%40 == 0
			q.SetKey(uint32(event.ScancodeSpace), down)
			key := event.Key{Scancode: event.ScancodeSpace, Keycode: event.KeySpace}
			if down {
				evs = append(evs, event.KeyDown{Key: key})
			} else {
				evs = append(evs, event.KeyUp{Key: key})
			}
		}

		out := make([]native.Record, 0, len(evs))
		for _, ev := range evs {
			rec, err := event.Encode(ev)
			if err != nil {
				continue
			}
			out = append(out, rec)
		}
		return out
	}
}
