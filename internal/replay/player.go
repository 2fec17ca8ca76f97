package replay

import (
	"context"
	"errors"
	"io"
	"slices"
	"time"

	"github.com/annel0/eventpump/internal/event"
	"github.com/annel0/eventpump/internal/native"
)

// Filter определяет, какие кадры воспроизводить.
type Filter struct {
	Kinds []event.Kind // Пустой список означает все виды.
	From  *time.Time
	To    *time.Time
}

// Match сообщает, проходит ли кадр сессии h фильтр.
func (f Filter) Match(h Header, fr Frame) bool {
	if len(f.Kinds) > 0 && !slices.Contains(f.Kinds, event.Kind(fr.Record.Type())) {
		return false
	}
	at := h.Start.Add(fr.Offset)
	if f.From != nil && at.Before(*f.From) {
		return false
	}
	if f.To != nil && at.After(*f.To) {
		return false
	}
	return true
}

// Pusher принимает записи для воспроизведения; pump.Sender подходит.
type Pusher interface {
	PushRaw(rec native.Record) error
}

// Player воспроизводит запись в очередь.
type Player struct {
	r     *Reader
	sleep func(ctx context.Context, d time.Duration) error
}

func NewPlayer(r *Reader) *Player {
	return &Player{r: r, sleep: sleepCtx}
}

// Play отправляет подходящие кадры. При paced сохраняются исходные
// интервалы между кадрами. Записи выключенных видов пропускаются.
// Возвращает число принятых очередью записей.
func (p *Player) Play(ctx context.Context, s Pusher, f Filter, paced bool) (int, error) {
	sent := 0
	var last time.Duration
	first := true
	for {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		fr, err := p.r.Next()
		if errors.Is(err, io.EOF) {
			return sent, nil
		}
		if err != nil {
			return sent, err
		}
		if !f.Match(p.r.Header, fr) {
			continue
		}
		if paced && !first && fr.Offset > last {
			if err := p.sleep(ctx, fr.Offset-last); err != nil {
				return sent, err
			}
		}
		first = false
		last = fr.Offset
		if err := s.PushRaw(fr.Record); err != nil {
			if errors.Is(err, native.ErrFiltered) {
				continue
			}
			return sent, err
		}
		sent++
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
