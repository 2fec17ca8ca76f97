package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/annel0/eventpump/internal/event"
	"github.com/annel0/eventpump/internal/replay"
)

const timeFormat = "2006-01-02T15:04:05Z"

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

// Options общие параметры команд.
type Options struct {
	File  string
	Kinds []event.Kind
	Since time.Duration
	Until time.Duration
	Limit int
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("eventdump", flag.ContinueOnError)
	fs.SetOutput(out)
	var (
		file    = fs.String("file", "", "Recording file (.evrp)")
		command = fs.String("cmd", "tail", "Command: tail, stats, kinds")
		kinds   = fs.String("kinds", "", "Event kinds filter (comma-separated names or codes)")
		since   = fs.Duration("since", 0, "Skip events earlier than this offset from session start")
		until   = fs.Duration("until", 0, "Skip events later than this offset from session start")
		limit   = fs.Int("limit", 100, "Maximum number of events (0 = no limit)")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	kindList, err := parseKinds(*kinds)
	if err != nil {
		return err
	}
	opts := &Options{File: *file, Kinds: kindList, Since: *since, Until: *until, Limit: *limit}

	switch *command {
	case "tail":
		return tailEvents(out, opts)
	case "stats":
		return showStats(out, opts)
	case "kinds":
		return showKinds(out)
	default:
		return fmt.Errorf("unknown command %q, available: tail, stats, kinds", *command)
	}
}

// filter строит фильтр воспроизведения для сессии.
func (o *Options) filter(h replay.Header) replay.Filter {
	f := replay.Filter{Kinds: o.Kinds}
	if o.Since > 0 {
		from := h.Start.Add(o.Since)
		f.From = &from
	}
	if o.Until > 0 {
		to := h.Start.Add(o.Until)
		f.To = &to
	}
	return f
}

// eachFrame вызывает fn для кадров, прошедших фильтр, с учётом лимита.
func eachFrame(opts *Options, fn func(h replay.Header, fr replay.Frame)) (int, error) {
	if opts.File == "" {
		return 0, errors.New("-file is required")
	}
	r, err := replay.Open(opts.File)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	f := opts.filter(r.Header)
	n := 0
	for opts.Limit == 0 || n < opts.Limit {
		fr, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return n, err
		}
		if !f.Match(r.Header, fr) {
			continue
		}
		fn(r.Header, fr)
		n++
	}
	return n, nil
}

// tailEvents выводит разобранные события записи
func tailEvents(out io.Writer, opts *Options) error {
	var session string
	n, err := eachFrame(opts, func(h replay.Header, fr replay.Frame) {
		if session == "" {
			session = h.Session.String()
			fmt.Fprintf(out, "🎬 Session %s started %s\n", session, h.Start.UTC().Format(timeFormat))
		}
		printEvent(out, fr, event.Decode(fr.Record))
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n📊 Total events: %d\n", n)
	return nil
}

// showStats выводит число событий по видам
func showStats(out io.Writer, opts *Options) error {
	counts := make(map[event.Kind]int)
	var first, last time.Duration
	n, err := eachFrame(opts, func(h replay.Header, fr replay.Frame) {
		if len(counts) == 0 {
			first = fr.Offset
		}
		last = fr.Offset
		counts[event.Kind(fr.Record.Type())]++
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "📊 Event statistics")
	fmt.Fprintf(out, "Span: %s - %s\n", first, last)
	fmt.Fprintf(out, "Total events: %d\n", n)
	fmt.Fprintln(out, "\nBy kind:")
	keys := make([]event.Kind, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for _, k := range keys {
		fmt.Fprintf(out, "  %s: %d events\n", k, counts[k])
	}
	return nil
}

// showKinds выводит все известные виды событий
func showKinds(out io.Writer) error {
	fmt.Fprintln(out, "📋 Known event kinds")
	for _, k := range event.Kinds() {
		mode := "send/receive"
		if k.ReceiveOnly() {
			mode = "receive-only"
		}
		fmt.Fprintf(out, "  0x%04x %-24s %s\n", uint32(k), k, mode)
	}
	return nil
}

// printEvent выводит событие в читаемом формате
func printEvent(out io.Writer, fr replay.Frame, ev event.Event) {
	fmt.Fprintf(out, "[%10s] t=%-8d %s", fr.Offset.Truncate(time.Millisecond), ev.Time(), ev.Kind())

	// Добавляем детали в зависимости от вида события
	switch e := ev.(type) {
	case event.Window:
		fmt.Fprintf(out, " window=%d %s", e.WindowID, e.Event.ID)
		switch e.Event.ID.Params() {
		case 2:
			fmt.Fprintf(out, " (%d,%d)", e.Event.Data1, e.Event.Data2)
		case 1:
			fmt.Fprintf(out, " (%d)", e.Event.Data1)
		}
	case event.KeyDown:
		fmt.Fprintf(out, " scancode=%d key=%d mod=0x%x repeat=%v", e.Scancode, e.Keycode, uint16(e.Mod), e.Repeat)
	case event.KeyUp:
		fmt.Fprintf(out, " scancode=%d key=%d mod=0x%x", e.Scancode, e.Keycode, uint16(e.Mod))
	case event.TextInput:
		fmt.Fprintf(out, " %q", e.Text)
	case event.MouseMotion:
		fmt.Fprintf(out, " (%d,%d) rel=(%d,%d)", e.X, e.Y, e.XRel, e.YRel)
	case event.MouseButtonDown:
		fmt.Fprintf(out, " button=%d (%d,%d) clicks=%d", e.Button, e.X, e.Y, e.Clicks)
	case event.MouseButtonUp:
		fmt.Fprintf(out, " button=%d (%d,%d)", e.Button, e.X, e.Y)
	case event.MouseWheel:
		fmt.Fprintf(out, " (%d,%d)", e.X, e.Y)
	case event.Unhandled:
		fmt.Fprintf(out, " code=0x%x", e.Type)
	}
	fmt.Fprintln(out)
}

// parseKinds парсит список видов через запятую
func parseKinds(s string) ([]event.Kind, error) {
	if s == "" {
		return nil, nil
	}
	var result []event.Kind
	for _, part := range strings.Split(s, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		k, err := event.ParseKind(trimmed)
		if err != nil {
			return nil, err
		}
		result = append(result, k)
	}
	return result, nil
}
