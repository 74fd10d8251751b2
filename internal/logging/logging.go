// Package logging provides the slog handler the long-running binaries
// share: one indented JSON object per record, readable when tailing a
// terminal but still machine-parseable.
package logging

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Handler is a slog.Handler that emits each record as an indented JSON
// object. Not tuned for throughput; fine for CLI and daemon logs.
type Handler struct {
	w         io.Writer
	mu        *sync.Mutex
	level     slog.Leveler
	addSource bool

	attrs  []slog.Attr
	groups []string
}

// NewHandler builds a Handler writing to w. A nil opts means LevelInfo
// with no source locations.
func NewHandler(w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	h := &Handler{
		w:     w,
		mu:    &sync.Mutex{},
		level: slog.LevelInfo,
	}
	if opts != nil {
		if opts.Level != nil {
			h.level = opts.Level
		}
		h.addSource = opts.AddSource
	}
	return h
}

// New is the common case: a logger at the given level, no source info.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(NewHandler(w, &slog.HandlerOptions{Level: level}))
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	out := make(map[string]any, 6)

	when := r.Time
	if when.IsZero() {
		when = time.Now()
	}
	out["time"] = when.Format(time.RFC3339Nano)
	out["level"] = r.Level.String()
	out["msg"] = r.Message

	if h.addSource {
		out["source"] = shortSource(r.PC)
	}

	for _, a := range h.attrs {
		h.place(out, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.place(out, a)
		return true
	})

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		// Never drop a record over a bad attr value.
		b = []byte("{\"time\":" + strconv.Quote(out["time"].(string)) +
			",\"level\":" + strconv.Quote(r.Level.String()) +
			",\"msg\":" + strconv.Quote(r.Message) + "}")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = h.w.Write(append(b, '\n'))
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &clone
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}

// place writes attr into out, descending through the handler's open
// groups so nested WithGroup calls map to nested JSON objects.
func (h *Handler) place(out map[string]any, attr slog.Attr) {
	dst := out
	for _, g := range h.groups {
		m, ok := dst[g].(map[string]any)
		if !ok {
			m = map[string]any{}
			dst[g] = m
		}
		dst = m
	}
	setAttr(dst, attr)
}

func setAttr(dst map[string]any, attr slog.Attr) {
	v := attr.Value.Resolve()
	if attr.Key == "" && v.Kind() != slog.KindGroup {
		return
	}

	if v.Kind() == slog.KindGroup {
		child := map[string]any{}
		for _, ga := range v.Group() {
			setAttr(child, ga)
		}
		if attr.Key == "" {
			for k, cv := range child {
				dst[k] = cv
			}
			return
		}
		dst[attr.Key] = child
		return
	}

	dst[attr.Key] = flatten(v)
}

func flatten(v slog.Value) any {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindInt64:
		return v.Int64()
	case slog.KindUint64:
		return v.Uint64()
	case slog.KindFloat64:
		return v.Float64()
	case slog.KindBool:
		return v.Bool()
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339Nano)
	case slog.KindAny:
		return v.Any()
	default:
		return v.String()
	}
}

func shortSource(pc uintptr) string {
	if pc == 0 {
		return ""
	}
	frames := runtime.CallersFrames([]uintptr{pc})
	f, _ := frames.Next()
	if f.File == "" {
		return ""
	}
	file := f.File
	if idx := strings.LastIndexByte(file, '/'); idx >= 0 {
		file = file[idx+1:]
	}
	return file + ":" + strconv.Itoa(f.Line)
}
