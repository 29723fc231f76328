package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// Entry is one captured log line with its attributes flattened. Attributes
// inside groups are keyed by their dotted path, e.g. "chart.slug".
type Entry struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

type entryLog struct {
	mu      sync.Mutex
	entries []Entry
}

// BufferedSlogHandler keeps every record it handles so tests can assert on
// what a component logged. Loggers derived with With or WithGroup write to the
// same buffer.
type BufferedSlogHandler struct {
	log    *entryLog
	attrs  []slog.Attr
	prefix string
	t      *testing.T
}

// NewBufferedSlogHandler creates a handler that also echoes records to t.Logf
// when t is not nil
func NewBufferedSlogHandler(t *testing.T) *BufferedSlogHandler {
	return &BufferedSlogHandler{log: &entryLog{}, t: t}
}

// NewTestLogger returns a logger writing into a fresh BufferedSlogHandler
func NewTestLogger(t *testing.T) (*slog.Logger, *BufferedSlogHandler) {
	h := NewBufferedSlogHandler(t)
	return slog.New(h), h
}

// Enabled reports true for every level
func (h *BufferedSlogHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

// Handle records r
func (h *BufferedSlogHandler) Handle(_ context.Context, r slog.Record) error {
	e := Entry{Level: r.Level, Message: r.Message, Attrs: make(map[string]any)}
	for _, a := range h.attrs {
		flatten(e.Attrs, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		flatten(e.Attrs, h.prefix, a)
		return true
	})

	h.log.mu.Lock()
	h.log.entries = append(h.log.entries, e)
	h.log.mu.Unlock()

	if h.t != nil {
		h.t.Logf("%s %s %v", r.Level, r.Message, e.Attrs)
	}
	return nil
}

// WithAttrs returns a handler adding attrs to every record
func (h *BufferedSlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(append([]slog.Attr{}, h.attrs...), qualify(h.prefix, attrs)...)
	return &c
}

// WithGroup returns a handler nesting later attributes under name
func (h *BufferedSlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := *h
	c.prefix = h.prefix + name + "."
	return &c
}

// Entries returns a copy of everything logged so far
func (h *BufferedSlogHandler) Entries() []Entry {
	h.log.mu.Lock()
	defer h.log.mu.Unlock()
	return append([]Entry(nil), h.log.entries...)
}

// Count returns the number of captured records
func (h *BufferedSlogHandler) Count() int {
	h.log.mu.Lock()
	defer h.log.mu.Unlock()
	return len(h.log.entries)
}

// Find returns the first entry at level whose message contains message
func (h *BufferedSlogHandler) Find(level slog.Level, message string) (Entry, bool) {
	for _, e := range h.Entries() {
		if e.Level == level && strings.Contains(e.Message, message) {
			return e, true
		}
	}
	return Entry{}, false
}

// ContainsMessage reports whether any entry's message contains message
func (h *BufferedSlogHandler) ContainsMessage(message string) bool {
	for _, e := range h.Entries() {
		if strings.Contains(e.Message, message) {
			return true
		}
	}
	return false
}

// ContainsAttr reports whether any entry carries key with value
func (h *BufferedSlogHandler) ContainsAttr(key string, value any) bool {
	for _, e := range h.Entries() {
		if v, ok := e.Attrs[key]; ok && v == value {
			return true
		}
	}
	return false
}

// AssertLogContains fails t unless a record at level contains message
func AssertLogContains(t *testing.T, handler *BufferedSlogHandler, level slog.Level, message string) {
	t.Helper()
	if _, ok := handler.Find(level, message); ok {
		return
	}
	t.Errorf("no %s log containing %q", level, message)
	dump(t, handler)
}

// AssertLogAttr fails t unless some record carries key=value
func AssertLogAttr(t *testing.T, handler *BufferedSlogHandler, key string, value any) {
	t.Helper()
	if handler.ContainsAttr(key, value) {
		return
	}
	t.Errorf("no log with %s=%v", key, value)
	dump(t, handler)
}

func dump(t *testing.T, handler *BufferedSlogHandler) {
	t.Helper()
	for _, e := range handler.Entries() {
		t.Logf("  %s %s %v", e.Level, e.Message, e.Attrs)
	}
}

func qualify(prefix string, attrs []slog.Attr) []slog.Attr {
	if prefix == "" {
		return attrs
	}
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = slog.Attr{Key: prefix + a.Key, Value: a.Value}
	}
	return out
}

func flatten(dst map[string]any, prefix string, a slog.Attr) {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p += a.Key + "."
		}
		for _, ga := range v.Group() {
			flatten(dst, p, ga)
		}
		return
	}
	dst[prefix+a.Key] = v.Any()
}
