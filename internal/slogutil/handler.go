// Package slogutil provides the slog handlers and helpers used across
// the renderer.
package slogutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ConsoleHandler writes one line per record for humans reading stderr:
//
//	TIMESTAMP [level] Message | key=value key=value
//
// Attributes added through WithAttrs are formatted once, up front, and
// replayed verbatim on every record.
type ConsoleHandler struct {
	w      io.Writer
	level  slog.Leveler
	prefix []byte
	group  string
	mu     *sync.Mutex
}

// NewConsoleHandler creates a console handler.
func NewConsoleHandler(w io.Writer, opts *slog.HandlerOptions) *ConsoleHandler {
	level := slog.Leveler(slog.LevelInfo)
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}
	return &ConsoleHandler{
		w:     w,
		level: level,
		mu:    &sync.Mutex{},
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and writes the log record.
func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	buf.WriteString(r.Time.UTC().Format(time.RFC3339))
	fmt.Fprintf(&buf, " [%s] ", strings.ToLower(r.Level.String()))
	buf.WriteString(r.Message)

	var attrs bytes.Buffer
	attrs.Write(h.prefix)
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(&attrs, h.group, a)
		return true
	})
	if attrs.Len() > 0 {
		buf.WriteString(" |")
		buf.Write(attrs.Bytes())
	}

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

// WithAttrs returns a handler that prepends the attributes to every
// record it writes.
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var pre bytes.Buffer
	pre.Write(h.prefix)
	for _, a := range attrs {
		appendAttr(&pre, h.group, a)
	}
	clone := *h
	clone.prefix = pre.Bytes()
	return &clone
}

// WithGroup returns a handler that qualifies subsequent attribute keys
// with the group name.
func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.group = h.group + name + "."
	return &clone
}

// appendAttr writes one " key=value" pair, expanding group values into
// their members and quoting strings that would be ambiguous unquoted.
func appendAttr(buf *bytes.Buffer, group string, a slog.Attr) {
	v := a.Value.Resolve()
	if a.Key == "" && v.Kind() != slog.KindGroup {
		return
	}
	if v.Kind() == slog.KindGroup {
		sub := group
		if a.Key != "" {
			sub = group + a.Key + "."
		}
		for _, ga := range v.Group() {
			appendAttr(buf, sub, ga)
		}
		return
	}

	buf.WriteByte(' ')
	buf.WriteString(group)
	buf.WriteString(a.Key)
	buf.WriteByte('=')
	buf.WriteString(formatValue(v))
}

// formatValue renders a resolved slog.Value for the console line.
func formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if s == "" || strings.ContainsAny(s, " \t\"") {
			return strconv.Quote(s)
		}
		return s
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case slog.KindBool:
		return strconv.FormatBool(v.Bool())
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().UTC().Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v.Any())
	}
}
