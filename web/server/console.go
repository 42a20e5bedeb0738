package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "debug", "info", "warn", "error"
}

// consoleHandler is a slog.Handler that forwards records to a client as
// "console" SSE events. Records are dropped rather than blocking the render
// when the event queue is full.
type consoleHandler struct {
	events chan<- SSEEvent
	level  slog.Leveler
	attrs  []slog.Attr
	group  string
}

func newConsoleHandler(events chan<- SSEEvent, level slog.Leveler) *consoleHandler {
	return &consoleHandler{events: events, level: level}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Message)
	for _, a := range h.attrs {
		b.WriteString(" " + a.Key + "=" + a.Value.Resolve().String())
	}
	r.Attrs(func(a slog.Attr) bool {
		b.WriteString(" " + h.qualify(a.Key) + "=" + a.Value.Resolve().String())
		return true
	})

	data, err := json.Marshal(ConsoleMessage{
		Message:   b.String(),
		Timestamp: r.Time,
		Level:     strings.ToLower(r.Level.String()),
	})
	if err != nil {
		return err
	}

	select {
	case h.events <- SSEEvent{Type: "console", Data: string(data)}:
	default:
	}
	return nil
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append([]slog.Attr(nil), h.attrs...)
	for _, a := range attrs {
		clone.attrs = append(clone.attrs, slog.Attr{Key: h.qualify(a.Key), Value: a.Value})
	}
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	if clone.group != "" {
		name = clone.group + "." + name
	}
	clone.group = name
	return &clone
}

func (h *consoleHandler) qualify(key string) string {
	if h.group == "" {
		return key
	}
	return h.group + "." + key
}
