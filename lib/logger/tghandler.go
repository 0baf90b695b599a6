package logger

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"sync"
)

// Notifier delivers a pre-formatted HTML message to the operator.
type Notifier interface {
	NotifyOperator(text string)
}

// TelegramHandler is a slog.Handler that mirrors high-level records to the operator chat
type TelegramHandler struct {
	handler  slog.Handler
	notifier Notifier
	minLevel slog.Level
	mu       *sync.Mutex
	attrs    []slog.Attr
	group    string
}

// NewTelegramHandler creates a new TelegramHandler
func NewTelegramHandler(handler slog.Handler, notifier Notifier, minLevel slog.Level) *TelegramHandler {
	return &TelegramHandler{
		handler:  handler,
		notifier: notifier,
		minLevel: minLevel,
		mu:       &sync.Mutex{},
		attrs:    make([]slog.Attr, 0),
		group:    "",
	}
}

// Enabled implements slog.Handler.Enabled
func (h *TelegramHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle implements slog.Handler.Handle
func (h *TelegramHandler) Handle(ctx context.Context, record slog.Record) error {
	err := h.handler.Handle(ctx, record)
	if err != nil {
		return err
	}

	if record.Level < h.minLevel || h.notifier == nil {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.notifier.NotifyOperator(h.format(record))
	return nil
}

func (h *TelegramHandler) format(record slog.Record) string {
	var msg string
	if h.group != "" {
		msg = fmt.Sprintf("<b>%s</b> <code>%s.%s</code>", record.Level.String(), html.EscapeString(h.group), html.EscapeString(record.Message))
	} else {
		msg = fmt.Sprintf("<b>%s</b> <code>%s</code>", record.Level.String(), html.EscapeString(record.Message))
	}

	add := func(attr slog.Attr) {
		if attr.Key == "error" {
			msg += fmt.Sprintf("\n%s: <pre>%s</pre>", attr.Key, html.EscapeString(attr.Value.String()))
		} else {
			msg += html.EscapeString(fmt.Sprintf("\n%s: %v", attr.Key, attr.Value))
		}
	}
	for _, attr := range h.attrs {
		add(attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		add(attr)
		return true
	})
	return msg
}

// WithAttrs implements slog.Handler.WithAttrs
func (h *TelegramHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	copy(newAttrs[len(h.attrs):], attrs)

	return &TelegramHandler{
		handler:  h.handler.WithAttrs(attrs),
		notifier: h.notifier,
		minLevel: h.minLevel,
		mu:       h.mu,
		attrs:    newAttrs,
		group:    h.group,
	}
}

// WithGroup implements slog.Handler.WithGroup
func (h *TelegramHandler) WithGroup(name string) slog.Handler {
	var group string
	if h.group != "" {
		group = h.group + "." + name
	} else {
		group = name
	}

	return &TelegramHandler{
		handler:  h.handler.WithGroup(name),
		notifier: h.notifier,
		minLevel: h.minLevel,
		mu:       h.mu,
		attrs:    h.attrs,
		group:    group,
	}
}
