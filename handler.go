/*
 * Copyright (c) 2026 yakumioto <yaku.mioto@gmail.com>
 * All rights reserved.
 */

package treelog

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"
)

var _ slog.Handler = (*Handler)(nil)

// Handler is a slog.Handler that feeds records to a Layer as tree events.
// The record's span is resolved from the context through the Processor, so
// logging inside a traced operation lands under that operation's header.
type Handler struct {
	processor *Processor

	// fields are the attrs accumulated by WithAttrs, already flattened
	// and stringified.
	fields []field

	// groups are the open WithGroup names, prefixed dot-joined onto
	// attr keys added after them.
	groups []string
}

// NewHandler creates a Handler feeding records through processor. A nil
// processor falls back to NewProcessor(nil).
func NewHandler(processor *Processor) *Handler {
	if processor == nil {
		processor = NewProcessor(nil)
	}
	return &Handler{processor: processor}
}

// Enabled reports whether the handler handles records at the given level.
// Filtering is left to the logger or a wrapping handler.
func (h *Handler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

// Handle renders the record under the span found in ctx, if any.
func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	h.processor.layer.OnEvent(&slogEvent{
		record:  record,
		span:    h.processor.resolve(ctx),
		handler: h,
	})
	return nil
}

// WithAttrs returns a Handler whose records carry the given attributes.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	h2 := *h
	h2.fields = slices.Clone(h.fields)
	for _, attr := range attrs {
		flattenAttr(h.groups, attr, func(key, value string) bool {
			h2.fields = append(h2.fields, field{key: key, value: value})
			return true
		})
	}
	return &h2
}

// WithGroup returns a Handler that qualifies later attribute keys with
// name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	h2 := *h
	h2.groups = append(slices.Clone(h.groups), name)
	return &h2
}

type slogEvent struct {
	record  slog.Record
	span    Span
	handler *Handler
}

func (e *slogEvent) Level() slog.Level { return e.record.Level }
func (e *slogEvent) Time() time.Time   { return e.record.Time }
func (e *slogEvent) Span() Span        { return e.span }

func (e *slogEvent) VisitFields(fn func(key, value string) bool) {
	if e.record.Message != "" {
		if !fn("message", e.record.Message) {
			return
		}
	}

	for _, f := range e.handler.fields {
		if !fn(f.key, f.value) {
			return
		}
	}

	e.record.Attrs(func(attr slog.Attr) bool {
		return flattenAttr(e.handler.groups, attr, fn)
	})
}

// flattenAttr stringifies attr and passes it to fn with its key qualified
// by groups. Group attrs are walked recursively, extending the prefix. It
// returns false when fn stopped the walk.
func flattenAttr(groups []string, attr slog.Attr, fn func(key, value string) bool) bool {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return true
	}

	if attr.Value.Kind() == slog.KindGroup {
		attrs := attr.Value.Group()
		if len(attrs) == 0 {
			return true
		}
		if attr.Key != "" {
			groups = append(slices.Clip(groups), attr.Key)
		}
		for _, a := range attrs {
			if !flattenAttr(groups, a, fn) {
				return false
			}
		}
		return true
	}

	key := attr.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}
	return fn(key, attrValue(attr.Value))
}

func attrValue(v slog.Value) string {
	if v.Kind() == slog.KindTime {
		return v.Time().Format(time.RFC3339)
	}
	return v.String()
}
