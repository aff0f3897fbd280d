/*
 * Copyright (c) 2026 yakumioto <yaku.mioto@gmail.com>
 * All rights reserved.
 */

package treelog

import (
	"log/slog"
	"math/rand"
	"sync/atomic"
	"time"
)

// LevelTrace is one step finer than slog.LevelDebug. Events at or below it
// render with the TRACE tag.
const LevelTrace = slog.LevelDebug - 4

// Span is a node in the host's span tree. Implementations must return
// stable values for the lifetime of the span: ID never changes, and Parent
// keeps returning the original parent even after that parent closes.
type Span interface {
	// ID returns the host's identifier for the span. It must be unique
	// among live spans and never 0, which the Layer reserves for "no
	// span".
	ID() uint64

	// Name returns the span's operation name.
	Name() string

	// Target returns the component that created the span, such as an
	// instrumentation scope or module path. It may be empty.
	Target() string

	// Parent returns the enclosing span, or nil for a root.
	Parent() Span

	// VisitFields calls fn for each field attached to the span at
	// creation, in order, stopping early if fn returns false.
	VisitFields(fn func(key, value string) bool)
}

// Event is a single log record attributed to a span.
type Event interface {
	// Level returns the record's severity.
	Level() slog.Level

	// Time returns the record's timestamp. A zero time means the host
	// did not record one.
	Time() time.Time

	// Span returns the span the event occurred in, or nil for an event
	// outside any span.
	Span() Span

	// VisitFields calls fn for each field on the event, in order,
	// stopping early if fn returns false. A field keyed "message" is
	// treated as the event's human-readable text.
	VisitFields(fn func(key, value string) bool)
}

// Observer receives span lifecycle and event notifications from a host
// framework. The Layer implements it; adapters translate host callbacks
// into these three methods.
type Observer interface {
	OnSpanStart(span Span)
	OnEvent(event Event)
	OnSpanEnd(span Span)
}

type field struct {
	key   string
	value string
}

// spanInfo is the metadata captured for a span the first time the Layer
// sees it. Fields are stringified eagerly so later renders cannot observe
// host-side mutation.
type spanInfo struct {
	displayID uint16
	createdAt time.Time
	fields    []field

	// unseen reports whether the span's header has never been rendered.
	// It is consumed with a single Swap so exactly one render treats the
	// span as new.
	unseen atomic.Bool
}

func (l *Layer) newSpanInfo(span Span) *spanInfo {
	info := &spanInfo{displayID: uint16(rand.Uint32())}
	if l.timestamps {
		info.createdAt = time.Now()
	}

	span.VisitFields(func(key, value string) bool {
		info.fields = append(info.fields, field{key: key, value: value})
		return true
	})

	info.unseen.Store(true)
	return info
}

// message returns the span's "message" field, if any.
func (i *spanInfo) message() (string, bool) {
	for _, f := range i.fields {
		if f.key == "message" {
			return f.value, true
		}
	}
	return "", false
}

// ensure records the span's metadata if this is the first time the Layer
// sees it. Concurrent callers agree on a single winning entry.
func (l *Layer) ensure(span Span) {
	id := span.ID()
	if _, ok := l.spans.Load(id); ok {
		return
	}
	l.spans.LoadOrStore(id, l.newSpanInfo(span))
}

func (l *Layer) lookup(id uint64) (*spanInfo, bool) {
	v, ok := l.spans.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*spanInfo), true
}

// scopeDepth counts the spans enclosing an event: 0 outside any span, 1
// inside a root span, and so on.
func scopeDepth(span Span) int {
	depth := 0
	for s := span; s != nil; s = s.Parent() {
		depth++
	}
	return depth
}
