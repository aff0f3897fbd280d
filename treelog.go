/*
 * Copyright (c) 2026 yakumioto <yaku.mioto@gmail.com>
 * All rights reserved.
 */

package treelog

import (
	"sync"
	"sync/atomic"
)

// Options is a functional option for the Layer.
type Options func(*Layer)

// WithLogSpans renders every span's header as soon as the span starts, not
// only when an event occurs inside it.
func WithLogSpans() Options {
	return func(l *Layer) {
		l.logSpans = true
	}
}

// WithMultiline renders each field on its own continuation line instead of
// inline on the span or event line.
func WithMultiline() Options {
	return func(l *Layer) {
		l.multiline = true
	}
}

// WithTimestamps prefixes every rendered line with a wall-clock timestamp.
// A span header keeps the time the span was started, no matter when the
// header is rendered.
func WithTimestamps() Options {
	return func(l *Layer) {
		l.timestamps = true
	}
}

// WithEvictOnClose drops a span's metadata when the host reports the span
// closed, bounding the metadata table in long-running processes. An event
// that still reaches a closed span afterwards renders the placeholder error
// line instead of its header.
func WithEvictOnClose() Options {
	return func(l *Layer) {
		l.evict = true
	}
}

// Layer renders a stream of span and event notifications as one indented
// tree. An event is preceded by the headers of all spans enclosing it, and a
// header is rendered at most once per contiguous run of events that share
// it: when logging moves between sibling or cousin spans, only the divergent
// part of the ancestor chain is reprinted.
//
// A Layer is driven through the Observer methods, either directly by a host
// framework or through the bundled Processor and Handler adapters. All
// methods are safe for concurrent use.
type Layer struct {
	output     Output
	logSpans   bool
	multiline  bool
	timestamps bool
	evict      bool

	// lastSpan holds the id of the most recently rendered span, 0 when
	// none. It is a rendering hint, not a lock-protected invariant: the
	// store is not transactional with the write it follows, so racing
	// renders can leave it stale. A stale value costs one duplicate or
	// one missing header, never corrupt bytes.
	lastSpan atomic.Uint64

	// spans maps span ids to captured metadata. Entries are inserted
	// once per span and removed only when eviction is enabled.
	spans sync.Map
}

// New creates a Layer writing to output. A nil output falls back to
// Stdout().
func New(output Output, opts ...Options) *Layer {
	if output == nil {
		output = Stdout()
	}

	l := &Layer{output: output}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

var _ Observer = (*Layer)(nil)

// OnSpanStart captures the span's creation-time fields. When span logging is
// enabled it also renders the span's header, preceded by any ancestors that
// are not already on screen, and moves the render cursor to the span.
func (l *Layer) OnSpanStart(span Span) {
	if span == nil {
		return
	}

	l.ensure(span)

	if !l.logSpans {
		return
	}

	w, release := l.output.Acquire()
	defer release()

	depth := scopeDepth(span)
	l.printSpan(w, l.lastSpan.Load(), max(depth-1, 0), span)
	l.lastSpan.Store(span.ID())
}

// OnEvent renders the event's line at one level below its owning span,
// preceded by the headers of every enclosing span that is not already the
// last thing on screen.
func (l *Layer) OnEvent(event Event) {
	if event == nil {
		return
	}

	w, release := l.output.Acquire()
	defer release()

	span := event.Span()
	depth := scopeDepth(span)
	l.printSpan(w, l.lastSpan.Load(), max(depth-1, 0), span)

	if span != nil {
		l.lastSpan.Store(span.ID())
	} else {
		l.lastSpan.Store(0)
	}

	l.printEvent(w, event, depth)
}

// OnSpanEnd retires the render cursor when the closing span was the last
// one shown, moving it to the span's parent so following output is diffed
// against the surviving context. The sink is acquired, without writing, so
// the correction cannot interleave with a render in progress.
func (l *Layer) OnSpanEnd(span Span) {
	if span == nil {
		return
	}

	_, release := l.output.Acquire()
	defer release()

	var parent uint64
	if p := span.Parent(); p != nil {
		parent = p.ID()
	}
	l.lastSpan.CompareAndSwap(span.ID(), parent)

	if l.evict {
		l.spans.Delete(span.ID())
	}
}
