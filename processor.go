/*
 * Copyright (c) 2026 yakumioto <yaku.mioto@gmail.com>
 * All rights reserved.
 */

package treelog

import (
	"context"
	"encoding/binary"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

var _ sdktrace.SpanProcessor = &Processor{}

// Processor feeds OpenTelemetry SDK spans to a Layer. Register it on a
// TracerProvider and every span started through that provider becomes a
// node in the rendered tree.
//
// The Processor keeps its own span registry so a child can still name its
// parent after the parent ended, and so the Handler can attribute slog
// records to the span found in a context.
type Processor struct {
	layer *Layer
	spans sync.Map
}

// NewProcessor creates a Processor driving layer. A nil layer falls back
// to New(nil).
func NewProcessor(layer *Layer) *Processor {
	if layer == nil {
		layer = New(nil)
	}
	return &Processor{layer: layer}
}

// OnStart registers the started span and notifies the Layer.
func (p *Processor) OnStart(_ context.Context, s sdktrace.ReadWriteSpan) {
	sc := s.SpanContext()
	if !sc.HasSpanID() {
		return
	}

	span := &otelSpan{
		id:     spanKey(sc.SpanID()),
		name:   s.Name(),
		target: s.InstrumentationScope().Name,
		attrs:  s.Attributes(),
	}
	if parent := s.Parent(); parent.HasSpanID() {
		if v, ok := p.spans.Load(spanKey(parent.SpanID())); ok {
			span.parent = v.(*otelSpan)
		}
	}

	p.spans.Store(span.id, span)
	p.layer.OnSpanStart(span)
}

// OnEnd removes the span from the registry and notifies the Layer. Records
// logged with the span's context afterwards render as span-less events.
func (p *Processor) OnEnd(s sdktrace.ReadOnlySpan) {
	sc := s.SpanContext()
	if !sc.HasSpanID() {
		return
	}

	if v, ok := p.spans.LoadAndDelete(spanKey(sc.SpanID())); ok {
		p.layer.OnSpanEnd(v.(*otelSpan))
	}
}

// Shutdown implements sdktrace.SpanProcessor. Nothing is buffered.
func (p *Processor) Shutdown(context.Context) error { return nil }

// ForceFlush implements sdktrace.SpanProcessor. Nothing is buffered.
func (p *Processor) ForceFlush(context.Context) error { return nil }

// resolve returns the live span recorded in ctx, or nil.
func (p *Processor) resolve(ctx context.Context) Span {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasSpanID() {
		return nil
	}
	v, ok := p.spans.Load(spanKey(sc.SpanID()))
	if !ok {
		return nil
	}
	return v.(*otelSpan)
}

// spanKey folds an OpenTelemetry span id into the Layer's id space. A
// valid span id is never all zeros, so the result is never 0.
func spanKey(id trace.SpanID) uint64 {
	return binary.BigEndian.Uint64(id[:])
}

type otelSpan struct {
	id     uint64
	name   string
	target string
	parent *otelSpan
	attrs  []attribute.KeyValue
}

func (s *otelSpan) ID() uint64     { return s.id }
func (s *otelSpan) Name() string   { return s.name }
func (s *otelSpan) Target() string { return s.target }

func (s *otelSpan) Parent() Span {
	if s.parent == nil {
		return nil
	}
	return s.parent
}

func (s *otelSpan) VisitFields(fn func(key, value string) bool) {
	for _, kv := range s.attrs {
		if !fn(string(kv.Key), kv.Value.Emit()) {
			return
		}
	}
}
