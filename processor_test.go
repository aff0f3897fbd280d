/*
 * Copyright (c) 2026 yakumioto <yaku.mioto@gmail.com>
 * All rights reserved.
 */

package treelog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// otelID fetches the display id recorded for an SDK span.
func otelID(t *testing.T, p *Processor, span trace.Span) uint16 {
	t.Helper()
	info, ok := p.layer.lookup(spanKey(span.SpanContext().SpanID()))
	if !ok {
		t.Fatalf("no metadata recorded for span %s", span.SpanContext().SpanID())
	}
	return info.displayID
}

// TestProcessor tests the SDK span processor against a real TracerProvider.
func TestProcessor(t *testing.T) {
	setup := func(t *testing.T, opts ...Options) (*Buffer, *Processor, trace.Tracer) {
		t.Helper()
		plainColors(t)

		buf := &Buffer{}
		processor := NewProcessor(New(buf, opts...))
		tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(processor))
		t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

		return buf, processor, tp.Tracer("app")
	}

	t.Run("nil layer falls back to stdout", func(t *testing.T) {
		p := NewProcessor(nil)

		w, release := p.layer.output.Acquire()
		release()
		assert.Equal(t, os.Stdout, w)
	})

	t.Run("nested spans render root first", func(t *testing.T) {
		buf, processor, tracer := setup(t)
		logger := slog.New(NewHandler(processor))

		ctx, parent := tracer.Start(context.Background(), "request")
		ctx, child := tracer.Start(ctx, "query")
		logger.InfoContext(ctx, "rows", "count", "3")
		child.End()
		parent.End()

		expected := fmt.Sprintf("app::request  [%04x]\n", otelID(t, processor, parent)) +
			fmt.Sprintf("  app::query  [%04x]\n", otelID(t, processor, child)) +
			"    INFO rows count: 3\n"
		assert.Equal(t, expected, buf.String())
	})

	t.Run("parent chain survives parent end", func(t *testing.T) {
		buf, processor, tracer := setup(t)
		logger := slog.New(NewHandler(processor))

		ctx, parent := tracer.Start(context.Background(), "request")
		ctx, child := tracer.Start(ctx, "flush")
		parent.End()
		logger.InfoContext(ctx, "async work")
		child.End()

		expected := fmt.Sprintf("app::request  [%04x]\n", otelID(t, processor, parent)) +
			fmt.Sprintf("  app::flush  [%04x]\n", otelID(t, processor, child)) +
			"    INFO async work\n"
		assert.Equal(t, expected, buf.String())
	})

	t.Run("span attributes render on the header", func(t *testing.T) {
		buf, processor, tracer := setup(t)
		logger := slog.New(NewHandler(processor))

		ctx, span := tracer.Start(context.Background(), "load",
			trace.WithAttributes(
				attribute.String("table", "users"),
				attribute.Int("limit", 50),
			))
		logger.InfoContext(ctx, "done")
		span.End()

		expected := fmt.Sprintf("app::load  [%04x] table: users limit: 50\n", otelID(t, processor, span)) +
			"  INFO done\n"
		assert.Equal(t, expected, buf.String())
	})

	t.Run("remote parent renders as root", func(t *testing.T) {
		buf, processor, tracer := setup(t)
		logger := slog.New(NewHandler(processor))

		remote := trace.NewSpanContext(trace.SpanContextConfig{
			TraceID: trace.TraceID{0x01},
			SpanID:  trace.SpanID{0x02},
			// Sampled, so the parent-based sampler records the local child.
			TraceFlags: trace.FlagsSampled,
			Remote:     true,
		})
		ctx := trace.ContextWithRemoteSpanContext(context.Background(), remote)

		ctx, span := tracer.Start(ctx, "edge")
		logger.InfoContext(ctx, "hop")
		span.End()

		// The remote parent was never started locally, so the local span
		// renders without indentation.
		expected := fmt.Sprintf("app::edge  [%04x]\n", otelID(t, processor, span)) +
			"  INFO hop\n"
		assert.Equal(t, expected, buf.String())
	})

	t.Run("resolve finds the span in context", func(t *testing.T) {
		_, processor, tracer := setup(t)

		ctx, span := tracer.Start(context.Background(), "op")

		got := processor.resolve(ctx)
		assert.NotNil(t, got)
		assert.Equal(t, spanKey(span.SpanContext().SpanID()), got.ID())
		assert.Equal(t, "op", got.Name())
		assert.Equal(t, "app", got.Target())

		assert.Nil(t, processor.resolve(context.Background()))

		span.End()
		assert.Nil(t, processor.resolve(ctx))
	})

	t.Run("shutdown and force flush are no-ops", func(t *testing.T) {
		_, processor, _ := setup(t)

		assert.NoError(t, processor.Shutdown(context.Background()))
		assert.NoError(t, processor.ForceFlush(context.Background()))
	})
}

func TestSpanKey(t *testing.T) {
	assert.Equal(t, uint64(0x2a), spanKey(trace.SpanID{0, 0, 0, 0, 0, 0, 0, 0x2a}))
	assert.Equal(t, uint64(0x0102030405060708), spanKey(trace.SpanID{1, 2, 3, 4, 5, 6, 7, 8}))
}
