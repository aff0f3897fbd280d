/*
Package treelog renders logs as trees. Spans group the events that happen
inside them, and every event line is preceded by the headers of the spans
enclosing it, indented by nesting depth, so the causal structure of a request
is visible directly in the terminal instead of being reconstructed from
interleaved flat lines.

# Core Concepts

The package centers on the Layer, which consumes span lifecycle and event
notifications and writes an incrementally rendered tree. A header is printed
at most once per contiguous run of output that shares it: as long as logging
stays inside the same span, only event lines are emitted, and when logging
moves to a sibling or cousin span, only the divergent part of the ancestor
chain is reprinted. A header shown again after its first appearance carries a
caret marker so re-entry is distinguishable from a new span.

Spans and events reach the Layer through three small interfaces (Span, Event,
Observer), so any tracing or logging framework can drive it. Two adapters are
bundled: a Processor that plugs into the OpenTelemetry SDK as a span
processor, and a Handler that plugs into slog, attributing each record to the
span found in its context.

# Key Features

Tree Rendering:
  - Two-space indentation per nesting level
  - Ancestor headers printed root first, only when not already on screen
  - Caret marker on headers reprinted after logging moved elsewhere
  - Per-span four-hex-digit display id for matching re-entries by eye

Flexible Configuration:
  - Optional header rendering at span start instead of first event
  - Inline or one-per-line field layout
  - Optional wall-clock timestamps, spans keeping their start time
  - Optional metadata eviction when spans close

Structured Data Support:
  - Span attributes rendered on the span's header line
  - Full support for slog's group functionality with dot-joined keys
  - Fields stringified once at capture, immune to later mutation

# Basic Usage

1. Rendering OpenTelemetry spans and slog records:

	layer := treelog.New(treelog.Stdout())
	processor := treelog.NewProcessor(layer)

	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(processor))
	otel.SetTracerProvider(tp)
	slog.SetDefault(slog.New(treelog.NewHandler(processor)))

	ctx, span := otel.Tracer("app").Start(context.Background(), "handle_request")
	defer span.End()
	slog.InfoContext(ctx, "request accepted", "method", "GET")

2. Configuring the layer:

	layer := treelog.New(
	    treelog.Stderr(),
	    treelog.WithLogSpans(),
	    treelog.WithTimestamps(),
	    treelog.WithMultiline(),
	)

# Output Format

Each span header renders its target and name joined by "::", the display id
in brackets, and the span's fields:

	server::handle_request  [3ac9] method: GET path: /api/items
	  INFO parsing query
	  DEBUG cache miss key: items
	...
	server::handle_request^ [3ac9]
	  WARN slow response elapsed: 1.2s

Event lines are indented one level below their span and tagged with one of
five levels (TRACE, DEBUG, INFO, WARN, ERROR). Events outside any span render
at the left margin with no header above them.

# Configuration Options

The layer supports several functional options for customization:

WithLogSpans():

	Renders each span's header when the span starts, not only when the
	first event occurs inside it

WithMultiline():

	Renders each field on its own continuation line instead of inline

WithTimestamps():

	Prefixes every line with a wall-clock timestamp

WithEvictOnClose():

	Drops span metadata when the span closes, bounding memory in
	long-running processes

# Custom Hosts

Frameworks other than OpenTelemetry can drive the Layer directly by
implementing Span and Event and calling the Observer methods:

	layer.OnSpanStart(span)
	layer.OnEvent(event)
	layer.OnSpanEnd(span)

Span ids must be non-zero and unique among live spans, and Parent must keep
returning the original parent even after that parent closes, so divergence
between branches of the tree can be computed for the lifetime of the child.

# Thread Safety

All Layer methods are safe for concurrent use. Output is serialized so that a
header chain and its event line are never interleaved with other records. The
record of which span was last rendered is kept as a best-effort atomic rather
than under a lock, so under heavy cross-span concurrency an occasional
duplicate or collapsed header is possible; output bytes are never corrupted.

# Integration with OpenTelemetry

The Processor implements sdktrace.SpanProcessor, so it composes with the rest
of the SDK: it can run alongside exporters on the same provider, observing
every span the provider starts.

Example setup with an OTLP exporter alongside the tree renderer:

	func initTracer(ctx context.Context, processor *treelog.Processor) (func(), error) {
	    exporter, err := otlptrace.New(
	        ctx,
	        otlptracehttp.NewClient(
	            otlptracehttp.WithEndpoint("localhost:4318"),
	            otlptracehttp.WithInsecure(),
	        ),
	    )
	    if err != nil {
	        return nil, err
	    }

	    tp := sdktrace.NewTracerProvider(
	        sdktrace.WithSpanProcessor(processor),
	        sdktrace.WithBatcher(exporter),
	        sdktrace.WithResource(resource.NewWithAttributes(
	            semconv.SchemaURL,
	            semconv.ServiceName("your-service"),
	        )),
	    )
	    otel.SetTracerProvider(tp)

	    return func() { tp.Shutdown(ctx) }, nil
	}

The package is aimed at development-time and terminal-first observability,
where reading the shape of an operation matters more than machine-parsable
records.
*/
package treelog
