/*
 * Copyright (c) 2026 yakumioto <yaku.mioto@gmail.com>
 * All rights reserved.
 */

package treelog

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fatih/color"
)

var (
	timePen  = color.New(color.Faint)
	namePen  = color.New(color.FgWhite)
	tagPen   = color.New(color.FgWhite)
	caretPen = color.New(color.FgHiYellow)
	keyPen   = color.New(color.FgCyan, color.Faint)
	failPen  = color.New(color.FgRed)

	tracePen = color.New(color.FgHiBlue)
	debugPen = color.New(color.FgBlue)
	infoPen  = color.New(color.FgGreen)
	warnPen  = color.New(color.FgYellow)
	errorPen = color.New(color.FgRed)
)

const timeFormat = "2006-01-02 15:04:05"

// fieldGutter is the column multiline continuation lines are indented to
// before the per-depth indent is added.
const fieldGutter = 22

func levelTag(level slog.Level) string {
	switch {
	case level < slog.LevelDebug:
		return tracePen.Sprint("TRACE")
	case level < slog.LevelInfo:
		return debugPen.Sprint("DEBUG")
	case level < slog.LevelWarn:
		return infoPen.Sprint("INFO")
	case level < slog.LevelError:
		return warnPen.Sprint("WARN")
	default:
		return errorPen.Sprint("ERROR")
	}
}

// printSpan renders the span's header line at depth, preceded by its
// ancestors at decreasing depths, root first. A span that is already the
// last one rendered is skipped together with its whole ancestor chain,
// which is what collapses repeated context between consecutive records.
// last is the render cursor value the caller observed.
func (l *Layer) printSpan(w io.Writer, last uint64, depth int, span Span) {
	if span == nil {
		return
	}

	info, ok := l.lookup(span.ID())
	if !ok {
		fmt.Fprintln(w, failPen.Sprint("failed to read span info"))
		return
	}

	first := info.unseen.Swap(false)
	if span.ID() == last && !first {
		// The span is the last thing rendered, and so is its whole
		// ancestor chain.
		return
	}

	l.printSpan(w, last, max(depth-1, 0), span.Parent())

	l.printTime(w, info.createdAt)
	fmt.Fprintf(w, "%*s", 2*depth, "")

	target := span.Target()
	name := span.Name()
	if target != "" && name != "" {
		fmt.Fprintf(w, "%s::", target)
	} else if target != "" {
		fmt.Fprint(w, target)
	}
	if name != "" {
		fmt.Fprint(w, namePen.Sprint(name))
	}

	if message, ok := info.message(); ok {
		if target == "" && name == "" {
			fmt.Fprint(w, message)
		} else {
			fmt.Fprintf(w, " %s", message)
		}
	}

	marker := " "
	if !first {
		// Reprinted header: the span was rendered before and the
		// cursor has since moved elsewhere.
		marker = caretPen.Sprint("^")
	}
	fmt.Fprintf(w, "%s %s", marker, tagPen.Sprintf("[%04x]", info.displayID))

	for _, f := range info.fields {
		if f.key == "message" {
			continue
		}
		l.printField(w, depth, f.key, f.value)
	}

	fmt.Fprintln(w)
}

func (l *Layer) printField(w io.Writer, depth int, key, value string) {
	if l.multiline {
		fmt.Fprintf(w, "\n%*s- %s %s", 2*depth+fieldGutter, "", keyPen.Sprintf("%s:", key), value)
		return
	}
	fmt.Fprintf(w, " %s %s", keyPen.Sprintf("%s:", key), value)
}

// printEvent renders the event's own line at depth, one level below its
// owning span's header.
func (l *Layer) printEvent(w io.Writer, event Event, depth int) {
	when := event.Time()
	if when.IsZero() {
		when = time.Now()
	}
	l.printTime(w, when)

	fmt.Fprintf(w, "%*s%s", 2*depth, "", levelTag(event.Level()))

	event.VisitFields(func(key, value string) bool {
		if key == "message" {
			fmt.Fprintf(w, " %s", value)
		}
		return true
	})
	event.VisitFields(func(key, value string) bool {
		if key != "message" {
			l.printField(w, depth, key, value)
		}
		return true
	})

	fmt.Fprintln(w)
}

func (l *Layer) printTime(w io.Writer, t time.Time) {
	if !l.timestamps {
		return
	}
	fmt.Fprintf(w, "%s ", timePen.Sprintf("[%s]", t.Format(timeFormat)))
}
