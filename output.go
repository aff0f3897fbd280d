/*
 * Copyright (c) 2026 yakumioto <yaku.mioto@gmail.com>
 * All rights reserved.
 */

package treelog

import (
	"bytes"
	"io"
	"os"
	"sync"
)

// Output is where the Layer writes rendered lines. Acquire grants the
// caller exclusive use of the returned writer until the release function is
// called, so one logical record is never interleaved with another. Write
// errors are ignored by the Layer; an Output that cares should track them
// itself.
type Output interface {
	Acquire() (io.Writer, func())
}

type writerOutput struct {
	mu sync.Mutex
	w  io.Writer
}

// NewOutput wraps an arbitrary writer in a mutex-guarded Output. A nil
// writer falls back to os.Stdout.
func NewOutput(w io.Writer) Output {
	if w == nil {
		w = os.Stdout
	}
	return &writerOutput{w: w}
}

func (o *writerOutput) Acquire() (io.Writer, func()) {
	o.mu.Lock()
	return o.w, o.mu.Unlock
}

// Stdout returns an Output writing to standard output.
func Stdout() Output {
	return NewOutput(os.Stdout)
}

// Stderr returns an Output writing to standard error.
func Stderr() Output {
	return NewOutput(os.Stderr)
}

// Buffer is an in-memory Output for tests and capture. The zero value is
// ready to use.
type Buffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

var _ Output = (*Buffer)(nil)

func (b *Buffer) Acquire() (io.Writer, func()) {
	b.mu.Lock()
	return &b.buf, b.mu.Unlock
}

// String returns everything written so far.
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Reset discards the accumulated output.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}
