/*
 * Copyright (c) 2026 yakumioto <yaku.mioto@gmail.com>
 * All rights reserved.
 */

package treelog

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutput(t *testing.T) {
	t.Run("new output falls back to stdout", func(t *testing.T) {
		o := NewOutput(nil)

		w, release := o.Acquire()
		release()

		assert.Equal(t, os.Stdout, w)
	})

	t.Run("stdout and stderr", func(t *testing.T) {
		w, release := Stdout().Acquire()
		release()
		assert.Equal(t, os.Stdout, w)

		w, release = Stderr().Acquire()
		release()
		assert.Equal(t, os.Stderr, w)
	})

	t.Run("buffer zero value is usable", func(t *testing.T) {
		var b Buffer

		w, release := b.Acquire()
		fmt.Fprint(w, "hello")
		release()

		assert.Equal(t, "hello", b.String())

		b.Reset()
		assert.Empty(t, b.String())
	})

	t.Run("acquire is exclusive", func(t *testing.T) {
		var b Buffer
		var wg sync.WaitGroup

		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()

				w, release := b.Acquire()
				defer release()

				fmt.Fprint(w, "begin")
				runtime.Gosched()
				fmt.Fprintln(w, "end")
			}()
		}
		wg.Wait()

		lines := strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
		assert.Len(t, lines, 50)
		for _, line := range lines {
			assert.Equal(t, "beginend", line)
		}
	})
}
