// Copyright 2013 Google, Inc.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package termctl owns the terminal raw-mode lifecycle, a purging buffered
// output arena, and the VT/ANSI cursor-motion primitives the editor needs.
//
// Raw mode acquisition is scoped: EnterRaw saves the terminal's current
// attributes, and the returned Session's Leave restores them on every exit
// path the caller defers it on. Unlike the C reference this package does not
// register a process-exit hook of its own; callers are expected to defer
// Leave immediately after a successful EnterRaw, which is the idiomatic Go
// replacement for atexit (see DESIGN.md).
package termctl

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"syscall"
	"time"

	"golang.org/x/term"
)

// DefaultRawBufferSize is the size of the buffered output arena, matching
// the teacher's DefaultRawBufferSize constant.
const DefaultRawBufferSize = 256

// SetWrapMode is emitted once per session to ensure the terminal performs
// automatic line wrap, matching the C reference's SET_WRAP_MODE.
const SetWrapMode = "\x1b[?7h"

// Session represents one acquisition of raw mode on fd.
type Session struct {
	fd    int
	state *term.State
}

// EnterRaw saves the terminal attributes for fd and switches it to raw
// mode: no line buffering, no echo, 8-bit clean, reads return after the
// first available byte. It is equivalent to the classic termios recipe
// (clear BRKINT|ICRNL|INPCK|ISTRIP|IXON, set IGNBRK; clear OPOST; set
// CS8; clear ECHO|ICANON|IEXTEN; VMIN=1, VTIME=0), applied here through
// golang.org/x/term instead of direct termios syscalls.
func EnterRaw(fd int) (*Session, error) {
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("termctl: enter raw mode: %w", err)
	}
	return &Session{fd: fd, state: state}, nil
}

// Leave restores the terminal attributes saved by EnterRaw. It is safe to
// call once; calling it again is a no-op.
func (s *Session) Leave() error {
	if s == nil || s.state == nil {
		return nil
	}
	state := s.state
	s.state = nil
	if err := term.Restore(s.fd, state); err != nil {
		return fmt.Errorf("termctl: leave raw mode: %w", err)
	}
	return nil
}

// Output is a fixed-size buffered output arena with an explicit Purge,
// matching the C reference's rl_out/rl_out_purge discipline: writes
// accumulate until Purge flushes them to the underlying file, which the
// session driver calls at every dispatch boundary so the user sees state
// changes atomically.
type Output struct {
	w  *bufio.Writer
	f  *os.File
}

// NewOutput wraps f in a buffered arena of DefaultRawBufferSize bytes.
func NewOutput(f *os.File) *Output {
	return &Output{w: bufio.NewWriterSize(f, DefaultRawBufferSize), f: f}
}

// Out appends p to the arena. A persistent write failure is fatal: a
// terminal write failure leaves the screen in an unknown state, so there
// is nothing safer to do than log and exit, matching safe_write's
// "syslog then exit(1)" behavior in the C reference.
func (o *Output) Out(p []byte) {
	if _, err := o.w.Write(p); err != nil {
		o.fatal(err)
	}
}

// Write implements io.Writer over Out, for callers (e.g. the completion
// package's menu/hint renderers) that want a plain io.Writer. A
// persistent failure is still fatal via Out; Write itself never returns
// a non-nil error.
func (o *Output) Write(p []byte) (int, error) {
	o.Out(p)
	return len(p), nil
}

// Purge flushes the arena to the underlying file.
func (o *Output) Purge() {
	if err := o.w.Flush(); err != nil {
		o.fatal(err)
	}
}

func (o *Output) fatal(err error) {
	log.Fatalf("termctl: write: %s", err)
}

// DefaultPollInterval bounds how long a blocking read waits before giving
// onInterrupt a chance to run, replacing the C reference's SIGALRM-based
// wake: golang.org/x/term terminals support read deadlines directly, so a
// short deadline loop does the same job without a signal handler.
const DefaultPollInterval = 100 * time.Millisecond

// SafeRead reads exactly one byte from f, retrying on EINTR and on its
// own poll-interval timeouts. Between retries it invokes onInterrupt
// (typically the window tracker's resize check) so a resize signal
// delivered mid-read is eventually honored, as safe_read does in the C
// reference.
func SafeRead(f *os.File, onInterrupt func()) (byte, error) {
	var buf [1]byte
	for {
		f.SetReadDeadline(time.Now().Add(DefaultPollInterval))
		n, err := f.Read(buf[:])
		if err == nil && n == 1 {
			f.SetReadDeadline(time.Time{})
			return buf[0], nil
		}
		if err == nil {
			continue
		}
		if err == io.EOF {
			return 0, io.EOF
		}
		if os.IsTimeout(err) || isEINTR(err) {
			if onInterrupt != nil {
				onInterrupt()
			}
			continue
		}
		return 0, err
	}
}

func isEINTR(err error) bool {
	for u := err; u != nil; {
		if errno, ok := u.(syscall.Errno); ok {
			return errno == syscall.EINTR
		}
		unwrapper, ok := u.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		u = unwrapper.Unwrap()
	}
	return false
}

// Cursor issues the cursor-motion primitives against an Output, tracking
// the prompt width and a column-count source (normally the window
// tracker's current size) needed to translate a logical glyph-count move
// into row/column escape sequences.
type Cursor struct {
	out         *Output
	promptWidth int
	columns     func() int
}

// NewCursor returns a Cursor writing through out, consulting columns for
// the current terminal width on every move (0 or negative disables
// wrap-aware math and falls back to plain horizontal motion).
func NewCursor(out *Output, columns func() int) *Cursor {
	return &Cursor{out: out, columns: columns}
}

// SetPromptWidth records the prompt's display width in glyphs, added to
// every glyph offset before wrap math.
func (c *Cursor) SetPromptWidth(w int) { c.promptWidth = w }

// PromptWidth reports the width last set by SetPromptWidth.
func (c *Cursor) PromptWidth() int { return c.promptWidth }

// Columns reports the current column count used for wrap math, or 0 if
// none is configured.
func (c *Cursor) Columns() int {
	if c.columns == nil {
		return 0
	}
	return c.columns()
}

// Out writes raw bytes through the underlying Output.
func (c *Cursor) Out(p []byte) { c.out.Out(p) }

// Home moves the cursor to the start of the current screen row via a
// bare carriage return, matching CUR_HOME in the C reference.
func (c *Cursor) Home() { c.out.Out([]byte{'\r'}) }

// Left emits "move left n" (backspace if n == 1, CUR_LEFT_N otherwise).
func (c *Cursor) Left(n int) {
	if n <= 0 {
		return
	}
	if n == 1 {
		c.out.Out([]byte{'\b'})
		return
	}
	c.out.Out([]byte(fmt.Sprintf("\x1b[%dD", n)))
}

// Right emits "move right n" (CUR_RIGHT_N).
func (c *Cursor) Right(n int) {
	if n <= 0 {
		return
	}
	c.out.Out([]byte(fmt.Sprintf("\x1b[%dC", n)))
}

// Up emits "move up n" (CUR_UP_N).
func (c *Cursor) Up(n int) {
	if n <= 0 {
		return
	}
	c.out.Out([]byte(fmt.Sprintf("\x1b[%dA", n)))
}

// Down emits "move down n" (CUR_DOWN_N).
func (c *Cursor) Down(n int) {
	if n <= 0 {
		return
	}
	c.out.Out([]byte(fmt.Sprintf("\x1b[%dB", n)))
}

// MoveBy translates "move by delta glyphs, currently at glyph offset pos"
// into row/column escape sequences against the prompt width and current
// column count, matching rl_move in the C reference. If no positive
// column count is available it degrades to plain left/right motion.
func (c *Cursor) MoveBy(pos, delta int) {
	cols := 0
	if c.columns != nil {
		cols = c.columns()
	}
	if cols <= 0 {
		switch {
		case delta < 0:
			c.Left(-delta)
		case delta > 0:
			c.Right(delta)
		}
		return
	}

	abs := pos + c.promptWidth
	row, col := abs/cols, abs%cols
	toAbs := abs + delta
	toRow, toCol := toAbs/cols, toAbs%cols

	switch {
	case toCol < col:
		c.Left(col - toCol)
	case toCol > col:
		c.Right(toCol - col)
	}
	switch {
	case toRow < row:
		c.Up(row - toRow)
	case toRow > row:
		c.Down(toRow - row)
	}
}
