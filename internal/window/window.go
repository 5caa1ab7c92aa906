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

// Package window tracks the terminal's size and recognizes when it
// changes, so the session driver can rewrap and redraw the line
// correctly after a SIGWINCH. The C reference polls a volatile flag set
// from a signal handler and a SIGALRM-driven wake timer; this package
// keeps the same shape (an async signal sets a flag, the read loop polls
// it) but does the waking with a read deadline in internal/termctl
// rather than an alarm, and protects the flag and dimensions with
// atomics instead of relying on signal-safety of plain stores.
package window

import (
	"os"
	"os/signal"
	"sync/atomic"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Tracker holds the last-known terminal size for fd and a dirty flag set
// whenever a SIGWINCH arrives.
type Tracker struct {
	fd   int
	cols atomic.Int32
	rows atomic.Int32

	dirty atomic.Bool
	sigCh chan os.Signal
	stop  chan struct{}
}

// New creates a Tracker for fd, takes an initial size reading, and starts
// listening for SIGWINCH. Callers must call Close when done to stop the
// signal listener goroutine.
func New(fd int) *Tracker {
	t := &Tracker{fd: fd, sigCh: make(chan os.Signal, 1), stop: make(chan struct{})}
	t.refresh()
	signal.Notify(t.sigCh, unix.SIGWINCH)
	go t.loop()
	return t
}

func (t *Tracker) loop() {
	for {
		select {
		case <-t.sigCh:
			t.dirty.Store(true)
		case <-t.stop:
			signal.Stop(t.sigCh)
			return
		}
	}
}

// Close stops the signal listener. Safe to call once.
func (t *Tracker) Close() {
	close(t.stop)
}

func (t *Tracker) refresh() {
	cols, rows, err := term.GetSize(t.fd)
	if err != nil {
		return
	}
	t.cols.Store(int32(cols))
	t.rows.Store(int32(rows))
}

// Columns reports the last-known terminal width. Zero means no size has
// ever been read successfully (e.g. fd is not a terminal); the Tracker
// supplies no fallback width of its own.
func (t *Tracker) Columns() int { return int(t.cols.Load()) }

// Rows reports the last-known terminal height.
func (t *Tracker) Rows() int { return int(t.rows.Load()) }

// Poll checks whether a SIGWINCH has arrived since the last Poll call.
// If so it re-reads the terminal size and reports the size change;
// otherwise changed is false and the other results are zero. Call this
// from the read loop's interrupt callback (see internal/termctl.SafeRead)
// so a resize mid-read is noticed promptly.
func (t *Tracker) Poll() (oldCols, newCols int, changed bool) {
	if !t.dirty.CompareAndSwap(true, false) {
		return 0, 0, false
	}
	old := t.Columns()
	t.refresh()
	now := t.Columns()
	if now == old {
		return 0, 0, false
	}
	return old, now, true
}

// RedrawRows computes how many screen rows beyond the first a prompt of
// width promptWidth followed by length glyphs occupied under the previous
// column count oldCols (0 when it fit on one row), matching the
// line-count arithmetic in the C reference's
// rl_window_update (used there to decide how many rows to back the
// cursor up over before reissuing a full redraw).
func RedrawRows(promptWidth, length, oldCols int) int {
	if oldCols <= 0 {
		return 0
	}
	return (promptWidth + length) / oldCols
}

// ResizeCursorAdjustment reports how many extra rows the cursor's home
// position shifts by when the column count changes from oldCols to
// cols, for a line that previously wrapped onto RedrawRows(promptWidth,
// length, oldCols) extra rows. It mirrors the reference's
// "(1 + cols - oldcols) * rows" correction applied before redrawing
// after a resize.
func ResizeCursorAdjustment(cols, oldCols, promptWidth, length int) int {
	if oldCols <= 0 {
		return 0
	}
	rows := RedrawRows(promptWidth, length, oldCols)
	return (1 + cols - oldCols) * rows
}
