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

// Package readline implements a self-contained, dependency-light
// interactive line editor for terminals: raw-mode input, in-place
// editing with cursor motion, bounded history with recall, and a tab
// completion bridge. It is the Go descendant of Holixus/readline (a C
// library), restructured around small internal packages the way the
// teacher repo (kylelemons/goat) structures its own terminal and
// line-editing code.
package readline

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/Holixus/readline/completion"
	"github.com/Holixus/readline/history"
	"github.com/Holixus/readline/internal/buffer"
	"github.com/Holixus/readline/internal/glyph"
	"github.com/Holixus/readline/internal/keymap"
	"github.com/Holixus/readline/internal/termctl"
	"github.com/Holixus/readline/internal/window"
)

// Default configuration values, replacing the C reference's
// compile-time #defines (MAX_LEN, HISTORY_DEPTH, WINDOW_WIDTH).
const (
	DefaultMaxLine      = 4096
	DefaultHistoryDepth = 100
	DefaultWindowWidth  = 80
)

// Config holds an Editor's tunable knobs.
type Config struct {
	// MaxLine bounds how many glyphs a single line may hold.
	MaxLine int
	// HistoryDepth bounds how many accepted lines are retained.
	HistoryDepth int
	// WindowWidth is the fallback column count used when the terminal's
	// actual size cannot be determined.
	WindowWidth int
	// SortHints, when true, makes DumpOptions sort its argument in place
	// before rendering it.
	SortHints bool
	// History, if set, persists history across Editor lifetimes.
	History history.Store
}

// CompletionFunc is the tab-completion callback contract: given the
// current line and the cursor's byte offset within it, return the text
// to insert at the cursor, or nil for no completion.
type CompletionFunc = completion.Func

// Editor holds one terminal line-editing session's state: the edit
// buffer, history, window tracker, and output arena. An Editor is not
// safe for concurrent use; only one Readline call may be in flight at a
// time, matching the single-threaded cooperative model the terminal
// itself imposes.
type Editor struct {
	cfg      Config
	complete CompletionFunc

	hist   *history.History
	win    *window.Tracker
	out    *termctl.Output
	cursor *termctl.Cursor
	buf    *buffer.Buffer

	stdin   *os.File
	stdinFd int
	scanner *bufio.Scanner

	prompt string
}

// New creates an Editor: it restores history from cfg.History (if set,
// treating a missing file as an empty history) and starts the
// terminal-resize watcher.
func New(cfg Config, complete CompletionFunc) (*Editor, error) {
	if cfg.MaxLine <= 0 {
		cfg.MaxLine = DefaultMaxLine
	}
	if cfg.HistoryDepth <= 0 {
		cfg.HistoryDepth = DefaultHistoryDepth
	}
	if cfg.WindowWidth <= 0 {
		cfg.WindowWidth = DefaultWindowWidth
	}

	hist := history.New(cfg.HistoryDepth)
	if cfg.History != nil {
		if r, err := cfg.History.Reader(); err == nil {
			restoreErr := hist.Restore(r)
			closeErr := r.Close()
			if restoreErr != nil {
				return nil, fmt.Errorf("readline: restore history: %w", restoreErr)
			}
			if closeErr != nil {
				return nil, fmt.Errorf("readline: restore history: %w", closeErr)
			}
		}
		// A Reader error (typically "file does not exist yet") just
		// means there is no history to restore.
	}

	stdinFd := int(os.Stdin.Fd())
	win := window.New(stdinFd)
	out := termctl.NewOutput(os.Stdout)
	fallback := cfg.WindowWidth
	cursor := termctl.NewCursor(out, func() int {
		if c := win.Columns(); c > 0 {
			return c
		}
		return fallback
	})
	buf := buffer.New(cfg.MaxLine, cursor)

	return &Editor{
		cfg:      cfg,
		complete: complete,
		hist:     hist,
		win:      win,
		out:      out,
		cursor:   cursor,
		buf:      buf,
		stdin:    os.Stdin,
		stdinFd:  stdinFd,
	}, nil
}

// Close persists history (if cfg.History is set) and stops the resize
// watcher. Call it once the Editor is no longer needed.
func (e *Editor) Close() error {
	var err error
	if e.cfg.History != nil {
		if w, werr := e.cfg.History.Writer(); werr == nil {
			if saveErr := e.hist.Save(w); saveErr != nil {
				err = saveErr
			}
			if closeErr := w.Close(); closeErr != nil && err == nil {
				err = closeErr
			}
		} else {
			err = werr
		}
	}
	e.win.Close()
	return err
}

// columns reports the current effective column count.
func (e *Editor) columns() int { return e.cursor.Columns() }

// Readline runs one prompt-to-submission editing cycle and returns the
// accepted line. If standard input is not a terminal, it degrades to
// reading one line with bufio.Scanner and never touches raw mode. seed,
// if non-empty, pre-fills the line before editing begins.
//
// io.EOF is returned when the input stream itself ends (the terminal's
// read returns zero bytes, or EOF on a non-terminal standard input)
// while the line is empty; if the terminal stream ends after text was
// typed, that text is returned as the accepted line with a nil error.
// There is no keystroke that signals EOF on its own; Ctrl-D is an
// ordinary delete-forward, matching the key binding table.
func (e *Editor) Readline(prompt, seed string) (string, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return e.readlineNoTTY()
	}

	e.buf.Reset()
	e.hist.End()
	e.prompt = prompt
	e.cursor.SetPromptWidth(glyph.Width([]byte(prompt)))

	session, err := termctl.EnterRaw(e.stdinFd)
	if err != nil {
		return "", err
	}
	defer session.Leave()

	e.out.Out([]byte(prompt))
	e.out.Out([]byte(termctl.SetWrapMode))
	if seed != "" {
		e.buf.SetText([]byte(seed))
	}
	e.out.Purge()

	var (
		pending []byte
		eof     bool
	)

readLoop:
	for {
		e.checkResize()
		b, rerr := termctl.SafeRead(e.stdin, e.checkResize)
		if rerr != nil {
			if rerr == io.EOF {
				eof = len(pending) == 0
				break readLoop
			}
			return "", rerr
		}
		pending = append(pending, b)
		if len(pending) > keymap.MaxSequence {
			pending = pending[:0]
			continue
		}

		result := keymap.Classify(pending)
		switch result.Status {
		case keymap.Incomplete:
			continue
		case keymap.Discard:
			pending = pending[:0]
		case keymap.Text:
			e.buf.Insert(glyph.DecodeAll(nil, pending[:result.Consumed]))
			pending = pending[:0]
		case keymap.Matched:
			pending = pending[:0]
			if e.dispatch(result.Cmd) {
				break readLoop
			}
		}
		e.out.Purge()
	}
	e.out.Purge()

	e.buf.CursorEnd()
	line := string(e.buf.Bytes())
	e.out.Purge()
	session.Leave()

	if eof && line == "" {
		return "", io.EOF
	}

	e.hist.Add(line)
	fmt.Fprintln(os.Stdout)
	return line, nil
}

func (e *Editor) readlineNoTTY() (string, error) {
	if e.scanner == nil {
		e.scanner = bufio.NewScanner(e.stdin)
	}
	if e.scanner.Scan() {
		return e.scanner.Text(), nil
	}
	if err := e.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// dispatch executes one recognized command against the edit buffer,
// history, or completion bridge. It returns true when the read loop
// should stop (the line has been accepted).
func (e *Editor) dispatch(cmd keymap.Command) (done bool) {
	switch cmd {
	case keymap.CmdAcceptLine:
		return true

	case keymap.CmdCursorLeft:
		e.buf.CursorLeft()
	case keymap.CmdCursorRight:
		e.buf.CursorRight()
	case keymap.CmdCursorHome:
		e.buf.CursorHome()
	case keymap.CmdCursorEnd:
		e.buf.CursorEnd()
	case keymap.CmdWordLeft:
		e.buf.WordLeft()
	case keymap.CmdWordRight:
		e.buf.WordRight()
	case keymap.CmdBackspace:
		e.buf.Backspace()
	case keymap.CmdDeleteForward:
		e.buf.DeleteN(1)
	case keymap.CmdDeleteWordBackward:
		e.buf.DeleteWordBackward()
	case keymap.CmdDeleteWordForward:
		e.buf.DeleteWordForward()
	case keymap.CmdDeleteToHome:
		e.buf.DeleteToHome()
	case keymap.CmdDeleteToEnd:
		e.buf.DeleteToEnd()

	case keymap.CmdHistoryBack:
		e.hist.Begin(string(e.buf.Bytes()))
		if line, ok := e.hist.Back(); ok {
			e.buf.SetText([]byte(line))
		}
	case keymap.CmdHistoryForward:
		e.hist.Begin(string(e.buf.Bytes()))
		if line, ok := e.hist.Forward(); ok {
			e.buf.SetText([]byte(line))
		}
	case keymap.CmdHistoryBegin:
		e.hist.Begin(string(e.buf.Bytes()))
		if line, ok := e.hist.First(); ok {
			e.buf.SetText([]byte(line))
		}
	case keymap.CmdHistoryEnd:
		e.hist.Begin(string(e.buf.Bytes()))
		if line, ok := e.hist.Last(); ok {
			e.buf.SetText([]byte(line))
		}

	case keymap.CmdComplete:
		e.offerCompletion()
	}
	return false
}

func (e *Editor) cursorByteOffset() int {
	return len(glyph.Encode(nil, e.buf.Glyphs()[:e.buf.Cursor()]))
}

func (e *Editor) offerCompletion() {
	req := completion.Request{Line: e.buf.Bytes(), Cursor: e.cursorByteOffset()}
	result, ok := completion.Offer(e.complete, req)
	if !ok || len(result) == 0 {
		return
	}
	e.buf.Insert(glyph.DecodeAll(nil, result))
}

// DumpOptions renders options below the current line in evenly sized
// columns (sorted in place first if Config.SortHints is set), then
// redraws the prompt and line beneath. Intended to be called from
// within a CompletionFunc.
func (e *Editor) DumpOptions(options []string) {
	completion.DumpOptions(e.out, options, e.columns(), e.cfg.SortHints)
	e.out.Out([]byte(e.prompt))
	e.buf.RedrawFromHome()
	e.out.Purge()
}

// DumpHint renders one formatted line below the current line, then
// redraws the prompt and line beneath. Intended to be called from
// within a CompletionFunc.
func (e *Editor) DumpHint(format string, args ...any) {
	completion.DumpHint(e.out, format, args...)
	e.out.Out([]byte(e.prompt))
	e.buf.RedrawFromHome()
	e.out.Purge()
}

func (e *Editor) checkResize() {
	oldCols, newCols, changed := e.win.Poll()
	if !changed {
		return
	}
	adjust := window.ResizeCursorAdjustment(newCols, oldCols, e.cursor.PromptWidth(), e.buf.Len())
	switch {
	case adjust > 0:
		e.cursor.Up(adjust)
	case adjust < 0:
		e.cursor.Down(-adjust)
	}
	e.cursor.Home()
	e.out.Out([]byte("\x1b[J"))
	e.out.Out([]byte(e.prompt))
	e.buf.RedrawFromHome()
	e.out.Purge()
}
