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

// Package completion bridges the editor to caller-supplied tab
// completion and renders the two auxiliary displays the C reference
// supports: a full option dump (rl_dump_options) and a one-line hint
// (rl_dump_hint), both of which print below the current line and then
// let the caller redraw it.
package completion

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Func is the completion callback contract: given the current line and
// cursor position (both in bytes, matching the editor's public Readline
// signature), it returns the text to insert at the cursor, or nil if
// there is nothing to complete. This mirrors the reference's
// application-supplied completion hook.
type Func func(line []byte, cursor int) []byte

// Request groups the completion callback's inputs, for callers that
// prefer passing a single value through Offer rather than two
// positional arguments.
type Request struct {
	Line   []byte
	Cursor int
}

// Offer invokes fn if non-nil, returning the text it produced and
// whether it produced any (a nil result counts as none).
func Offer(fn Func, req Request) (line []byte, ok bool) {
	if fn == nil {
		return nil, false
	}
	result := fn(req.Line, req.Cursor)
	if result == nil {
		return nil, false
	}
	return result, true
}

// columnPadding is added to the longest option's length to give the
// column width DumpOptions pads entries to.
const columnPadding = 2

// DumpOptions prints options below the current line in a filled
// multi-column grid sized to width (the terminal's column count),
// adapting the row/column fill-loop technique the teacher repo used for
// its full-screen border drawing to a simpler one-shot listing. If sort
// is true, options is sorted in place before printing (the reference
// only ever receives the completion candidates for this one call, so
// sorting the caller's slice is harmless and saves an allocation).
func DumpOptions(w io.Writer, options []string, width int, sort_ bool) {
	if len(options) == 0 {
		return
	}
	if sort_ {
		sort.Strings(options)
	}

	longest := 0
	for _, opt := range options {
		if len(opt) > longest {
			longest = len(opt)
		}
	}
	colWidth := longest + columnPadding
	if width <= 0 {
		width = colWidth
	}
	cols := width / colWidth
	if cols < 1 {
		cols = 1
	}

	fmt.Fprint(w, "\r\n")
	for i, opt := range options {
		fmt.Fprint(w, opt, strings.Repeat(" ", colWidth-len(opt)))
		if (i+1)%cols == 0 || i == len(options)-1 {
			fmt.Fprint(w, "\r\n")
		}
	}
}

// DumpHint prints a single formatted hint line below the current line,
// matching rl_dump_hint's printf-style contract. Lines end in "\r\n", not
// a bare "\n": the session is in raw mode (OPOST is off), so only an
// explicit carriage return moves the cursor back to column zero.
func DumpHint(w io.Writer, format string, args ...any) {
	fmt.Fprint(w, "\r\n")
	fmt.Fprintf(w, format, args...)
	fmt.Fprint(w, "\r\n")
}
