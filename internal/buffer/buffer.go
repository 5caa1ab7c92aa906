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

// Package buffer implements the line editor's sole authoritative edit
// representation: a glyph slice plus a cursor, and every primitive
// mutation the command table dispatches to. Every mutation that changes
// what is on screen also redraws the affected tail through a Sink, so
// the buffer and the screen never drift apart. This mirrors the C
// reference's rlc_* family, which always pairs a buffer edit with an
// rl_update_tail / rl_write_part call.
package buffer

import (
	"bytes"

	"github.com/Holixus/readline/internal/glyph"
)

// Sink is the screen-facing half of a Buffer: Out writes raw encoded
// bytes (which the terminal echoes as it receives them), and MoveBy
// repositions the cursor by delta glyph cells given that it is currently
// logically at glyph offset pos in the line (not counting the prompt).
// internal/termctl.Cursor implements this interface.
type Sink interface {
	Out(p []byte)
	MoveBy(pos, delta int)
}

// Buffer is an editable line of glyphs with a cursor, bounded to a
// maximum length and kept in sync with a terminal through a Sink.
type Buffer struct {
	glyphs []glyph.Glyph
	cursor int
	maxLen int
	sink   Sink
}

// New returns an empty Buffer accepting up to maxLen-1 glyphs (mirroring
// the C reference's MAX_LINE_LEN, including its reserved sentinel slot;
// Insert rejects anything that would reach maxLen), echoing through
// sink.
func New(maxLen int, sink Sink) *Buffer {
	if maxLen < 1 {
		maxLen = 1
	}
	return &Buffer{glyphs: make([]glyph.Glyph, 0, maxLen), maxLen: maxLen, sink: sink}
}

// Len reports the number of glyphs currently in the line.
func (b *Buffer) Len() int { return len(b.glyphs) }

// Cursor reports the cursor's glyph offset.
func (b *Buffer) Cursor() int { return b.cursor }

// Glyphs returns the buffer's contents. The caller must not mutate it.
func (b *Buffer) Glyphs() []glyph.Glyph { return b.glyphs }

// Bytes re-encodes the buffer's contents as UTF-8.
func (b *Buffer) Bytes() []byte { return glyph.Encode(nil, b.glyphs) }

// Reset empties the line and moves the cursor home without touching the
// screen; used when starting a fresh Readline call.
func (b *Buffer) Reset() {
	b.glyphs = b.glyphs[:0]
	b.cursor = 0
}

// writeTail re-echoes the glyphs from the cursor to the end of the line,
// pads with afterspace trailing spaces to erase screen overrun left by a
// shrinking edit, then retreats the cursor back to its logical position,
// matching rl_update_tail in the C reference.
func (b *Buffer) writeTail(afterspace int) {
	raw := glyph.Encode(nil, b.glyphs[b.cursor:])
	for i := 0; i < afterspace; i++ {
		raw = append(raw, ' ')
	}
	b.sink.Out(raw)

	back := afterspace + len(b.glyphs) - b.cursor
	if back > 0 {
		b.sink.MoveBy(len(b.glyphs)+afterspace, -back)
	}
}

// SetText replaces the entire line with raw, decoded through the glyph
// codec, redrawing from column zero and padding with spaces if the
// replacement is shorter than what it overwrites (e.g. recalling a
// shorter history entry), then leaves the cursor at the end.
func (b *Buffer) SetText(raw []byte) {
	old := len(b.glyphs)
	if b.cursor > 0 {
		b.sink.MoveBy(b.cursor, -b.cursor)
	}

	b.glyphs = glyph.DecodeAll(b.glyphs[:0], raw)
	if len(b.glyphs) > b.maxLen-1 {
		b.glyphs = b.glyphs[:b.maxLen-1]
	}

	out := glyph.Encode(nil, b.glyphs)
	pad := old - len(b.glyphs)
	if pad > 0 {
		out = append(out, bytes.Repeat([]byte{' '}, pad)...)
	}
	b.sink.Out(out)
	if pad > 0 {
		b.sink.MoveBy(len(b.glyphs)+pad, -pad)
	}
	b.cursor = len(b.glyphs)
}

// RedrawFromHome reprints the whole line starting at column zero,
// leaving the logical cursor position unchanged. Use this after
// something has overwritten the screen out from under the buffer (a
// resize, a completion menu printed below the line) and the terminal's
// cursor is known to already be where the line's first glyph goes
// (just after a freshly printed prompt).
func (b *Buffer) RedrawFromHome() {
	b.sink.Out(glyph.Encode(nil, b.glyphs))
	if back := len(b.glyphs) - b.cursor; back > 0 {
		b.sink.MoveBy(len(b.glyphs), -back)
	}
}

// CursorHome moves the cursor to the start of the line.
func (b *Buffer) CursorHome() {
	if b.cursor == 0 {
		return
	}
	b.sink.MoveBy(b.cursor, -b.cursor)
	b.cursor = 0
}

// CursorEnd moves the cursor to the end of the line.
func (b *Buffer) CursorEnd() {
	if b.cursor == len(b.glyphs) {
		return
	}
	b.sink.MoveBy(b.cursor, len(b.glyphs)-b.cursor)
	b.cursor = len(b.glyphs)
}

// CursorLeft moves the cursor left by one glyph, if possible.
func (b *Buffer) CursorLeft() {
	if b.cursor == 0 {
		return
	}
	b.sink.MoveBy(b.cursor, -1)
	b.cursor--
}

// CursorRight moves the cursor right by one glyph, if possible.
func (b *Buffer) CursorRight() {
	if b.cursor == len(b.glyphs) {
		return
	}
	b.sink.MoveBy(b.cursor, 1)
	b.cursor++
}

func isSpace(g glyph.Glyph) bool {
	return g == ' '
}

// wordLeftOffset finds the glyph offset a "move word left" lands on from
// pos, skipping any run of spaces immediately to the left and then the
// run of non-spaces behind it, matching the reference's word-boundary
// rule (space-delimited, not punctuation-aware; tabs are ordinary text).
func wordLeftOffset(g []glyph.Glyph, pos int) int {
	i := pos
	for i > 0 && isSpace(g[i-1]) {
		i--
	}
	for i > 0 && !isSpace(g[i-1]) {
		i--
	}
	return i
}

// wordRightOffset is the mirror of wordLeftOffset.
func wordRightOffset(g []glyph.Glyph, pos int) int {
	i := pos
	n := len(g)
	for i < n && isSpace(g[i]) {
		i++
	}
	for i < n && !isSpace(g[i]) {
		i++
	}
	return i
}

// WordLeft moves the cursor to the start of the previous word.
func (b *Buffer) WordLeft() {
	target := wordLeftOffset(b.glyphs, b.cursor)
	if target == b.cursor {
		return
	}
	b.sink.MoveBy(b.cursor, target-b.cursor)
	b.cursor = target
}

// WordRight moves the cursor to the start of the next word: past the
// rest of the current word, then past the spaces that follow it.
func (b *Buffer) WordRight() {
	target := b.cursor
	for target < len(b.glyphs) && !isSpace(b.glyphs[target]) {
		target++
	}
	for target < len(b.glyphs) && isSpace(b.glyphs[target]) {
		target++
	}
	if target == b.cursor {
		return
	}
	b.sink.MoveBy(b.cursor, target-b.cursor)
	b.cursor = target
}

// Insert splices seq into the line at the cursor, rejecting glyphs that
// would overflow maxLen, and redraws the tail. It returns the number of
// glyphs actually inserted.
func (b *Buffer) Insert(seq []glyph.Glyph) int {
	room := b.maxLen - 1 - len(b.glyphs)
	if room <= 0 {
		return 0
	}
	if len(seq) > room {
		seq = seq[:room]
	}
	b.glyphs = append(b.glyphs, seq...)
	copy(b.glyphs[b.cursor+len(seq):], b.glyphs[b.cursor:len(b.glyphs)-len(seq)])
	copy(b.glyphs[b.cursor:], seq)

	b.sink.Out(glyph.Encode(nil, seq))
	b.cursor += len(seq)
	b.writeTail(0)
	return len(seq)
}

// DeleteN removes n glyphs starting at the cursor (delete-forward,
// "DEL" in line-editing terms) and redraws the tail, padding the
// vacated columns with spaces.
func (b *Buffer) DeleteN(n int) int {
	if n <= 0 || b.cursor >= len(b.glyphs) {
		return 0
	}
	if n > len(b.glyphs)-b.cursor {
		n = len(b.glyphs) - b.cursor
	}
	copy(b.glyphs[b.cursor:], b.glyphs[b.cursor+n:])
	b.glyphs = b.glyphs[:len(b.glyphs)-n]
	b.writeTail(n)
	return n
}

// Backspace removes the glyph immediately before the cursor, if any.
func (b *Buffer) Backspace() int {
	if b.cursor == 0 {
		return 0
	}
	b.sink.MoveBy(b.cursor, -1)
	b.cursor--
	return b.DeleteN(1)
}

// DeleteWordBackward removes from the start of the previous word up to
// the cursor.
func (b *Buffer) DeleteWordBackward() int {
	target := wordLeftOffset(b.glyphs, b.cursor)
	if target == b.cursor {
		return 0
	}
	n := b.cursor - target
	b.sink.MoveBy(b.cursor, -n)
	b.cursor = target
	return b.DeleteN(n)
}

// DeleteWordForward removes from the cursor to the end of the next word
// (any spaces at the cursor, then the run of non-spaces after them); the
// spaces that follow that word are kept.
func (b *Buffer) DeleteWordForward() int {
	target := wordRightOffset(b.glyphs, b.cursor)
	return b.DeleteN(target - b.cursor)
}

// DeleteToHome removes from the start of the line up to the cursor.
func (b *Buffer) DeleteToHome() int {
	n := b.cursor
	if n == 0 {
		return 0
	}
	b.sink.MoveBy(b.cursor, -n)
	b.cursor = 0
	return b.DeleteN(n)
}

// DeleteToEnd removes from the cursor to the end of the line.
func (b *Buffer) DeleteToEnd() int {
	return b.DeleteN(len(b.glyphs) - b.cursor)
}
