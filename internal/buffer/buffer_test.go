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

package buffer

import (
	"testing"

	"github.com/Holixus/readline/internal/glyph"
)

// fakeSink records everything written and every cursor move, so tests can
// assert on the screen effects of a mutation without a real terminal.
type fakeSink struct {
	written []byte
	moves   []int // deltas only; position is recomputed by the buffer itself
}

func (f *fakeSink) Out(p []byte)            { f.written = append(f.written, p...) }
func (f *fakeSink) MoveBy(pos, delta int)   { f.moves = append(f.moves, delta) }

func newTestBuffer(maxLen int) (*Buffer, *fakeSink) {
	sink := &fakeSink{}
	return New(maxLen, sink), sink
}

func insertString(b *Buffer, s string) int {
	return b.Insert(glyph.DecodeAll(nil, []byte(s)))
}

func TestInsertAppendsAndMovesCursor(t *testing.T) {
	b, sink := newTestBuffer(32)
	n := insertString(b, "hi")
	if n != 2 {
		t.Fatalf("Insert returned %d, want 2", n)
	}
	if b.Cursor() != 2 || b.Len() != 2 {
		t.Fatalf("cursor=%d len=%d, want 2, 2", b.Cursor(), b.Len())
	}
	if string(sink.written) != "hi" {
		t.Errorf("sink wrote %q, want %q", sink.written, "hi")
	}
}

func TestInsertMiddleRedrawsTail(t *testing.T) {
	b, sink := newTestBuffer(32)
	insertString(b, "ac")
	b.CursorLeft()
	sink.written = nil
	insertString(b, "b")
	if got := string(b.Bytes()); got != "abc" {
		t.Fatalf("Bytes() = %q, want %q", got, "abc")
	}
	if string(sink.written) != "bc" {
		t.Errorf("tail redraw wrote %q, want %q", sink.written, "bc")
	}
}

func TestInsertRejectsOverflow(t *testing.T) {
	b, _ := newTestBuffer(3) // usable capacity = 2 glyphs
	n := insertString(b, "abcdef")
	if n != 2 {
		t.Fatalf("Insert returned %d, want 2 (capped by maxLen)", n)
	}
	if b.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", b.Len())
	}
}

func TestBackspaceAtHomeIsNoop(t *testing.T) {
	b, sink := newTestBuffer(32)
	insertString(b, "x")
	b.CursorHome()
	sink.moves = nil
	if n := b.Backspace(); n != 0 {
		t.Errorf("Backspace at home returned %d, want 0", n)
	}
	if len(sink.moves) != 0 {
		t.Errorf("Backspace at home issued %d cursor moves, want 0", len(sink.moves))
	}
}

func TestBackspaceRemovesPrecedingGlyph(t *testing.T) {
	b, sink := newTestBuffer(32)
	insertString(b, "abc")
	sink.written = nil
	b.Backspace()
	if got := string(b.Bytes()); got != "ab" {
		t.Fatalf("Bytes() = %q, want %q", got, "ab")
	}
	if b.Cursor() != 2 {
		t.Fatalf("Cursor() = %d, want 2", b.Cursor())
	}
	// Tail after the deleted glyph was empty, so only the erase-space remains.
	if string(sink.written) != " " {
		t.Errorf("sink wrote %q, want a single erase space", sink.written)
	}
}

func TestDeleteWordBackward(t *testing.T) {
	b, _ := newTestBuffer(32)
	insertString(b, "foo bar")
	b.DeleteWordBackward()
	if got := string(b.Bytes()); got != "foo " {
		t.Fatalf("Bytes() = %q, want %q", got, "foo ")
	}
}

func TestDeleteWordForward(t *testing.T) {
	b, _ := newTestBuffer(32)
	insertString(b, "foo bar")
	b.CursorHome()
	b.DeleteWordForward()
	if got := string(b.Bytes()); got != " bar" {
		t.Fatalf("Bytes() = %q, want %q", got, " bar")
	}
}

func TestDeleteToHomeAndEnd(t *testing.T) {
	b, _ := newTestBuffer(32)
	insertString(b, "hello")
	b.CursorLeft()
	b.CursorLeft()
	b.DeleteToHome()
	if got := string(b.Bytes()); got != "lo" {
		t.Fatalf("after DeleteToHome, Bytes() = %q, want %q", got, "lo")
	}
	insertString(b, "XY")
	b.CursorHome()
	b.DeleteToEnd()
	if got := string(b.Bytes()); got != "" {
		t.Fatalf("after DeleteToEnd, Bytes() = %q, want empty", got)
	}
}

func TestWordLeftRightNavigation(t *testing.T) {
	b, _ := newTestBuffer(32)
	insertString(b, "foo bar baz")
	b.CursorHome()
	b.WordRight()
	if b.Cursor() != 4 {
		t.Fatalf("Cursor() after WordRight = %d, want 4", b.Cursor())
	}
	b.WordRight()
	if b.Cursor() != 8 {
		t.Fatalf("Cursor() after second WordRight = %d, want 8", b.Cursor())
	}
	b.WordLeft()
	if b.Cursor() != 4 {
		t.Fatalf("Cursor() after WordLeft = %d, want 4", b.Cursor())
	}
}

func TestSetTextReplacesLineAndMovesCursorToEnd(t *testing.T) {
	b, sink := newTestBuffer(32)
	insertString(b, "old")
	sink.written = nil
	b.SetText([]byte("new text"))
	if got := string(b.Bytes()); got != "new text" {
		t.Fatalf("Bytes() = %q, want %q", got, "new text")
	}
	if b.Cursor() != len("new text") {
		t.Fatalf("Cursor() = %d, want %d", b.Cursor(), len("new text"))
	}
	if string(sink.written) != "new text" {
		t.Errorf("sink wrote %q, want %q", sink.written, "new text")
	}
}

func TestResetClearsLineWithoutTouchingScreen(t *testing.T) {
	b, sink := newTestBuffer(32)
	insertString(b, "abc")
	sink.written = nil
	sink.moves = nil
	b.Reset()
	if b.Len() != 0 || b.Cursor() != 0 {
		t.Fatalf("after Reset: len=%d cursor=%d, want 0, 0", b.Len(), b.Cursor())
	}
	if len(sink.written) != 0 || len(sink.moves) != 0 {
		t.Errorf("Reset touched the sink: written=%q moves=%v", sink.written, sink.moves)
	}
}

func TestCursorHomeAndEndAreNoopAtTheirTargets(t *testing.T) {
	b, sink := newTestBuffer(32)
	b.CursorHome()
	b.CursorEnd()
	if len(sink.moves) != 0 {
		t.Errorf("CursorHome/CursorEnd on an empty line issued moves: %v", sink.moves)
	}
}
