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

// Package keymap holds the static byte-sequence to editing-command table
// and the dispatcher's sequence classifier. It mirrors the C reference's
// rl_commands[] table and the rl_insert_seq/rl_exec_seq state machine
// that walks it: bytes accumulate until they unambiguously match a
// complete command, fail to match anything (and are discarded), or turn
// out to be ordinary text to insert.
package keymap

import (
	"bytes"

	"github.com/Holixus/readline/internal/glyph"
)

// Command identifies one editing operation the session driver dispatches
// to the buffer, history, or completion bridge.
type Command int

const (
	CmdNone Command = iota
	CmdAcceptLine
	CmdCursorLeft
	CmdCursorRight
	CmdCursorHome
	CmdCursorEnd
	CmdWordLeft
	CmdWordRight
	CmdBackspace
	CmdDeleteForward
	CmdDeleteWordBackward
	CmdDeleteWordForward
	CmdDeleteToHome
	CmdDeleteToEnd
	CmdHistoryBack
	CmdHistoryForward
	CmdHistoryBegin
	CmdHistoryEnd
	CmdComplete
)

// MaxSequence bounds how many pending bytes the dispatcher will
// accumulate while waiting for an escape sequence to complete, matching
// the reference's fixed escape-sequence scratch buffer. A sequence that
// grows past this without resolving is discarded outright.
const MaxSequence = 12

// entry binds one literal byte sequence to a Command.
type entry struct {
	seq []byte
	cmd Command
}

// Table is the static sequence-to-command binding set, copied entry for
// entry from the key binding table (spec.md §6 / readline.c's
// rl_commands[]). A control byte or escape sequence with no entry here
// is discarded by Classify rather than treated as an operation; in
// particular ^C, ^L, and ^Z are deliberately unbound (process-level
// signal handling other than terminal resize is out of scope).
var Table = []entry{
	{[]byte{0x01}, CmdCursorHome},         // ^A
	{[]byte{0x05}, CmdCursorEnd},          // ^E
	{[]byte{0x02}, CmdCursorLeft},         // ^B
	{[]byte{0x06}, CmdCursorRight},        // ^F
	{[]byte{0x08}, CmdBackspace},          // ^H
	{[]byte{0x7f}, CmdBackspace},          // DEL
	{[]byte{0x04}, CmdDeleteForward},      // ^D
	{[]byte{0x17}, CmdDeleteWordBackward}, // ^W
	{[]byte{0x0b}, CmdDeleteToEnd},        // ^K
	{[]byte{0x15}, CmdDeleteToHome},       // ^U
	{[]byte{0x09}, CmdComplete},           // Tab
	{[]byte{0x10}, CmdHistoryBack},        // ^P
	{[]byte{0x0e}, CmdHistoryForward},     // ^N
	{[]byte{0x0a}, CmdAcceptLine},         // LF
	{[]byte{0x0d}, CmdAcceptLine},         // CR

	{[]byte{0x1b, '[', '1', '~'}, CmdCursorHome},
	{[]byte{0x1b, '[', 'H'}, CmdCursorHome},
	{[]byte{0x1b, 'O', 'H'}, CmdCursorHome},
	{[]byte{0x1b, 'H'}, CmdCursorHome},

	{[]byte{0x1b, '[', '4', '~'}, CmdCursorEnd},
	{[]byte{0x1b, '[', 'K'}, CmdCursorEnd},
	{[]byte{0x1b, 'O', 'F'}, CmdCursorEnd},

	{[]byte{0x1b, '[', 'D'}, CmdCursorLeft},
	{[]byte{0x1b, 'D'}, CmdCursorLeft},

	{[]byte{0x1b, '[', 'C'}, CmdCursorRight},
	{[]byte{0x1b, 'C'}, CmdCursorRight},

	{[]byte{0x1b, 'b'}, CmdWordLeft},
	{[]byte{0x1b, '[', '1', ';', '5', 'D'}, CmdWordLeft},
	{[]byte{0x1b, 'O', 'D'}, CmdWordLeft},

	{[]byte{0x1b, 'f'}, CmdWordRight},
	{[]byte{0x1b, '[', '1', ';', '5', 'C'}, CmdWordRight},
	{[]byte{0x1b, 'O', 'C'}, CmdWordRight},

	{[]byte{0x1b, '[', '3', '~'}, CmdDeleteForward},

	{[]byte{0x1b, 'd'}, CmdDeleteWordForward},

	{[]byte{0x1b, 'K'}, CmdDeleteToEnd},

	{[]byte{0x1b, '[', 'A'}, CmdHistoryBack},
	{[]byte{0x1b, 'A'}, CmdHistoryBack},

	{[]byte{0x1b, '[', 'B'}, CmdHistoryForward},
	{[]byte{0x1b, 'B'}, CmdHistoryForward},

	{[]byte{0x1b, '<'}, CmdHistoryBegin},
	{[]byte{0x1b, '>'}, CmdHistoryEnd},
}

// Status classifies a pending byte sequence.
type Status int

const (
	// Incomplete means more bytes are needed before a verdict can be
	// reached; the caller should read another byte and classify again.
	Incomplete Status = iota
	// Matched means pending is a complete, recognized command sequence.
	Matched
	// Text means pending (Consumed bytes of it) decodes to literal text
	// to insert into the line rather than a command.
	Text
	// Discard means pending is a well-formed but unrecognized escape
	// sequence (or a stray control byte) that should be dropped whole.
	Discard
)

// Result is the outcome of classifying a pending byte sequence.
type Result struct {
	Status   Status
	Cmd      Command
	Consumed int // bytes belonging to this verdict; 0 when Incomplete
}

// Classify inspects pending (the bytes read so far for one keystroke)
// and decides whether it is a complete command, needs more bytes,
// decodes as literal text, or should be discarded.
func Classify(pending []byte) Result {
	if len(pending) == 0 {
		return Result{Status: Incomplete}
	}

	if pending[0] == 0x1b {
		return classifyEscape(pending)
	}

	if cmd, ok := exactMatch(pending); ok {
		return Result{Status: Matched, Cmd: cmd, Consumed: len(pending)}
	}
	if hasPrefixMatch(pending) {
		return Result{Status: Incomplete}
	}

	lead := pending[0]
	if lead < 0x20 || lead == 0x7f {
		// An unrecognized control byte; nothing sensible to insert.
		return Result{Status: Discard, Consumed: 1}
	}

	// A multi-byte lead followed only by continuation bytes, with some
	// still missing, is the prefix of one glyph: wait for the rest.
	need := 1
	switch {
	case lead&0xE0 == 0xC0:
		need = 2
	case lead&0xF0 == 0xE0:
		need = 3
	}
	if len(pending) < need {
		prefix := true
		for _, c := range pending[1:] {
			if c&0xC0 != 0x80 {
				prefix = false
			}
		}
		if prefix {
			return Result{Status: Incomplete}
		}
	}

	_, n, ok := glyph.Decode(pending)
	if !ok {
		return Result{Status: Discard, Consumed: n}
	}
	return Result{Status: Text, Consumed: n}
}

func classifyEscape(pending []byte) Result {
	if len(pending) == 1 {
		return Result{Status: Incomplete}
	}
	switch pending[1] {
	case '[':
		return classifyCSI(pending)
	case 'O':
		return classifySS3(pending)
	default:
		if cmd, ok := exactMatch(pending[:2]); ok {
			return Result{Status: Matched, Cmd: cmd, Consumed: 2}
		}
		return Result{Status: Discard, Consumed: 2}
	}
}

// classifyCSI walks a CSI sequence (ESC '[' parameter-bytes
// intermediate-bytes final-byte) per ECMA-48: parameter bytes are
// 0x30-0x3F, intermediates 0x20-0x2F, and the sequence ends at the first
// byte in 0x40-0x7E.
func classifyCSI(pending []byte) Result {
	i := 2
	for i < len(pending) && pending[i] >= 0x30 && pending[i] <= 0x3F {
		i++
	}
	for i < len(pending) && pending[i] >= 0x20 && pending[i] <= 0x2F {
		i++
	}
	if i >= len(pending) {
		if i-2 >= MaxSequence {
			return Result{Status: Discard, Consumed: i}
		}
		return Result{Status: Incomplete}
	}
	final := pending[i]
	seq := pending[:i+1]
	if final < 0x40 || final > 0x7E {
		return Result{Status: Discard, Consumed: len(seq)}
	}
	if cmd, ok := exactMatch(seq); ok {
		return Result{Status: Matched, Cmd: cmd, Consumed: len(seq)}
	}
	return Result{Status: Discard, Consumed: len(seq)}
}

func classifySS3(pending []byte) Result {
	if len(pending) < 3 {
		return Result{Status: Incomplete}
	}
	seq := pending[:3]
	if cmd, ok := exactMatch(seq); ok {
		return Result{Status: Matched, Cmd: cmd, Consumed: 3}
	}
	return Result{Status: Discard, Consumed: 3}
}

func exactMatch(seq []byte) (Command, bool) {
	for _, e := range Table {
		if bytes.Equal(e.seq, seq) {
			return e.cmd, true
		}
	}
	return 0, false
}

func hasPrefixMatch(pending []byte) bool {
	for _, e := range Table {
		if len(e.seq) > len(pending) && bytes.Equal(e.seq[:len(pending)], pending) {
			return true
		}
	}
	return false
}
