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

package completion

import (
	"strings"
	"testing"
)

func TestOfferNilFuncReturnsFalse(t *testing.T) {
	line, ok := Offer(nil, Request{Line: []byte("ls "), Cursor: 3})
	if ok || line != nil {
		t.Fatalf("Offer(nil, ...) = %q, %v, want nil, false", line, ok)
	}
}

func TestOfferReturnsCallbackResult(t *testing.T) {
	fn := func(line []byte, cursor int) []byte {
		if string(line) == "ls " && cursor == 3 {
			return []byte("ls -la ")
		}
		return nil
	}
	line, ok := Offer(fn, Request{Line: []byte("ls "), Cursor: 3})
	if !ok || string(line) != "ls -la " {
		t.Fatalf("Offer(fn, ...) = %q, %v, want %q, true", line, ok, "ls -la ")
	}
}

func TestOfferNilResultReturnsFalse(t *testing.T) {
	fn := func(line []byte, cursor int) []byte { return nil }
	line, ok := Offer(fn, Request{Line: []byte("x"), Cursor: 1})
	if ok || line != nil {
		t.Fatalf("Offer with a nil-returning callback = %q, %v, want nil, false", line, ok)
	}
}

func TestDumpOptionsSortsInPlaceAndListsAll(t *testing.T) {
	var buf strings.Builder
	opts := []string{"banana", "apple", "cherry"}
	DumpOptions(&buf, opts, 40, true)

	if opts[0] != "apple" {
		t.Fatalf("DumpOptions did not sort in place: %v", opts)
	}
	out := buf.String()
	for _, opt := range opts {
		if !strings.Contains(out, opt) {
			t.Errorf("output missing option %q:\n%s", opt, out)
		}
	}
}

func TestDumpOptionsEmptyIsNoop(t *testing.T) {
	var buf strings.Builder
	DumpOptions(&buf, nil, 40, true)
	if buf.Len() != 0 {
		t.Errorf("DumpOptions with no options wrote %q, want nothing", buf.String())
	}
}

func TestDumpHintFormats(t *testing.T) {
	var buf strings.Builder
	DumpHint(&buf, "%s: %d matches", "foo", 3)
	if got, want := buf.String(), "\r\nfoo: 3 matches\r\n"; got != want {
		t.Errorf("DumpHint output = %q, want %q", got, want)
	}
}
