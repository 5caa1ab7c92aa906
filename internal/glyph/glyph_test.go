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

package glyph

import "testing"

var decodeTests = []struct {
	Desc  string
	Bytes []byte
	Glyph Glyph
	N     int
	OK    bool
}{
	{"ascii", []byte("h"), 'h', 1, true},
	{"two-byte", []byte{0xC3, 0xA9}, 0xE9, 2, true}, // é
	{"three-byte", []byte{0xE2, 0x82, 0xAC}, 0x20AC, 3, true}, // €
	{"bad lead", []byte{0xFF, 'x'}, 0, 1, false},
	{"stray continuation", []byte{0x80, 'x'}, 0, 1, false},
	{"truncated two-byte", []byte{0xC3}, 0, 1, false},
	{"truncated three-byte", []byte{0xE2, 0x82}, 0, 1, false},
	{"bad continuation", []byte{0xC3, 0x20}, 0, 1, false},
}

func TestDecode(t *testing.T) {
	for _, test := range decodeTests {
		g, n, ok := Decode(test.Bytes)
		if g != test.Glyph || n != test.N || ok != test.OK {
			t.Errorf("%s: Decode(%q) = %v, %d, %v; want %v, %d, %v",
				test.Desc, test.Bytes, g, n, ok, test.Glyph, test.N, test.OK)
		}
	}
}

func TestDecodeAllNeverOverruns(t *testing.T) {
	raw := []byte{0xFF, 0xC3, 0xA9, 0x80, 'x', 0xE2, 0x82}
	glyphs := DecodeAll(nil, raw)
	if len(glyphs) > len(raw) {
		t.Fatalf("DecodeAll produced %d glyphs from %d bytes", len(glyphs), len(raw))
	}
	want := []Glyph{0xE9, 'x'}
	if len(glyphs) != len(want) {
		t.Fatalf("DecodeAll(%q) = %v, want %v", raw, glyphs, want)
	}
	for i := range want {
		if glyphs[i] != want[i] {
			t.Errorf("DecodeAll(%q)[%d] = %v, want %v", raw, i, glyphs[i], want[i])
		}
	}
}

func TestRoundTrip(t *testing.T) {
	glyphs := []Glyph{'h', 'i', 0xE9, 0x20AC}
	raw := Encode(nil, glyphs)
	back := DecodeAll(nil, raw)
	if len(back) != len(glyphs) {
		t.Fatalf("round trip length = %d, want %d", len(back), len(glyphs))
	}
	for i := range glyphs {
		if back[i] != glyphs[i] {
			t.Errorf("round trip[%d] = %v, want %v", i, back[i], glyphs[i])
		}
	}
}

func TestWidthCountsInvalidBytesAsOneCell(t *testing.T) {
	// "é" (2 bytes, 1 glyph) + one stray continuation byte (1 glyph) + "x"
	raw := append([]byte{0xC3, 0xA9}, 0x80, 'x')
	if w := Width(raw); w != 3 {
		t.Errorf("Width(%q) = %d, want 3", raw, w)
	}
}

func TestEncodeOneMatchesEncode(t *testing.T) {
	for _, g := range []Glyph{'a', 0xE9, 0x20AC} {
		got := EncodeOne(nil, g)
		want := Encode(nil, []Glyph{g})
		if string(got) != string(want) {
			t.Errorf("EncodeOne(%v) = %q, want %q", g, got, want)
		}
	}
}
