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

package window

import "testing"

func TestRedrawRows(t *testing.T) {
	tests := []struct {
		Desc                        string
		PromptWidth, Length, OldCols int
		Want                         int
	}{
		{"fits in one row", 2, 5, 80, 0},
		{"exactly one wrap", 2, 78, 80, 1},
		{"zero columns is degenerate", 2, 78, 0, 0},
	}
	for _, test := range tests {
		if got := RedrawRows(test.PromptWidth, test.Length, test.OldCols); got != test.Want {
			t.Errorf("%s: RedrawRows(%d, %d, %d) = %d, want %d",
				test.Desc, test.PromptWidth, test.Length, test.OldCols, got, test.Want)
		}
	}
}

func TestResizeCursorAdjustmentNoPriorWidth(t *testing.T) {
	if got := ResizeCursorAdjustment(100, 0, 2, 10); got != 0 {
		t.Errorf("ResizeCursorAdjustment with oldCols=0 = %d, want 0", got)
	}
}

func TestResizeCursorAdjustmentWidening(t *testing.T) {
	// One wrapped row under 80 columns; widening to 100 should still
	// report a correction proportional to how many rows existed before.
	got := ResizeCursorAdjustment(100, 80, 2, 78)
	want := (1 + 100 - 80) * 1
	if got != want {
		t.Errorf("ResizeCursorAdjustment(100, 80, 2, 78) = %d, want %d", got, want)
	}
}

func TestTrackerPollWithoutSignalIsUnchanged(t *testing.T) {
	tr := &Tracker{}
	tr.cols.Store(80)
	tr.rows.Store(24)
	if _, _, changed := tr.Poll(); changed {
		t.Error("Poll reported a change with no pending SIGWINCH")
	}
}
