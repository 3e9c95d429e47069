// Copyright 2025 Florian Zenker (flo@znkr.io)
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

package patch

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHunkLines(t *testing.T) {
	h := &Hunk{
		Start1: 4,
		Start2: 10,
		Ops: []Operation{
			{Equal, "a"},
			{Equal, "b"},
			{Delete, "c"},
			{Insert, "C"},
			{Insert, "D"},
			{Equal, "d"},
		},
	}
	h.RecalculateLengths()

	if h.Length1 != 4 || h.Length2 != 5 {
		t.Errorf("RecalculateLengths() = %d,%d, want 4,5", h.Length1, h.Length2)
	}
	if diff := cmp.Diff([]string{"a", "b", "c", "d"}, h.ContextLines()); diff != "" {
		t.Errorf("ContextLines() result are different [-want,+got]:\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b", "C", "D", "d"}, h.PatchedLines()); diff != "" {
		t.Errorf("PatchedLines() result are different [-want,+got]:\n%s", diff)
	}
	if got, want := h.Range1(), (Interval{4, 8}); got != want {
		t.Errorf("Range1() = %v, want %v", got, want)
	}
	if got, want := h.Range2(), (Interval{10, 15}); got != want {
		t.Errorf("Range2() = %v, want %v", got, want)
	}
	if got, want := h.TrimmedRange1(), (Interval{6, 7}); got != want {
		t.Errorf("TrimmedRange1() = %v, want %v", got, want)
	}
	if got, want := h.TrimmedRange2(), (Interval{12, 14}); got != want {
		t.Errorf("TrimmedRange2() = %v, want %v", got, want)
	}
	if got, want := h.Header(), "@@ -5,4 +11,5 @@"; got != want {
		t.Errorf("Header() = %q, want %q", got, want)
	}
	if got, want := h.AutoHeader(), "@@ -5,4 +_,5 @@"; got != want {
		t.Errorf("AutoHeader() = %q, want %q", got, want)
	}
	if got, want := h.String(), "@@ -5,4 +11,5 @@\n a\n b\n-c\n+C\n+D\n d"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestHunkClone(t *testing.T) {
	h := &Hunk{Ops: []Operation{{Equal, "a"}, {Delete, "b"}}}
	h.RecalculateLengths()
	c := h.Clone()
	c.Ops[0].Text = "changed"
	c.Start1 = 3
	if h.Ops[0].Text != "a" || h.Start1 != 0 {
		t.Errorf("modifying a clone changed the original: %v", h)
	}
}

func TestHunkTrim(t *testing.T) {
	tests := []struct {
		name string
		in   *Hunk
		n    int
		want *Hunk
	}{
		{
			name: "both-ends",
			in: &Hunk{
				Start1: 10, Start2: 20, Length1: 7, Length2: 6,
				Ops: []Operation{{Equal, "a"}, {Equal, "b"}, {Equal, "c"}, {Delete, "d"}, {Equal, "e"}, {Equal, "f"}, {Equal, "g"}},
			},
			n: 1,
			want: &Hunk{
				Start1: 12, Start2: 22, Length1: 3, Length2: 2,
				Ops: []Operation{{Equal, "c"}, {Delete, "d"}, {Equal, "e"}},
			},
		},
		{
			name: "short-context",
			in: &Hunk{
				Start1: 0, Start2: 0, Length1: 2, Length2: 3,
				Ops: []Operation{{Equal, "a"}, {Insert, "b"}, {Equal, "c"}},
			},
			n: 3,
			want: &Hunk{
				Start1: 0, Start2: 0, Length1: 2, Length2: 3,
				Ops: []Operation{{Equal, "a"}, {Insert, "b"}, {Equal, "c"}},
			},
		},
		{
			name: "no-context",
			in: &Hunk{
				Start1: 0, Start2: 0, Length1: 2, Length2: 3,
				Ops: []Operation{{Equal, "a"}, {Insert, "b"}, {Equal, "c"}},
			},
			n: 0,
			want: &Hunk{
				Start1: 1, Start2: 1, Length1: 0, Length2: 1,
				Ops: []Operation{{Insert, "b"}},
			},
		},
		{
			name: "no-changes",
			in: &Hunk{
				Start1: 5, Start2: 5, Length1: 2, Length2: 2,
				Ops: []Operation{{Equal, "a"}, {Equal, "b"}},
			},
			n:    3,
			want: &Hunk{Start1: 5, Start2: 5},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Trim(tt.n)
			if diff := cmp.Diff(tt.want, tt.in); diff != "" {
				t.Errorf("Trim(%d) result are different [-want,+got]:\n%s", tt.n, diff)
			}

			again := tt.in.Clone()
			again.Trim(tt.n)
			if diff := cmp.Diff(tt.in, again); diff != "" {
				t.Errorf("Trim(%d) twice changed the result [-once,+twice]:\n%s", tt.n, diff)
			}
		})
	}
}

func TestHunkSplit(t *testing.T) {
	tests := []struct {
		name string
		in   *Hunk
		n    int
		want []*Hunk
	}{
		{
			name: "split",
			in: &Hunk{
				Start1: 10, Start2: 20,
				Ops: []Operation{
					{Equal, "a"}, {Delete, "b"},
					{Equal, "c"}, {Equal, "d"}, {Equal, "e"}, {Equal, "f"},
					{Insert, "g"}, {Equal, "h"},
				},
			},
			n: 1,
			want: []*Hunk{
				{
					Start1: 10, Start2: 20, Length1: 3, Length2: 2,
					Ops: []Operation{{Equal, "a"}, {Delete, "b"}, {Equal, "c"}},
				},
				{
					Start1: 15, Start2: 24, Length1: 2, Length2: 3,
					Ops: []Operation{{Equal, "f"}, {Insert, "g"}, {Equal, "h"}},
				},
			},
		},
		{
			name: "short-gap",
			in: &Hunk{
				Start1: 0, Start2: 0,
				Ops: []Operation{{Delete, "a"}, {Equal, "b"}, {Equal, "c"}, {Insert, "d"}},
			},
			n: 1,
			want: []*Hunk{
				{
					Start1: 0, Start2: 0, Length1: 3, Length2: 3,
					Ops: []Operation{{Delete, "a"}, {Equal, "b"}, {Equal, "c"}, {Insert, "d"}},
				},
			},
		},
		{
			name: "zero-context",
			in: &Hunk{
				Start1: 0, Start2: 0,
				Ops: []Operation{{Delete, "a"}, {Equal, "b"}, {Insert, "c"}},
			},
			n: 0,
			want: []*Hunk{
				{
					Start1: 0, Start2: 0, Length1: 1, Length2: 0,
					Ops: []Operation{{Delete, "a"}},
				},
				{
					Start1: 2, Start2: 1, Length1: 0, Length2: 1,
					Ops: []Operation{{Insert, "c"}},
				},
			},
		},
		{
			name: "empty",
			in:   &Hunk{},
			n:    3,
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.RecalculateLengths()
			got := tt.in.Split(tt.n)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Split(%d) result are different [-want,+got]:\n%s", tt.n, diff)
			}
		})
	}
}

func TestHunkSplitCombine(t *testing.T) {
	x := numbered("line", 40)
	y := edit(x, map[int]string{1: "one", 30: "thirty"}, map[int][]string{18: {"new"}})
	hunks := Hunks(x, y, Context(40))
	if len(hunks) != 1 {
		t.Fatalf("got %d hunks, want 1", len(hunks))
	}
	want := hunks[0]

	for _, n := range []int{1, 2, 3} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			pieces := want.Split(n)
			if len(pieces) != 3 {
				t.Fatalf("Split(%d) returned %d hunks, want 3", n, len(pieces))
			}
			got := pieces[0].Clone()
			for _, p := range pieces[1:] {
				if err := got.Combine(p, x); err != nil {
					t.Fatalf("Combine(...) failed: %v", err)
				}
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Combine(...) of split hunks is different [-want,+got]:\n%s", diff)
			}
		})
	}
}

func TestHunkUncollate(t *testing.T) {
	h := &Hunk{
		Ops: []Operation{
			{Equal, "a"},
			{Delete, "b"}, {Insert, "B"},
			{Delete, "c"}, {Insert, "C"},
			{Equal, "d"},
			{Insert, "e"},
		},
	}
	h.RecalculateLengths()
	h.Uncollate()
	want := &Hunk{
		Length1: 4,
		Length2: 5,
		Ops: []Operation{
			{Equal, "a"},
			{Delete, "b"}, {Delete, "c"},
			{Insert, "B"}, {Insert, "C"},
			{Equal, "d"},
			{Insert, "e"},
		},
	}
	if diff := cmp.Diff(want, h); diff != "" {
		t.Errorf("Uncollate() result are different [-want,+got]:\n%s", diff)
	}
}

func TestHunkCombine(t *testing.T) {
	lines1 := []string{"a", "b", "c", "d"}
	first := func() *Hunk {
		return &Hunk{Start1: 0, Start2: 0, Length1: 1, Length2: 0, Ops: []Operation{{Delete, "a"}}}
	}

	tests := []struct {
		name    string
		other   *Hunk
		want    *Hunk
		wantErr error
	}{
		{
			name:  "gap",
			other: &Hunk{Start1: 3, Start2: 2, Length1: 0, Length2: 1, Ops: []Operation{{Insert, "x"}}},
			want: &Hunk{
				Start1: 0, Start2: 0, Length1: 3, Length2: 3,
				Ops: []Operation{{Delete, "a"}, {Equal, "b"}, {Equal, "c"}, {Insert, "x"}},
			},
		},
		{
			name:  "adjacent",
			other: &Hunk{Start1: 1, Start2: 0, Length1: 1, Length2: 1, Ops: []Operation{{Equal, "b"}}},
			want: &Hunk{
				Start1: 0, Start2: 0, Length1: 2, Length2: 1,
				Ops: []Operation{{Delete, "a"}, {Equal, "b"}},
			},
		},
		{
			name:    "overlap",
			other:   &Hunk{Start1: 0, Start2: 0, Length1: 1, Length2: 1, Ops: []Operation{{Equal, "a"}}},
			want:    first(),
			wantErr: ErrOverlap,
		},
		{
			name:    "misaligned",
			other:   &Hunk{Start1: 3, Start2: 5, Length1: 0, Length2: 1, Ops: []Operation{{Insert, "x"}}},
			want:    first(),
			wantErr: ErrAlignment,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := first()
			err := h.Combine(tt.other, lines1)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Combine(...) error = %v, want %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, h); diff != "" {
				t.Errorf("Combine(...) result are different [-want,+got]:\n%s", diff)
			}
		})
	}
}

func TestOperationString(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{Operation{Equal, "a"}, " a"},
		{Operation{Insert, "b"}, "+b"},
		{Operation{Delete, ""}, "-"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("%v.String() = %q, want %q", tt.op.Op, got, tt.want)
		}
	}
}
