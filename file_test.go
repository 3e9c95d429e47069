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
	"testing"

	"github.com/google/go-cmp/cmp"
	"znkr.io/patch/internal/config"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		opts []Option
		want *File
	}{
		{
			name: "empty",
			in:   "",
			want: &File{},
		},
		{
			name: "paths",
			in:   "--- a.txt\n+++ b.txt\n@@ -1,3 +1,3 @@\n a\n-b\n+B\n c\n",
			want: &File{
				BasePath:    "a.txt",
				PatchedPath: "b.txt",
				Hunks: []*Hunk{
					{
						Start1: 0, Start2: 0, Length1: 3, Length2: 3,
						Ops: []Operation{{Equal, "a"}, {Delete, "b"}, {Insert, "B"}, {Equal, "c"}},
					},
				},
			},
		},
		{
			name: "crlf",
			in:   "@@ -1,2 +1,1 @@\r\n a\r\n-b\r\n",
			want: &File{
				Hunks: []*Hunk{
					{
						Start1: 0, Start2: 0, Length1: 2, Length2: 1,
						Ops: []Operation{{Equal, "a"}, {Delete, "b"}},
					},
				},
			},
		},
		{
			name: "auto-header",
			in:   "@@ -1,1 +_,2 @@\n a\n+x\n\n@@ -5,1 +_,1 @@\n-e\n+E\n",
			want: &File{
				Hunks: []*Hunk{
					{
						Start1: 0, Start2: 0, Length1: 1, Length2: 2,
						Ops: []Operation{{Equal, "a"}, {Insert, "x"}},
					},
					{
						Start1: 4, Start2: 5, Length1: 1, Length2: 1,
						Ops: []Operation{{Delete, "e"}, {Insert, "E"}},
					},
				},
			},
		},
		{
			name: "empty-context-line",
			in:   "@@ -1,2 +1,1 @@\n \n-b\n",
			want: &File{
				Hunks: []*Hunk{
					{
						Start1: 0, Start2: 0, Length1: 2, Length2: 1,
						Ops: []Operation{{Equal, ""}, {Delete, "b"}},
					},
				},
			},
		},
		{
			name: "no-verify-header",
			in:   "@@ -1,1 +1,2 @@\n a\n+x\n@@ -5,1 +5,1 @@\n-e\n+E\n",
			opts: []Option{NoVerify()},
			want: &File{
				Hunks: []*Hunk{
					{
						Start1: 0, Start2: 0, Length1: 1, Length2: 2,
						Ops: []Operation{{Equal, "a"}, {Insert, "x"}},
					},
					{
						Start1: 4, Start2: 4, Length1: 1, Length2: 1,
						Ops: []Operation{{Delete, "e"}, {Insert, "E"}},
					},
				},
			},
		},
		{
			name: "no-verify-length",
			in:   "@@ -1,5 +1,5 @@\n a\n",
			opts: []Option{NoVerify()},
			want: &File{
				Hunks: []*Hunk{
					{
						Start1: 0, Start2: 0, Length1: 1, Length2: 1,
						Ops: []Operation{{Equal, "a"}},
					},
				},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in, tt.opts...)
			if err != nil {
				t.Fatalf("Parse(...) failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(...) result are different [-want,+got]:\n%s", diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantLine int
		wantErr  error
	}{
		{
			name:     "garbage",
			in:       "hello\n@@ -1,1 +1,1 @@\n a\n",
			wantLine: 1,
			wantErr:  ErrMalformedLine,
		},
		{
			name:     "patched-path-only",
			in:       "+++ b.txt\n@@ -1,1 +1,1 @@\n a\n",
			wantLine: 1,
			wantErr:  ErrMalformedLine,
		},
		{
			name:     "bad-header",
			in:       "@@ -x,1 +1,1 @@\n a\n",
			wantLine: 1,
			wantErr:  ErrMalformedLine,
		},
		{
			name:     "header-out-of-range",
			in:       "@@ -99999999999999999999,1 +1,1 @@\n a\n",
			wantLine: 1,
			wantErr:  ErrMalformedLine,
		},
		{
			name:     "auto-header-out-of-range",
			in:       "@@ -1,1 +_,99999999999999999999 @@\n a\n",
			wantLine: 1,
			wantErr:  ErrMalformedLine,
		},
		{
			name:     "bad-prefix",
			in:       "@@ -1,1 +1,1 @@\n a\n*b\n",
			wantLine: 3,
			wantErr:  ErrMalformedLine,
		},
		{
			name:     "length",
			in:       "@@ -1,1 +1,1 @@\n a\n@@ -5,2 +5,2 @@\n e\n",
			wantLine: 3,
			wantErr:  ErrLengthMismatch,
		},
		{
			name:     "target-start",
			in:       "@@ -1,1 +1,2 @@\n a\n+x\n@@ -5,1 +5,1 @@\n-e\n+E\n",
			wantLine: 4,
			wantErr:  ErrHeaderMismatch,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Parse(...) error = %v, want %v", err, tt.wantErr)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("Parse(...) error = %T, want *ParseError", err)
			}
			if perr.Line != tt.wantLine {
				t.Errorf("Parse(...) error on line %d, want %d", perr.Line, tt.wantLine)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	f := &File{
		BasePath:    "a.txt",
		PatchedPath: "b.txt",
		Hunks: []*Hunk{
			{
				Start1: 0, Start2: 0, Length1: 1, Length2: 2,
				Ops: []Operation{{Equal, "a"}, {Insert, "x"}},
			},
			{
				Start1: 4, Start2: 5, Length1: 1, Length2: 1,
				Ops: []Operation{{Delete, "e"}, {Insert, "E"}},
			},
		},
	}

	colors := func(cfg *config.Config) config.Flag {
		cfg.Colors = config.ColorConfig{HunkHeader: "<h>", Insert: "<i>"}
		return config.Colors
	}

	tests := []struct {
		name string
		file *File
		opts []Option
		want string
	}{
		{
			name: "default",
			file: f,
			want: "--- a.txt\n+++ b.txt\n@@ -1,1 +1,2 @@\n a\n+x\n@@ -5,1 +6,1 @@\n-e\n+E\n",
		},
		{
			name: "auto-header",
			file: f,
			opts: []Option{AutoHeader()},
			want: "--- a.txt\n+++ b.txt\n@@ -1,1 +_,2 @@\n a\n+x\n@@ -5,1 +_,1 @@\n-e\n+E\n",
		},
		{
			name: "no-paths",
			file: &File{Hunks: f.Hunks[1:]},
			want: "@@ -5,1 +6,1 @@\n-e\n+E\n",
		},
		{
			name: "colors",
			file: &File{Hunks: f.Hunks[1:]},
			opts: []Option{colors},
			want: "<h>@@ -5,1 +6,1 @@\033[0m\n-e\n<i>+E\033[0m\n",
		},
		{
			name: "empty",
			file: &File{},
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.file.Format(tt.opts...)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Format(...) result are different [-want,+got]:\n%s", diff)
			}
		})
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	x := numbered("line", 40)
	y := edit(x, map[int]string{3: "three", 20: "twenty"}, map[int][]string{10: {"new", "lines"}}, 30, 31)

	f := Diff(x, y)
	f.BasePath, f.PatchedPath = "x", "y"

	for _, opts := range [][]Option{nil, {AutoHeader()}} {
		got, err := Parse(f.Format(opts...))
		if err != nil {
			t.Fatalf("Parse(...) failed: %v", err)
		}
		if diff := cmp.Diff(f, got); diff != "" {
			t.Errorf("Parse(Format(...)) result are different [-want,+got]:\n%s", diff)
		}
	}
}

func TestFileString(t *testing.T) {
	f := &File{Hunks: []*Hunk{{Length1: 1, Ops: []Operation{{Delete, "a"}}}}}
	if got, want := f.String(), "@@ -1,1 +1,0 @@\n-a\n"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if f.IsEmpty() {
		t.Errorf("IsEmpty() = true, want false")
	}
	if !(&File{}).IsEmpty() {
		t.Errorf("IsEmpty() = false for empty file, want true")
	}
}
