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

package match

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"znkr.io/patch/internal/config"
)

var matchers = []struct {
	name string
	m    config.Matcher
}{
	{"default", config.MatcherDefault},
	{"dmp", config.MatcherDiffMatchPatch},
}

func TestLines(t *testing.T) {
	tests := []struct {
		name string
		x, y string
		want []int
	}{
		{
			name: "empty",
			x:    "",
			y:    "",
			want: []int{},
		},
		{
			name: "x-empty",
			x:    "",
			y:    "abc",
			want: []int{},
		},
		{
			name: "y-empty",
			x:    "abc",
			y:    "",
			want: []int{-1, -1, -1},
		},
		{
			name: "identical",
			x:    "abc",
			y:    "abc",
			want: []int{0, 1, 2},
		},
		{
			name: "delete-and-insert",
			x:    "abcd",
			y:    "acde",
			want: []int{0, -1, 1, 2},
		},
		{
			name: "replace",
			x:    "abc",
			y:    "axc",
			want: []int{0, -1, 2},
		},
	}

	for _, m := range matchers {
		for _, tt := range tests {
			t.Run(m.name+"/"+tt.name, func(t *testing.T) {
				got := Lines(chars(tt.x), chars(tt.y), m.m)
				if diff := cmp.Diff(tt.want, got); diff != "" {
					t.Errorf("Lines(%q, %q) result are different [-want,+got]:\n%s", tt.x, tt.y, diff)
				}
			})
		}
	}
}

// Correspondences must be strictly increasing and only map equal lines.
func TestLinesConsistent(t *testing.T) {
	var x, y []string
	for i := range 200 {
		x = append(x, fmt.Sprint(i%17))
		y = append(y, fmt.Sprint(i%13))
	}
	for _, m := range matchers {
		t.Run(m.name, func(t *testing.T) {
			corr := Lines(x, y, m.m)
			if len(corr) != len(x) {
				t.Fatalf("Lines(...) returned %d entries, want %d", len(corr), len(x))
			}
			last, n := -1, 0
			for i, j := range corr {
				if j == unmatched {
					continue
				}
				n++
				if j <= last {
					t.Fatalf("Lines(...)[%d] = %d, not after %d", i, j, last)
				}
				if x[i] != y[j] {
					t.Fatalf("Lines(...)[%d] = %d, but %q != %q", i, j, x[i], y[j])
				}
				last = j
			}
			if n == 0 {
				t.Errorf("Lines(...) didn't match anything")
			}
		})
	}
}

func TestJoin(t *testing.T) {
	if got, want := join([]string{"a", "", "b"}), "a\n\nb\n"; got != want {
		t.Errorf("join(...) = %q, want %q", got, want)
	}
}

func chars(s string) []string { return strings.Split(s, "") }
