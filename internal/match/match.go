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

// Package match finds corresponding lines in two line sequences.
//
// A correspondence is a slice with one entry per line in x. Each entry is either the index of the
// matching line in y or -1. Matched indices are strictly increasing.
package match

import (
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
	"znkr.io/diff"
	"znkr.io/patch/internal/config"
)

const unmatched = -1

// Lines returns the correspondence between x and y using the selected matcher.
func Lines(x, y []string, m config.Matcher) []int {
	switch m {
	case config.MatcherDefault:
		return znkr(x, y)
	case config.MatcherDiffMatchPatch:
		return dmp(x, y)
	default:
		panic("never reached")
	}
}

func znkr(x, y []string) []int {
	corr := make([]int, len(x))
	s, t := 0, 0
	for _, e := range diff.Edits(x, y) {
		switch e.Op {
		case diff.Match:
			corr[s] = t
			s++
			t++
		case diff.Delete:
			corr[s] = unmatched
			s++
		case diff.Insert:
			t++
		default:
			panic("never reached")
		}
	}
	return corr
}

func dmp(x, y []string) []int {
	d := diffmatchpatch.New()
	// Line mode maps every distinct line to a single rune.
	rx, ry, _ := d.DiffLinesToRunes(join(x), join(y))

	corr := make([]int, len(x))
	s, t := 0, 0
	for _, e := range d.DiffMainRunes(rx, ry, false) {
		n := utf8.RuneCountInString(e.Text)
		switch e.Type {
		case diffmatchpatch.DiffEqual:
			for range n {
				corr[s] = t
				s++
				t++
			}
		case diffmatchpatch.DiffDelete:
			for range n {
				corr[s] = unmatched
				s++
			}
		case diffmatchpatch.DiffInsert:
			t += n
		default:
			panic("never reached")
		}
	}
	return corr
}

// join terminates every line with a newline, which is what diffmatchpatch uses to split lines.
func join(lines []string) string {
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	return sb.String()
}
