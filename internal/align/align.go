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

// Package align finds approximate matches of a sequence of lines in a text.
//
// Lines are compared word by word: both the pattern and the text are expected to be interned word
// strings (one rune per word, see package intern). The similarity of two lines is 1 minus their
// word level levenshtein distance relative to the longer line. Lines less similar than
// minLineScore never match.
//
// An alignment at location loc maps every pattern line i to a text line within maxOffset of
// loc+i, or leaves it unmatched. Matched text lines are strictly increasing. The score of an
// alignment is the sum of the similarities of all matched lines divided by the length of the
// pattern, i.e. a perfect match has score 1.
package align

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

const minLineScore = 0.5

// Aligner aligns a pattern against a text at different locations. Line similarities are cached
// and reused between locations.
type Aligner struct {
	pattern, text []string
	maxOffset     int
	sims          map[int]float64
}

// New returns an Aligner for pattern and text.
func New(pattern, text []string, maxOffset int) *Aligner {
	return &Aligner{
		pattern:   pattern,
		text:      text,
		maxOffset: maxOffset,
		sims:      make(map[int]float64),
	}
}

type move uint8

const (
	skipPattern move = iota // pattern line is unmatched
	skipText                // text line is unmatched
	match                   // pattern line matches text line
)

// At returns the best alignment of the pattern starting at text line loc, restricted to the text
// lines in [start, end). The path maps every pattern line to a text line or to -1. It returns false
// if loc is outside of [start, end) or the pattern is empty.
func (a *Aligner) At(loc, start, end int) (path []int, score float64, ok bool) {
	n, m := len(a.pattern), a.maxOffset
	if n == 0 || loc < start || loc >= end {
		return nil, 0, false
	}

	// Window of text boundaries that can take part in the alignment, column c in the matrices
	// corresponds to the boundary before text line lo+c.
	lo, hi := max(start, loc-m, 0), min(end, loc+n+m, len(a.text))
	w := hi - lo + 1
	if w <= 1 {
		return nil, 0, false
	}

	f := make([]float64, (n+1)*w)
	moves := make([]move, (n+1)*w)
	for i := 1; i <= n; i++ {
		row, prev := i*w, (i-1)*w
		f[row] = f[prev]
		moves[row] = skipPattern
		for c := 1; c < w; c++ {
			best, mv := f[prev+c], skipPattern
			if f[row+c-1] > best {
				best, mv = f[row+c-1], skipText
			}
			if j := lo + c - 1; abs(j-(loc+i-1)) <= m {
				if s := a.sim(i-1, j); s > 0 && f[prev+c-1]+s > best {
					best, mv = f[prev+c-1]+s, match
				}
			}
			f[row+c] = best
			moves[row+c] = mv
		}
	}

	path = make([]int, n)
	for i, c := n, w-1; i > 0; {
		switch moves[i*w+c] {
		case skipPattern:
			path[i-1] = -1
			i--
		case skipText:
			c--
		case match:
			path[i-1] = lo + c - 1
			i--
			c--
		}
	}
	return path, f[n*w+w-1] / float64(n), true
}

func (a *Aligner) sim(i, j int) float64 {
	key := i*len(a.text) + j
	if s, ok := a.sims[key]; ok {
		return s
	}
	s := Similarity(a.pattern[i], a.text[j])
	if s < minLineScore {
		s = 0
	}
	a.sims[key] = s
	return s
}

// Similarity returns the similarity of two interned word strings in [0, 1].
func Similarity(x, y string) float64 {
	if x == y {
		return 1
	}
	l := max(utf8.RuneCountInString(x), utf8.RuneCountInString(y))
	d := levenshtein.ComputeDistance(x, y)
	return 1 - float64(d)/float64(l)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
