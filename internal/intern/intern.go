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

// Package intern maps strings to runes so that sequences of lines or words can be compared and
// searched as compact strings.
package intern

import (
	"iter"
	"unicode"
	"unicode/utf8"
)

// Interner assigns a unique rune to every distinct string it sees. The zero value is not usable,
// use [New].
type Interner struct {
	ids  map[string]rune
	next rune
}

// New returns an empty Interner.
func New() *Interner {
	return &Interner{ids: make(map[string]rune), next: 1}
}

// ID returns the rune for s, assigning a new one if s hasn't been seen before.
func (in *Interner) ID(s string) rune {
	if id, ok := in.ids[s]; ok {
		return id
	}
	id := in.next
	in.next++
	// Surrogates can't be encoded in UTF-8 and would all turn into U+FFFD.
	if in.next >= 0xD800 && in.next <= 0xDFFF {
		in.next = 0xE000
	}
	if id > utf8.MaxRune {
		panic("too many distinct strings")
	}
	in.ids[s] = id
	return id
}

// Lines returns one rune per line.
func (in *Interner) Lines(lines []string) []rune {
	out := make([]rune, len(lines))
	for i, l := range lines {
		out[i] = in.ID(l)
	}
	return out
}

// Words returns line as a string with one rune per word. A word is a run of letters, digits and
// underscores, a run of whitespace, or any other single character.
func (in *Interner) Words(line string) string {
	out := make([]rune, 0, len(line)/4+1)
	for w := range words(line) {
		out = append(out, in.ID(w))
	}
	return string(out)
}

// WordLines applies [Interner.Words] to every line.
func (in *Interner) WordLines(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = in.Words(l)
	}
	return out
}

type class int

const (
	classWord class = iota
	classSpace
	classOther
)

func classify(r rune) class {
	switch {
	case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
		return classWord
	case unicode.IsSpace(r):
		return classSpace
	default:
		return classOther
	}
}

func words(s string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for len(s) > 0 {
			r, n := utf8.DecodeRuneInString(s)
			c := classify(r)
			if c != classOther {
				for n < len(s) {
					r, m := utf8.DecodeRuneInString(s[n:])
					if classify(r) != c {
						break
					}
					n += m
				}
			}
			if !yield(s[:n]) {
				return
			}
			s = s[n:]
		}
	}
}
