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
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"znkr.io/patch/internal/config"
	"znkr.io/patch/internal/intern"
)

// OffsetWarnDistance returns the distance from the expected location beyond which a hunk of
// length hunkLen applied to a buffer of length bufLen is reported as suspicious: 10 times the hunk
// length or 10% of the buffer, whichever is longer.
func OffsetWarnDistance(hunkLen, bufLen int) int {
	return max(hunkLen*10, bufLen/10)
}

// Patcher applies a list of hunks to a list of lines.
//
// Every hunk is first tried at its expected location, which is its target start corrected by the
// drift observed for the previous hunk. Depending on the [Mode], the patcher then searches for an
// exact copy of the hunk context elsewhere ([Offset]) or for an approximate match ([Fuzzy]).
// Hunks never overwrite lines changed by another hunk. A hunk that can't be applied doesn't stop
// the patcher, every hunk gets a [Result].
//
// A Patcher can only be applied once. It's not safe for concurrent use, but independent patchers
// don't share any state.
type Patcher struct {
	applied bool
	s       state
}

// NewPatcher returns a patcher that applies hunks to lines. Neither hunks nor lines are modified.
//
// The following options are supported: [ApplyMode], [MinQuality], [MaxOffset],
// [NoDistancePenalty]
func NewPatcher(hunks []*Hunk, lines []string, opts ...Option) *Patcher {
	cfg := config.FromOptions(opts, config.ApplyMode|config.MinQuality|config.MaxOffset|config.DistancePenalty)
	p := &Patcher{
		s: state{
			cfg:   cfg,
			lines: slices.Clone(lines),
			hunks: make([]*workingHunk, len(hunks)),
		},
	}
	for i, h := range hunks {
		p.s.hunks[i] = newWorkingHunk(h.Clone())
	}
	return p
}

// Apply applies all hunks. Failing hunks are recorded in [Patcher.Results], Apply only returns an
// error if it's called more than once.
func (p *Patcher) Apply() error {
	if p.applied {
		return ErrAlreadyApplied
	}
	p.applied = true
	for _, w := range p.s.hunks {
		p.s.apply(w)
	}
	return nil
}

// Lines returns a copy of the patched lines.
func (p *Patcher) Lines() []string { return slices.Clone(p.s.lines) }

// Results returns the result for every hunk in the order the hunks were passed to [NewPatcher].
func (p *Patcher) Results() []Result {
	results := make([]Result, len(p.s.hunks))
	for i, w := range p.s.hunks {
		if w.result != nil {
			results[i] = *w.result
		} else {
			results[i] = Result{Hunk: w.Hunk}
		}
	}
	return results
}

// workingHunk is a hunk together with its result and cached representations of its lines.
type workingHunk struct {
	*Hunk
	result *Result

	context, patched []string // ContextLines and PatchedLines

	// Interned forms, only populated once the corresponding buffer representation is built.
	lmContext, lmPatched []rune   // one rune per line
	wmContext, wmPatched []string // one rune per word, one string per line
}

func newWorkingHunk(h *Hunk) *workingHunk {
	return &workingHunk{
		Hunk:    h,
		context: h.ContextLines(),
		patched: h.PatchedLines(),
	}
}

// keepout returns the lines written by this hunk, excluding its context.
func (w *workingHunk) keepout() (Interval, bool) {
	if w.result == nil || w.result.AppliedHunk == nil {
		return Interval{}, false
	}
	return w.result.AppliedHunk.TrimmedRange2(), true
}

func (w *workingHunk) appliedDelta() int {
	a := w.result.AppliedHunk
	return a.Length2 - a.Length1
}

// state is the mutable state of a single run.
type state struct {
	cfg   config.Config
	lines []string
	hunks []*workingHunk

	// The applied hunk with the highest position in the buffer, not necessarily the most recent
	// one. Hunks can only apply before it in fuzzy mode.
	last *Hunk

	// Difference between the applied and the expected location of the last applied hunk. If a
	// line is inserted and all hunks are offset by one, only the first hunk is reported as offset.
	// A failing hunk subtracts its length delta.
	searchOffset int

	// Buffer representations for searching, kept in sync with lines once built.
	interner *intern.Interner
	lmBuilt  bool
	lm       []rune
	wmBuilt  bool
	wm       []string
}

func (s *state) apply(w *workingHunk) {
	switch {
	case s.applyExact(w):
	case s.cfg.Mode >= Offset && s.applyOffset(w):
	case s.cfg.Mode >= Fuzzy && s.applyFuzzy(w):
	default:
		w.result = &Result{Hunk: w.Hunk, SearchOffset: s.searchOffset}
		s.searchOffset -= w.Length2 - w.Length1
	}
}

// modifiedEnd returns the end of the region of the buffer that has been written by hunks. Hunks
// applying before it cause the positions of already applied hunks to shift.
func (s *state) modifiedEnd() int {
	if s.last == nil {
		return 0
	}
	return s.last.TrimmedRange2().End
}

func (s *state) buildLines() {
	if s.lmBuilt {
		return
	}
	s.lmBuilt = true
	if s.interner == nil {
		s.interner = intern.New()
	}
	for _, w := range s.hunks {
		s.internLines(w)
	}
	s.lm = s.interner.Lines(s.lines)
}

func (s *state) internLines(w *workingHunk) {
	w.lmContext = s.interner.Lines(w.context)
	w.lmPatched = s.interner.Lines(w.patched)
}

func (s *state) buildWords() {
	if s.wmBuilt {
		return
	}
	s.wmBuilt = true
	if s.interner == nil {
		s.interner = intern.New()
	}
	for _, w := range s.hunks {
		s.internWords(w)
	}
	s.wm = s.interner.WordLines(s.lines)
}

func (s *state) internWords(w *workingHunk) {
	w.wmContext = s.interner.WordLines(w.context)
	w.wmPatched = s.interner.WordLines(w.patched)
}

// canApplySafelyAt reports whether a hunk of length n can be applied at loc without changing
// lines written by another hunk.
func (s *state) canApplySafelyAt(loc, n int) bool {
	if loc >= s.modifiedEnd() {
		return true
	}
	r := Interval{loc, loc + n}
	for _, o := range s.hunks {
		if ko, ok := o.keepout(); ok && ko.ContainsInterval(r) {
			return false
		}
	}
	return true
}

// applyAt writes w at loc and returns the hunk as it was applied.
func (s *state) applyAt(loc int, w *workingHunk) *Hunk {
	n := w.Length1
	if loc < 0 || loc+n > len(s.lines) || !slices.Equal(w.context, s.lines[loc:loc+n]) {
		panic(fmt.Sprintf("patch engine failure: context of %s doesn't match at line %d", w.Header(), loc+1))
	}
	if !s.canApplySafelyAt(loc, n) {
		panic(fmt.Sprintf("patch engine failure: %s affects another hunk at line %d", w.Header(), loc+1))
	}

	s.lines = slices.Replace(s.lines, loc, loc+n, w.patched...)
	if s.lmBuilt {
		s.lm = slices.Replace(s.lm, loc, loc+n, w.lmPatched...)
	}
	if s.wmBuilt {
		s.wm = slices.Replace(s.wm, loc, loc+n, w.wmPatched...)
	}

	// Sum of length changes of all hunks applied before loc.
	patchedDelta := 0
	for _, o := range s.hunks {
		if ko, ok := o.keepout(); ok && ko.End <= loc {
			patchedDelta += o.appliedDelta()
		}
	}

	applied := w.Clone()
	applied.Start1 = loc - patchedDelta
	applied.Start2 = loc

	if loc < s.modifiedEnd() {
		// The hunk applied before hunks that were applied earlier, shift them.
		for _, o := range s.hunks {
			if ko, ok := o.keepout(); ok && ko.Start > loc {
				o.result.AppliedHunk.Start2 += applied.Length2 - applied.Length1
			}
		}
	} else {
		s.last = applied
	}

	s.searchOffset = applied.Start2 - w.Start2
	return applied
}

func (s *state) applyExact(w *workingHunk) bool {
	loc := w.Start2 + s.searchOffset
	n := w.Length1
	if loc < 0 || loc+n > len(s.lines) {
		return false
	}
	if !slices.Equal(w.context, s.lines[loc:loc+n]) || !s.canApplySafelyAt(loc, n) {
		return false
	}
	w.result = &Result{
		Hunk:        w.Hunk,
		Success:     true,
		Mode:        Exact,
		AppliedHunk: s.applyAt(loc, w),
	}
	return true
}

func (s *state) applyOffset(w *workingHunk) bool {
	s.buildLines()

	n := w.Length1
	if n > len(s.lines) {
		return false
	}
	loc := max(0, min(w.Start2+s.searchOffset, len(s.lines)-1))

	forward := indexFrom(s.lm, w.lmContext, loc)
	reverse := lastIndexFrom(s.lm, w.lmContext, loc)
	if forward >= 0 && !s.canApplySafelyAt(forward, n) {
		forward = -1
	}
	if reverse >= 0 && !s.canApplySafelyAt(reverse, n) {
		reverse = -1
	}

	found := -1
	switch {
	case forward >= 0 && reverse >= 0:
		found = forward
		if loc-reverse < forward-loc {
			found = reverse
		}
	case forward >= 0:
		found = forward
	case reverse >= 0:
		found = reverse
	default:
		return false
	}

	bufLen := len(s.lines)
	w.result = &Result{
		Hunk:          w.Hunk,
		Success:       true,
		Mode:          Offset,
		AppliedHunk:   s.applyAt(found, w),
		Offset:        found - loc,
		OffsetWarning: abs(found-loc) > OffsetWarnDistance(n, bufLen),
	}
	return true
}

func (s *state) applyFuzzy(w *workingHunk) bool {
	s.buildWords()

	n := w.Length1
	if n == 0 {
		return false
	}
	loc := w.Start2 + s.searchOffset
	if loc+n > len(s.wm) {
		// Start searching at the end of the buffer.
		loc = len(s.wm) - n
	}
	loc = max(0, loc)

	// Only search between the lines written by other hunks.
	var keepouts []Interval
	for _, o := range s.hunks {
		if ko, ok := o.keepout(); ok {
			keepouts = append(keepouts, ko)
		}
	}
	ranges := slices.Collect(Interval{0, len(s.wm)}.ExceptUnsorted(keepouts))

	path, quality := fuzzyMatch(w.wmContext, s.wm, loc, ranges, s.cfg)
	at := slices.IndexFunc(path, matched)
	if at < 0 {
		return false
	}

	fw := newWorkingHunk(AdjustToMatch(w.Hunk, path, s.lines))
	if s.lmBuilt {
		s.internLines(fw)
	}
	s.internWords(fw)

	bufLen := len(s.lines)
	applied := s.applyAt(path[at], fw)
	w.result = &Result{
		Hunk:          w.Hunk,
		Success:       true,
		Mode:          Fuzzy,
		AppliedHunk:   applied,
		Offset:        applied.Start2 - loc,
		OffsetWarning: abs(applied.Start2-loc) > OffsetWarnDistance(n, bufLen),
		FuzzyQuality:  quality,
	}
	return true
}

// indexFrom returns the index of the first occurrence of pattern in text at or after from, or -1.
func indexFrom(text, pattern []rune, from int) int {
	from = max(0, from)
	if from > len(text) {
		return -1
	}
	tail := string(text[from:])
	i := strings.Index(tail, string(pattern))
	if i < 0 {
		return -1
	}
	return from + utf8.RuneCountInString(tail[:i])
}

// lastIndexFrom returns the index of the last occurrence of pattern in text at or before from, or
// -1.
func lastIndexFrom(text, pattern []rune, from int) int {
	end := min(from+len(pattern), len(text))
	if end < 0 {
		return -1
	}
	head := string(text[:end])
	i := strings.LastIndex(head, string(pattern))
	if i < 0 {
		return -1
	}
	return utf8.RuneCountInString(head[:i])
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
