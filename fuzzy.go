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
	"slices"

	"znkr.io/patch/internal/align"
	"znkr.io/patch/internal/config"
	"znkr.io/patch/internal/intern"
)

// FuzzyMatch searches text for the best approximate match of pattern, starting at line loc and
// moving outwards in both directions.
//
// Lines are compared word by word, two lines match if at least half of their words agree. Each
// pattern line may be matched within [MaxOffset] lines of its position relative to the candidate
// location. Unless [NoDistancePenalty] is passed, the score of a candidate decreases the further it
// is from loc.
//
// Matches never cross the boundaries of ranges, which must be sorted and disjoint. If ranges is
// nil, the whole text is searched.
//
// The returned path maps every pattern line to the matching text line or to [Unmatched]. The path
// is nil if no candidate reaches the [MinQuality] threshold.
//
// The following options are supported: [MinQuality], [MaxOffset], [NoDistancePenalty]
func FuzzyMatch(pattern, text []string, loc int, ranges []Interval, opts ...Option) (path []int, quality float64) {
	cfg := config.FromOptions(opts, config.MinQuality|config.MaxOffset|config.DistancePenalty)
	in := intern.New()
	if ranges == nil {
		ranges = []Interval{{0, len(text)}}
	}
	return fuzzyMatch(in.WordLines(pattern), in.WordLines(text), loc, ranges, cfg)
}

// fuzzyMatch is FuzzyMatch on interned word lines.
func fuzzyMatch(pattern, text []string, loc int, ranges []Interval, cfg config.Config) ([]int, float64) {
	if len(pattern) == 0 {
		return nil, 0
	}

	var perLine float64
	if cfg.DistancePenalty {
		perLine = 1 / float64(10*OffsetWarnDistance(len(pattern), len(text)))
	}

	al := align.New(pattern, text, cfg.MaxOffset)
	fwd := newMatchRunner(al, ranges, loc, 1, perLine)
	rev := newMatchRunner(al, ranges, loc, -1, perLine)

	b := &bestMatch{score: cfg.MinQuality}
	for {
		// Both runners must advance in lockstep so that candidates at the same distance carry the
		// same penalty, ties go to the forward runner.
		moved := fwd.step(b)
		if rev.step(b) {
			moved = true
		}
		if !moved {
			break
		}
	}
	if b.path == nil {
		return nil, 0
	}
	return b.path, b.score
}

type bestMatch struct {
	path  []int
	score float64
}

// offer records path if it beats the best match so far. A path without any matched line is never
// a match, even if the threshold is zero.
func (b *bestMatch) offer(path []int, score float64) {
	if !slices.ContainsFunc(path, matched) {
		return
	}
	if score > b.score || b.path == nil && score == b.score {
		b.path, b.score = path, score
	}
}

func matched(i int) bool { return i >= 0 }

// matchRunner moves a candidate location away from the start location in one direction. The
// ranges are ordered in the direction of travel, ranges the location has fully passed are
// dropped and ranges are only considered once the location entered them.
type matchRunner struct {
	al         *align.Aligner
	ranges     []Interval
	first, end int // active ranges
	loc, dir   int

	// The penalty starts below zero to give nearby candidates a grace period.
	penalty, perLine float64
}

func newMatchRunner(al *align.Aligner, ranges []Interval, loc, dir int, perLine float64) *matchRunner {
	var rs []Interval
	if dir > 0 {
		i := slices.IndexFunc(ranges, func(r Interval) bool { return r.End > loc })
		if i >= 0 {
			rs = ranges[i:]
		}
	} else {
		for _, r := range slices.Backward(ranges) {
			if r.Start <= loc {
				rs = append(rs, r)
			}
		}
	}
	return &matchRunner{
		al:      al,
		ranges:  rs,
		loc:     loc,
		dir:     dir,
		penalty: -0.1,
		perLine: perLine,
	}
}

// step evaluates the current location and advances. It returns false once there are no ranges
// left or no candidate can beat the best match anymore.
func (r *matchRunner) step(b *bestMatch) bool {
	if r.first == len(r.ranges) {
		return false
	}
	if b.score > 1-r.penalty {
		return false
	}

	for r.end < len(r.ranges) && r.ranges[r.end].Contains(r.loc) {
		r.end++
	}
	for i := r.first; i < r.end; i++ {
		rg := r.ranges[i]
		path, score, ok := r.al.At(r.loc, rg.Start, rg.End)
		if !ok {
			// The location left the range for good.
			r.first = i + 1
			continue
		}
		if r.penalty > 0 {
			score -= r.penalty
		}
		b.offer(path, score)
	}

	r.loc += r.dir
	r.penalty += r.perLine
	return true
}

// AdjustToMatch rewrites h to apply at the lines matched by FuzzyMatch. The context of the
// returned hunk is taken from lines:
//
//   - matched context lines are replaced by the lines they matched,
//   - unmatched context lines are removed,
//   - lines skipped between two matched lines are added as context, or as deletions if they are
//     surrounded by deletions.
//
// Insertions are kept as they are. The path must have one entry per context line of h.
func AdjustToMatch(h *Hunk, path []int, lines []string) *Hunk {
	adj := h.Clone()
	ops := adj.Ops

	j, ploc := 0, -1
	for i := range h.Length1 {
		mloc := path[i]

		if mloc >= 0 && ploc >= 0 && mloc-ploc > 1 {
			op := Equal
			if ops[j-1].Op == Delete && ops[j].Op == Delete {
				op = Delete
			}
			for l := ploc + 1; l < mloc; l++ {
				ops = slices.Insert(ops, j, Operation{op, lines[l]})
				j++
			}
		}
		if mloc >= 0 {
			ploc = mloc
		}

		for ops[j].Op == Insert {
			j++
		}

		if mloc < 0 {
			ops = slices.Delete(ops, j, j+1)
		} else {
			ops[j].Text = lines[mloc]
			j++
		}
	}

	adj.Ops = ops
	adj.RecalculateLengths()
	return adj
}
