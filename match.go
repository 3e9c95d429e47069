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
	"iter"
)

// Unmatched marks a line without a corresponding line in a correspondence.
const Unmatched = -1

// A correspondence maps every line in a source to the index of the matching line in a target or to
// [Unmatched]. Matched indices are strictly increasing.

// RangePair is a pair of corresponding ranges in a source and a target.
type RangePair struct {
	R1, R2 Interval
}

// UnmatchedRanges returns the maximal unmatched spans between consecutive matched lines in a
// correspondence. len2 is the length of the target. Matched lines are not part of any returned
// range.
func UnmatchedRanges(corr []int, len2 int) iter.Seq[RangePair] {
	return func(yield func(RangePair) bool) {
		len1 := len(corr)
		start1, start2 := 0, 0
		for {
			// Search for the next matched line.
			end1 := start1
			for end1 < len1 && corr[end1] < 0 {
				end1++
			}
			end2 := len2
			if end1 < len1 {
				end2 = corr[end1]
			}

			if end1 != start1 || end2 != start2 {
				if !yield(RangePair{Interval{start1, end1}, Interval{start2, end2}}) {
					return
				}
				start1, start2 = end1, end2
			} else {
				// Matched line directly at start, nothing unmatched here.
				start1++
				start2++
			}

			if start1 >= len1 && start2 >= len2 {
				return
			}
		}
	}
}

// FromUnmatchedRanges reconstructs a correspondence of length len1 from its unmatched ranges.
// All lines outside of the unmatched ranges are matched in order.
func FromUnmatchedRanges(pairs iter.Seq[RangePair], len1 int) ([]int, error) {
	corr := make([]int, len1)
	start1, start2 := 0, 0
	for p := range pairs {
		for start1 < p.R1.Start {
			corr[start1] = start2
			start1++
			start2++
		}
		if start2 != p.R2.Start {
			return nil, fmt.Errorf("at %v, %v: %w", p.R1, p.R2, ErrInconsistentRanges)
		}
		for start1 < p.R1.End {
			corr[start1] = Unmatched
			start1++
		}
		start2 = p.R2.End
	}
	for start1 < len1 {
		corr[start1] = start2
		start1++
		start2++
	}
	return corr, nil
}

// UnmatchedRangesFromHunks returns the unmatched ranges described by a list of hunks, i.e. the
// runs of deleted and inserted lines between matching lines.
func UnmatchedRangesFromHunks(hunks []*Hunk) iter.Seq[RangePair] {
	return func(yield func(RangePair) bool) {
		for _, h := range hunks {
			ops := h.Ops
			start1, start2 := h.Start1, h.Start2
			for i := 0; i < len(ops); {
				for i < len(ops) && ops[i].Op == Equal {
					start1++
					start2++
					i++
				}

				end1, end2 := start1, start2
				for i < len(ops) && ops[i].Op != Equal {
					switch ops[i].Op {
					case Delete:
						end1++
					case Insert:
						end2++
					default:
						panic("never reached")
					}
					i++
				}

				if end1 != start1 || end2 != start2 {
					if !yield(RangePair{Interval{start1, end1}, Interval{start2, end2}}) {
						return
					}
				}
				start1, start2 = end1, end2
			}
		}
	}
}

// CorrespondenceFromHunks returns the correspondence of a source of length len1 and the target
// produced by applying hunks.
func CorrespondenceFromHunks(hunks []*Hunk, len1 int) ([]int, error) {
	return FromUnmatchedRanges(UnmatchedRangesFromHunks(hunks), len1)
}

// ExpandToOperations returns one operation for every line in lines1 and lines2 according to
// corr. Matched lines with different text are turned into a delete followed by an insert.
func ExpandToOperations(corr []int, lines1, lines2 []string) []Operation {
	ops := make([]Operation, 0, max(len(lines1), len(lines2)))
	l, r := 0, 0
	for i, j := range corr {
		if j < 0 {
			continue
		}
		for l < i {
			ops = append(ops, Operation{Delete, lines1[l]})
			l++
		}
		for r < j {
			ops = append(ops, Operation{Insert, lines2[r]})
			r++
		}
		if lines1[l] != lines2[r] {
			ops = append(ops, Operation{Delete, lines1[l]}, Operation{Insert, lines2[r]})
		} else {
			ops = append(ops, Operation{Equal, lines1[l]})
		}
		l++
		r++
	}
	for l < len(lines1) {
		ops = append(ops, Operation{Delete, lines1[l]})
		l++
	}
	for r < len(lines2) {
		ops = append(ops, Operation{Insert, lines2[r]})
		r++
	}
	return ops
}
