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
	"cmp"
	"fmt"
	"iter"
	"slices"
)

// Interval is a half-open range of line indices [Start, End).
//
// None of the methods check that Start <= End, producing an inverted interval is a bug in the
// caller.
type Interval struct {
	Start, End int
}

// Len returns the number of lines in the interval.
func (r Interval) Len() int { return r.End - r.Start }

// Last returns the index of the last line in the interval.
func (r Interval) Last() int { return r.End - 1 }

// Contains reports whether line i is inside the interval.
func (r Interval) Contains(i int) bool { return r.Start <= i && i < r.End }

// ContainsInterval reports whether o lies completely within r.
func (r Interval) ContainsInterval(o Interval) bool { return o.Start >= r.Start && o.End <= r.End }

// Intersects reports whether r and o share at least one position. Intervals that only touch at
// an endpoint don't intersect.
func (r Interval) Intersects(o Interval) bool { return o.Start < r.End && r.Start < o.End }

// Union returns the smallest interval containing both r and o.
func (r Interval) Union(o Interval) Interval {
	return Interval{min(r.Start, o.Start), max(r.End, o.End)}
}

// Intersection returns the overlap of r and o. If they don't overlap, the result is empty and
// located at the end of the earlier interval.
func (r Interval) Intersection(o Interval) Interval {
	start, end := max(r.Start, o.Start), min(r.End, o.End)
	if end < start {
		end = start
	}
	return Interval{start, end}
}

// Translate moves the interval by n lines.
func (r Interval) Translate(n int) Interval { return Interval{r.Start + n, r.End + n} }

func (r Interval) String() string { return fmt.Sprintf("[%d,%d)", r.Start, r.End) }

// Except returns the parts of r that are not covered by any interval in except. The intervals in
// except must be sorted by Start, use [Interval.ExceptUnsorted] otherwise.
func (r Interval) Except(except []Interval) iter.Seq[Interval] {
	return func(yield func(Interval) bool) {
		start := r.Start
		for _, x := range except {
			if end := min(x.Start, r.End); end > start {
				if !yield(Interval{start, end}) {
					return
				}
			}
			start = max(start, x.End)
			if start >= r.End {
				return
			}
		}
		if r.End > start {
			yield(Interval{start, r.End})
		}
	}
}

// ExceptUnsorted is like [Interval.Except] but doesn't require except to be sorted.
func (r Interval) ExceptUnsorted(except []Interval) iter.Seq[Interval] {
	sorted := slices.SortedFunc(slices.Values(except), func(a, b Interval) int {
		return cmp.Compare(a.Start, b.Start)
	})
	return r.Except(sorted)
}
