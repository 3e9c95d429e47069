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
)

// autoPlaceholder replaces the target start in hunk headers that derive it from the preceding
// hunks.
const autoPlaceholder = "_"

// Hunk describes a contiguous block of changes along with some surrounding context.
//
// Start1 and Start2 are the zero-based positions of the hunk in the source and the target. Length1
// and Length2 are derived from Ops and must be recalculated with [Hunk.RecalculateLengths] after
// modifying Ops directly.
type Hunk struct {
	Start1, Start2   int
	Length1, Length2 int
	Ops              []Operation
}

// Clone returns a deep copy of h.
func (h *Hunk) Clone() *Hunk {
	c := *h
	c.Ops = slices.Clone(h.Ops)
	return &c
}

// RecalculateLengths derives Length1 and Length2 from the operations.
func (h *Hunk) RecalculateLengths() {
	h.Length1, h.Length2 = 0, 0
	for _, op := range h.Ops {
		switch op.Op {
		case Equal:
			h.Length1++
			h.Length2++
		case Delete:
			h.Length1++
		case Insert:
			h.Length2++
		default:
			panic("never reached")
		}
	}
}

// ContextLines returns the lines the hunk expects to find in the source, i.e. all lines that are
// not inserted.
func (h *Hunk) ContextLines() []string {
	lines := make([]string, 0, h.Length1)
	for _, op := range h.Ops {
		if op.Op != Insert {
			lines = append(lines, op.Text)
		}
	}
	return lines
}

// PatchedLines returns the lines the hunk produces in the target, i.e. all lines that are not
// deleted.
func (h *Hunk) PatchedLines() []string {
	lines := make([]string, 0, h.Length2)
	for _, op := range h.Ops {
		if op.Op != Delete {
			lines = append(lines, op.Text)
		}
	}
	return lines
}

// Range1 returns the lines covered by the hunk in the source.
func (h *Hunk) Range1() Interval { return Interval{h.Start1, h.Start1 + h.Length1} }

// Range2 returns the lines covered by the hunk in the target.
func (h *Hunk) Range2() Interval { return Interval{h.Start2, h.Start2 + h.Length2} }

// TrimmedRange1 returns the lines covered by the hunk in the source without leading and trailing
// context.
func (h *Hunk) TrimmedRange1() Interval { return h.trimRange(h.Range1()) }

// TrimmedRange2 returns the lines covered by the hunk in the target without leading and trailing
// context.
func (h *Hunk) TrimmedRange2() Interval { return h.trimRange(h.Range2()) }

func (h *Hunk) trimRange(r Interval) Interval {
	start := 0
	for start < len(h.Ops) && h.Ops[start].Op == Equal {
		start++
	}
	if start == len(h.Ops) {
		return Interval{r.Start, r.Start}
	}
	end := len(h.Ops)
	for end > start && h.Ops[end-1].Op == Equal {
		end--
	}
	return Interval{r.Start + start, r.End - (len(h.Ops) - end)}
}

// Trim removes all but n lines of leading and trailing context. If the hunk doesn't contain any
// changes, all operations are removed and both lengths are set to zero.
func (h *Hunk) Trim(n int) {
	r := h.trimRange(Interval{0, len(h.Ops)})
	if r.Len() == 0 {
		h.Length1, h.Length2 = 0, 0
		h.Ops = nil
		return
	}

	trimStart := r.Start - n
	trimEnd := len(h.Ops) - r.End - n
	if trimStart > 0 {
		h.Ops = h.Ops[trimStart:]
		h.Start1 += trimStart
		h.Start2 += trimStart
		h.Length1 -= trimStart
		h.Length2 -= trimStart
	}
	if trimEnd > 0 {
		h.Ops = h.Ops[:len(h.Ops)-trimEnd]
		h.Length1 -= trimEnd
		h.Length2 -= trimEnd
	}
}

// Split cuts the hunk wherever it contains more than 2*n consecutive matching lines, keeping n
// lines of context on either side of the cut.
func (h *Hunk) Split(n int) []*Hunk {
	if len(h.Ops) == 0 {
		return nil
	}

	var ranges []Interval
	start := 0     // start of the current piece
	run := 0       // number of consecutive matches
	dirty := false // the current piece contains a change
	for i, op := range h.Ops {
		if op.Op == Equal {
			run++
			continue
		}
		if run > 2*n {
			if dirty {
				ranges = append(ranges, Interval{start, i - run + n})
			}
			start = i - n
		}
		run = 0
		dirty = true
	}
	ranges = append(ranges, Interval{start, len(h.Ops)})

	hunks := make([]*Hunk, 0, len(ranges))
	end1, end2 := h.Start1, h.Start2
	done := 0 // end of the previous piece in h.Ops
	for _, r := range ranges {
		skip := r.Start - done
		p := &Hunk{
			Start1: end1 + skip,
			Start2: end2 + skip,
			Ops:    slices.Clone(h.Ops[r.Start:r.End]),
		}
		p.RecalculateLengths()
		hunks = append(hunks, p)
		end1, end2 = p.Start1+p.Length1, p.Start2+p.Length2
		done = r.End
	}
	return hunks
}

// Uncollate reorders the operations from the grouped form (all deletes before all inserts) into
// the order a line by line patch reader expects: deletes are kept in place and inserts are
// deferred until the next matching line.
func (h *Hunk) Uncollate() {
	ops := make([]Operation, 0, len(h.Ops))
	var inserts []Operation
	for _, op := range h.Ops {
		switch op.Op {
		case Delete:
			ops = append(ops, op)
		case Insert:
			inserts = append(inserts, op)
		case Equal:
			ops = append(ops, inserts...)
			inserts = inserts[:0]
			ops = append(ops, op)
		default:
			panic("never reached")
		}
	}
	// Hunks may end with inserts.
	h.Ops = append(ops, inserts...)
}

// Combine appends other to h, filling the gap between them with matching lines taken from lines1,
// the source the hunks were created from. The hunks must not overlap and must be the same
// distance apart in the source and in the target. If an error is returned, h is unchanged.
func (h *Hunk) Combine(other *Hunk, lines1 []string) error {
	if h.Range1().Intersects(other.Range1()) || h.Range2().Intersects(other.Range2()) {
		return fmt.Errorf("combining %s and %s: %w", h.Header(), other.Header(), ErrOverlap)
	}
	gap := other.Start1 - (h.Start1 + h.Length1)
	if h.Start2+h.Length2+max(0, gap) != other.Start2 {
		return fmt.Errorf("combining %s and %s: %w", h.Header(), other.Header(), ErrAlignment)
	}

	for i := range gap {
		h.Ops = append(h.Ops, Operation{Equal, lines1[h.Start1+h.Length1+i]})
	}
	h.Length1 += max(0, gap)
	h.Length2 += max(0, gap)

	h.Ops = append(h.Ops, other.Ops...)
	h.Length1 += other.Length1
	h.Length2 += other.Length2
	return nil
}

// Header returns the hunk header, e.g. "@@ -1,3 +1,4 @@".
func (h *Hunk) Header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.Start1+1, h.Length1, h.Start2+1, h.Length2)
}

// AutoHeader returns the hunk header without the target start, e.g. "@@ -1,3 +_,4 @@". The target
// start is derived from the preceding hunks when parsing.
func (h *Hunk) AutoHeader() string {
	return fmt.Sprintf("@@ -%d,%d +%s,%d @@", h.Start1+1, h.Length1, autoPlaceholder, h.Length2)
}

// String returns the hunk in hunk file format without a trailing newline.
func (h *Hunk) String() string {
	var sb strings.Builder
	sb.WriteString(h.Header())
	for _, op := range h.Ops {
		sb.WriteByte('\n')
		sb.WriteByte(op.Op.prefix())
		sb.WriteString(op.Text)
	}
	return sb.String()
}
