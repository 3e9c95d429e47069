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
	"fmt"
)

var (
	// ErrMalformedLine is returned when a hunk file contains a line that can't be parsed.
	ErrMalformedLine = errors.New("malformed line")

	// ErrLengthMismatch is returned when the lengths in a hunk header don't match the body.
	ErrLengthMismatch = errors.New("hunk length doesn't match contents")

	// ErrHeaderMismatch is returned when the target start in a hunk header is inconsistent with
	// the preceding hunks.
	ErrHeaderMismatch = errors.New("hunk target start mismatch")

	// ErrAlreadyApplied is returned when a [Patcher] is applied more than once.
	ErrAlreadyApplied = errors.New("patcher has already been applied")

	// ErrOverlap is returned when combining hunks that overlap.
	ErrOverlap = errors.New("hunks overlap")

	// ErrAlignment is returned when combining hunks that are not the same distance apart in the
	// source and the target.
	ErrAlignment = errors.New("unequal distance between hunks in source and target")

	// ErrInconsistentRanges is returned when unmatched ranges don't describe a valid
	// correspondence.
	ErrInconsistentRanges = errors.New("unequal number of matched lines between unmatched ranges")
)

// ParseError describes a problem parsing a hunk file.
type ParseError struct {
	Line int    // 1-based line number, 0 if the error isn't tied to a single line.
	Text string // Offending line or header.
	Err  error  // One of ErrMalformedLine, ErrLengthMismatch, ErrHeaderMismatch.
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%v: %s", e.Err, e.Text)
	}
	return fmt.Sprintf("line %d: %v: %s", e.Line, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error { return e.Err }
