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

import "fmt"

// Result describes how a single hunk was applied.
type Result struct {
	Hunk    *Hunk // The hunk as it was passed to the patcher.
	Success bool
	Mode    Mode // Tier that applied the hunk, only valid if Success is true.

	// The hunk as it was written to the buffer. Start2 is the position in the patched lines, it's
	// updated if hunks are applied before it. Start1 is the position in the input lines. For fuzzy
	// matches, the context and lengths are those found in the input lines. Nil if the hunk failed.
	AppliedHunk *Hunk

	Offset        int     // Distance between expected and applied location.
	OffsetWarning bool    // Offset exceeds OffsetWarnDistance.
	FuzzyQuality  float64 // Quality of the fuzzy match in [0, 1].
	SearchOffset  int     // Drift at the time a failing hunk was tried.
}

// Summary returns a single line describing the result.
func (r Result) Summary() string {
	if !r.Success {
		return "FAILURE: " + r.Hunk.Header()
	}
	switch r.Mode {
	case Exact:
		return "EXACT: " + r.Hunk.Header()
	case Offset:
		kind := "OFFSET"
		if r.OffsetWarning {
			kind = "WARNING"
		}
		return fmt.Sprintf("%s: %s offset %d lines", kind, r.Hunk.Header(), r.Offset)
	case Fuzzy:
		s := fmt.Sprintf("FUZZY: %s quality %d%%", r.Hunk.Header(), int(r.FuzzyQuality*100))
		if r.Offset != 0 {
			s += fmt.Sprintf(" offset %d lines", r.Offset)
		}
		return s
	default:
		panic("never reached")
	}
}
