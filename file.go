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
	"regexp"
	"strconv"
	"strings"

	"znkr.io/patch/internal/config"
)

const (
	basePathPrefix    = "--- "
	patchedPathPrefix = "+++ "
)

var headerRE = regexp.MustCompile(`^@@ -(\d+),(\d+) \+(_|\d+),(\d+) @@`)

// File is a list of hunks that transform one file into another, optionally annotated with the
// paths of both files. Hunks are ordered by their position in the source.
type File struct {
	BasePath    string // Path of the source file, empty if unknown.
	PatchedPath string // Path of the target file, empty if unknown.
	Hunks       []*Hunk
}

// IsEmpty reports whether f doesn't contain any hunks.
func (f *File) IsEmpty() bool { return len(f.Hunks) == 0 }

// Parse parses a hunk file. Lines are separated by '\n', a trailing '\r' is ignored.
//
// The following options are supported: [NoVerify]
func Parse(text string, opts ...Option) (*File, error) {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return ParseLines(lines, opts...)
}

// ParseLines parses a hunk file that has already been split into lines.
//
// The file consists of an optional pair of path lines ("--- base" and "+++ patched") followed by
// hunks. Each hunk starts with a header "@@ -S1,L1 +S2,L2 @@" where S1 and S2 are 1-based and S2
// may be "_" to derive it from the preceding hunks. Body lines start with ' ', '+' or '-'. Blank
// lines are ignored.
//
// Unless [NoVerify] is passed, ParseLines checks that the lengths in every header match the hunk
// body and that explicit target starts agree with the preceding hunks. Either way, the lengths of
// the returned hunks are derived from their bodies.
//
// The following options are supported: [NoVerify]
func ParseLines(lines []string, opts ...Option) (*File, error) {
	cfg := config.FromOptions(opts, config.Verify)

	f := &File{}
	var (
		h        *Hunk // current hunk
		hline    int   // line number of the current hunk header
		hlen1    int   // length of the current hunk in the source, according to the header
		hlen2    int   // length of the current hunk in the target, according to the header
		delta    int   // running difference between target and source lengths
		nonBlank int   // number of non-blank lines seen so far
	)

	finish := func() error {
		if h == nil {
			return nil
		}
		h.RecalculateLengths()
		if cfg.Verify && (h.Length1 != hlen1 || h.Length2 != hlen2) {
			return &ParseError{
				Line: hline,
				Text: fmt.Sprintf("header %d,%d but body %d,%d", hlen1, hlen2, h.Length1, h.Length2),
				Err:  ErrLengthMismatch,
			}
		}
		return nil
	}

	for i, line := range lines {
		lineno := i + 1
		if len(line) == 0 {
			continue
		}
		nonBlank++

		if h == nil && line[0] != '@' {
			switch {
			case nonBlank == 1 && strings.HasPrefix(line, basePathPrefix):
				f.BasePath = line[len(basePathPrefix):]
			case nonBlank == 2 && f.BasePath != "" && strings.HasPrefix(line, patchedPathPrefix):
				f.PatchedPath = line[len(patchedPathPrefix):]
			default:
				return nil, &ParseError{Line: lineno, Text: line, Err: ErrMalformedLine}
			}
			continue
		}

		switch line[0] {
		case '@':
			if err := finish(); err != nil {
				return nil, err
			}
			m := headerRE.FindStringSubmatch(line)
			if m == nil {
				return nil, &ParseError{Line: lineno, Text: line, Err: ErrMalformedLine}
			}
			start2 := m[3]
			if start2 == autoPlaceholder {
				start2 = "0"
			}
			nums, ok := atois(m[1], m[2], start2, m[4])
			if !ok {
				return nil, &ParseError{Line: lineno, Text: line, Err: ErrMalformedLine}
			}
			hlen1, hlen2 = nums[1], nums[3]
			h = &Hunk{Start1: max(0, nums[0]-1)}
			hline = lineno
			if m[3] == autoPlaceholder {
				h.Start2 = h.Start1 + delta
			} else {
				h.Start2 = max(0, nums[2]-1)
				if cfg.Verify && h.Start2 != h.Start1+delta {
					return nil, &ParseError{
						Line: lineno,
						Text: fmt.Sprintf("expected target start %d, got %d", h.Start1+delta+1, h.Start2+1),
						Err:  ErrHeaderMismatch,
					}
				}
			}
			delta += hlen2 - hlen1
			f.Hunks = append(f.Hunks, h)
		case prefixEqual:
			h.Ops = append(h.Ops, Operation{Equal, line[1:]})
		case prefixInsert:
			h.Ops = append(h.Ops, Operation{Insert, line[1:]})
		case prefixDelete:
			h.Ops = append(h.Ops, Operation{Delete, line[1:]})
		default:
			return nil, &ParseError{Line: lineno, Text: line, Err: ErrMalformedLine}
		}
	}
	if err := finish(); err != nil {
		return nil, err
	}
	return f, nil
}

// atois converts all numbers of a hunk header. It fails if any of them is out of range.
func atois(s ...string) ([]int, bool) {
	out := make([]int, len(s))
	for i, v := range s {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, false
		}
		out[i] = n
	}
	return out, true
}

// Format returns f in hunk file format. The path lines are only written if both paths are set.
//
// The following options are supported: [AutoHeader], [color.Terminal]
//
// [color.Terminal]: https://pkg.go.dev/znkr.io/patch/textpatch/color#Terminal
func (f *File) Format(opts ...Option) string {
	cfg := config.FromOptions(opts, config.AutoHeader|config.Colors)
	cc := cfg.Colors

	var sb strings.Builder
	line := func(color string, parts ...string) {
		if color != "" {
			sb.WriteString(color)
		}
		for _, p := range parts {
			sb.WriteString(p)
		}
		if color != "" {
			sb.WriteString(colorReset)
		}
		sb.WriteByte('\n')
	}

	if f.BasePath != "" && f.PatchedPath != "" {
		line(cc.Path, basePathPrefix, f.BasePath)
		line(cc.Path, patchedPathPrefix, f.PatchedPath)
	}
	for _, h := range f.Hunks {
		if cfg.AutoHeader {
			line(cc.HunkHeader, h.AutoHeader())
		} else {
			line(cc.HunkHeader, h.Header())
		}
		for _, op := range h.Ops {
			var color string
			switch op.Op {
			case Equal:
				color = cc.Match
			case Insert:
				color = cc.Insert
			case Delete:
				color = cc.Delete
			default:
				panic("never reached")
			}
			line(color, string(op.Op.prefix()), op.Text)
		}
	}
	return sb.String()
}

const colorReset = "\033[0m"

// String returns f in hunk file format with explicit headers.
func (f *File) String() string { return f.Format() }
