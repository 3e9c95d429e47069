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

// Package gitpatch reads patches produced by git and other unified diff tools.
package gitpatch

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"znkr.io/patch"
)

// ErrBinary is returned for binary patches, which can't be represented as hunks.
var ErrBinary = errors.New("binary patch")

// Parse reads a patch in git or unified diff format and returns one [patch.File] per file in the
// patch. Deleted and created files have an empty patched or base path respectively. Text before
// the first file is ignored.
func Parse(r io.Reader) ([]*patch.File, error) {
	files, _, err := gitdiff.Parse(r)
	if err != nil {
		return nil, err
	}
	out := make([]*patch.File, 0, len(files))
	for _, f := range files {
		pf, err := convert(f)
		if err != nil {
			return nil, err
		}
		out = append(out, pf)
	}
	return out, nil
}

func convert(f *gitdiff.File) (*patch.File, error) {
	pf := &patch.File{
		BasePath:    f.OldName,
		PatchedPath: f.NewName,
	}
	if f.IsBinary {
		return nil, fmt.Errorf("%s: %w", name(f), ErrBinary)
	}
	for _, frag := range f.TextFragments {
		h := &patch.Hunk{
			Start1: start(frag.OldPosition, frag.OldLines),
			Start2: start(frag.NewPosition, frag.NewLines),
			Ops:    make([]patch.Operation, 0, len(frag.Lines)),
		}
		for _, l := range frag.Lines {
			var op patch.Op
			switch l.Op {
			case gitdiff.OpContext:
				op = patch.Equal
			case gitdiff.OpDelete:
				op = patch.Delete
			case gitdiff.OpAdd:
				op = patch.Insert
			default:
				panic("never reached")
			}
			text := strings.TrimSuffix(l.Line, "\n")
			h.Ops = append(h.Ops, patch.Operation{Op: op, Text: strings.TrimSuffix(text, "\r")})
		}
		h.RecalculateLengths()
		pf.Hunks = append(pf.Hunks, h)
	}
	return pf, nil
}

// start converts the 1-based start of a unified diff fragment to a 0-based line index. Empty
// fragments refer to the line before the change, which is already the 0-based index of the line
// after it.
func start(pos, n int64) int {
	if n == 0 {
		return int(pos)
	}
	return int(pos) - 1
}

func name(f *gitdiff.File) string {
	if f.NewName != "" {
		return f.NewName
	}
	return f.OldName
}
