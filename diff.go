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

	"znkr.io/patch/internal/config"
	"znkr.io/patch/internal/match"
)

// Correspondence compares lines1 and lines2 and returns, for every line in lines1, the index of the
// matching line in lines2 or [Unmatched].
//
// The following option is supported: [DiffMatchPatch]
//
// Important: The output is not guaranteed to be stable and may change with upgrades of the
// underlying diff algorithms. DO NOT rely on the output being stable.
func Correspondence(lines1, lines2 []string, opts ...Option) []int {
	cfg := config.FromOptions(opts, config.Algorithm)
	return match.Lines(lines1, lines2, cfg.Matcher)
}

// Hunks compares lines1 and lines2 and returns the hunks necessary to convert from one to the other.
//
// Every hunk contains up to [Context] lines of context before and after its changes, hunks that
// would share context are merged. Deletes are grouped before inserts unless [Uncollated] is passed.
// If lines1 and lines2 are identical, the output has length zero.
//
// The following options are supported: [Context], [Uncollated], [DiffMatchPatch]
//
// Important: The output is not guaranteed to be stable and may change with upgrades of the
// underlying diff algorithms. DO NOT rely on the output being stable.
func Hunks(lines1, lines2 []string, opts ...Option) []*Hunk {
	cfg := config.FromOptions(opts, config.Context|config.Collate|config.Algorithm)
	corr := match.Lines(lines1, lines2, cfg.Matcher)
	return makeHunks(ExpandToOperations(corr, lines1, lines2), cfg)
}

// MakeHunks turns a complete list of operations, covering both texts from the beginning to the
// end, into hunks. It returns nil if the operations don't contain any changes.
//
// The following options are supported: [Context], [Uncollated]
func MakeHunks(ops []Operation, opts ...Option) []*Hunk {
	cfg := config.FromOptions(opts, config.Context|config.Collate)
	return makeHunks(ops, cfg)
}

func makeHunks(ops []Operation, cfg config.Config) []*Hunk {
	h := &Hunk{Ops: slices.Clone(ops)}
	h.RecalculateLengths()
	h.Trim(cfg.Context)
	if len(h.Ops) == 0 {
		return nil
	}
	if !cfg.Collate {
		h.Uncollate()
	}
	return h.Split(cfg.Context)
}

// Diff compares lines1 and lines2 and returns a [File] without paths.
//
// The following options are supported: [Context], [Uncollated], [DiffMatchPatch]
func Diff(lines1, lines2 []string, opts ...Option) *File {
	return &File{Hunks: Hunks(lines1, lines2, opts...)}
}
