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

// Package textpatch provides functions to create and apply patches to text.
package textpatch

import (
	"slices"
	"strings"

	"znkr.io/patch"
	"znkr.io/patch/internal/config"
)

// Lines splits s into lines. Line endings ("\n" or "\r\n") are removed and a missing line ending
// after the last line is ignored. An empty string has no lines.
func Lines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// Join terminates every line with newline and concatenates them.
func Join(lines []string, newline string) string {
	n := len(lines) * len(newline)
	for _, l := range lines {
		n += len(l)
	}
	var sb strings.Builder
	sb.Grow(n)
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteString(newline)
	}
	return sb.String()
}

// newline returns the line ending used in s, "\r\n" if the first line ends with it and "\n"
// otherwise.
func newline(s string) string {
	if i := strings.IndexByte(s, '\n'); i > 0 && s[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// Diff compares the lines in x and y and returns the changes necessary to convert from one to the
// other in hunk file format.
//
// The following options are supported: [patch.Context], [patch.Uncollated],
// [patch.DiffMatchPatch], [patch.AutoHeader], [color.Terminal]
//
// Important: The output is not guaranteed to be stable and may change with upgrades of the
// underlying diff algorithms. DO NOT rely on the output being stable.
func Diff(x, y string, opts ...patch.Option) string {
	diffOpts, formatOpts := partition(opts, config.Context|config.Collate|config.Algorithm)
	return patch.Diff(Lines(x), Lines(y), diffOpts...).Format(formatOpts...)
}

// Apply parses patchText and applies it to text. The line endings of text are preserved. Hunks that
// fail to apply are reported in the results, the returned error is only set if patchText can't be
// parsed.
//
// The following options are supported: [patch.NoVerify], [patch.ApplyMode], [patch.MinQuality],
// [patch.MaxOffset], [patch.NoDistancePenalty]
func Apply(text, patchText string, opts ...patch.Option) (string, []patch.Result, error) {
	parseOpts, applyOpts := partition(opts, config.Verify)
	f, err := patch.Parse(patchText, parseOpts...)
	if err != nil {
		return "", nil, err
	}
	p := patch.NewPatcher(f.Hunks, Lines(text), applyOpts...)
	if err := p.Apply(); err != nil {
		panic(err) // never reached, the patcher is new
	}
	return Join(p.Lines(), newline(text)), p.Results(), nil
}

// partition splits opts into the options setting one of flags and all others.
func partition(opts []patch.Option, flags config.Flag) (in, out []patch.Option) {
	var scratch config.Config
	for _, opt := range opts {
		if opt(&scratch)&flags != 0 {
			in = append(in, opt)
		} else {
			out = append(out, opt)
		}
	}
	return slices.Clip(in), slices.Clip(out)
}
