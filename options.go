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

import "znkr.io/patch/internal/config"

// Option configures the behavior of functions in this package.
type Option = config.Option

// Mode selects how hard a [Patcher] tries to locate a hunk. Every mode includes the modes before
// it.
type Mode = config.Mode

const (
	Exact  = config.ModeExact  // Apply hunks at their expected location only.
	Offset = config.ModeOffset // Search for an exact copy of the hunk context elsewhere.
	Fuzzy  = config.ModeFuzzy  // Search for an approximate match of the hunk context.
)

// Context sets the number of matching lines to include before and after the changes in a hunk.
// The default is 3.
func Context(n int) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.Context = max(0, n)
		return config.Context
	}
}

// Uncollated orders the operations in a hunk the way a line by line patch reader consumes them
// instead of grouping all deletes before all inserts.
func Uncollated() Option {
	return func(cfg *config.Config) config.Flag {
		cfg.Collate = false
		return config.Collate
	}
}

// DiffMatchPatch uses the line mode of the diff-match-patch algorithm to find matching lines
// instead of the default algorithm.
func DiffMatchPatch() Option {
	return func(cfg *config.Config) config.Flag {
		cfg.Matcher = config.MatcherDiffMatchPatch
		return config.Algorithm
	}
}

// AutoHeader leaves the target start out of formatted hunk headers. When parsing, it's derived
// from the preceding hunks instead.
func AutoHeader() Option {
	return func(cfg *config.Config) config.Flag {
		cfg.AutoHeader = true
		return config.AutoHeader
	}
}

// NoVerify disables consistency checks of hunk headers when parsing.
func NoVerify() Option {
	return func(cfg *config.Config) config.Flag {
		cfg.Verify = false
		return config.Verify
	}
}

// ApplyMode sets the mode of a [Patcher]. The default is [Exact].
func ApplyMode(m Mode) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.Mode = m
		return config.ApplyMode
	}
}

// MinQuality sets the minimum quality in [0, 1] a fuzzy match needs to be accepted. The default is
// 0.5.
func MinQuality(q float64) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.MinQuality = q
		return config.MinQuality
	}
}

// MaxOffset sets how many lines a single context line may move relative to its neighbours in a
// fuzzy match. The default is 5.
func MaxOffset(n int) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.MaxOffset = max(0, n)
		return config.MaxOffset
	}
}

// NoDistancePenalty disables the penalty for fuzzy matches far away from the expected location.
func NoDistancePenalty() Option {
	return func(cfg *config.Config) config.Flag {
		cfg.DistancePenalty = false
		return config.DistancePenalty
	}
}
