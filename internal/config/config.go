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

// Package config provides shared configuration mechanisms for packages this module.
//
// This package is an implementation detail, the configuration surface for users is provided via
// patch.Option.
package config

import "strconv"

// Mode describes how hard the patcher tries to locate a hunk.
type Mode int

const (
	// Only apply hunks at their expected location.
	ModeExact Mode = iota

	// Search the whole buffer for a literal occurrence of the hunk context.
	ModeOffset

	// Fall back to approximate alignment of the hunk context.
	ModeFuzzy
)

func (m Mode) String() string {
	switch m {
	case ModeExact:
		return "exact"
	case ModeOffset:
		return "offset"
	case ModeFuzzy:
		return "fuzzy"
	default:
		return "Mode(" + strconv.Itoa(int(m)) + ")"
	}
}

// Matcher selects the algorithm used to find corresponding lines.
type Matcher int

const (
	// Use znkr.io/diff.
	MatcherDefault Matcher = iota

	// Use the diff-match-patch line mode.
	MatcherDiffMatchPatch
)

// ColorConfig holds ANSI escape sequences used when formatting hunk files for a terminal. An empty
// string disables coloring for that part.
type ColorConfig struct {
	HunkHeader string
	Path       string
	Match      string
	Delete     string
	Insert     string
}

// Config collects all configurable parameters for functions in this module.
type Config struct {
	// Context is the number of matches to include as a prefix and postfix for hunks returned.
	Context int

	// If set, hunks keep deletes grouped before inserts. Otherwise they are reordered to match
	// the order in which a line by line patch reader consumes them.
	Collate bool

	// Line matching algorithm.
	Matcher Matcher

	// If set, formatted hunk headers leave out the target start position.
	AutoHeader bool

	// If set, parsing checks that headers agree with hunk bodies and with each other.
	Verify bool

	// Patcher mode.
	Mode Mode

	// Minimum score for a fuzzy match to be accepted.
	MinQuality float64

	// Maximum number of lines a single context line may drift within a fuzzy match.
	MaxOffset int

	// If set, fuzzy matches are penalized by their distance from the expected location.
	DistancePenalty bool

	// Terminal colors for formatting, zero value means no colors.
	Colors ColorConfig
}

// Default is the default configuration.
var Default = Config{
	Context:         3,
	Collate:         true,
	Matcher:         MatcherDefault,
	AutoHeader:      false,
	Verify:          true,
	Mode:            ModeExact,
	MinQuality:      0.5,
	MaxOffset:       5,
	DistancePenalty: true,
}

// Flag describes a single config entry. This is used to detect if configurations are being set
// that are not supported by a function.
type Flag int

const (
	Context Flag = 1 << iota
	Collate
	Algorithm
	AutoHeader
	Verify
	ApplyMode
	MinQuality
	MaxOffset
	DistancePenalty
	Colors
)

// Option is the mechanism used to expose the configuration to users.
type Option func(*Config) Flag

// FromOptions creates a configuration from a set of options.
func FromOptions(opts []Option, allowed Flag) Config {
	cfg := Default
	for _, opt := range opts {
		flag := opt(&cfg)
		if flag & ^allowed != 0 {
			panic("Option " + printFlag(flag) + " not allowed here")
		}
	}
	if cfg.MinQuality < 0 || cfg.MinQuality > 1 {
		panic("MinQuality must be in [0, 1]")
	}
	return cfg
}

func printFlag(flag Flag) string {
	switch flag {
	case Context:
		return "patch.Context"
	case Collate:
		return "patch.Uncollated"
	case Algorithm:
		return "patch.DiffMatchPatch"
	case AutoHeader:
		return "patch.AutoHeader"
	case Verify:
		return "patch.NoVerify"
	case ApplyMode:
		return "patch.ApplyMode"
	case MinQuality:
		return "patch.MinQuality"
	case MaxOffset:
		return "patch.MaxOffset"
	case DistancePenalty:
		return "patch.NoDistancePenalty"
	case Colors:
		return "color.Terminal"
	default:
		panic("never reached")
	}
}
