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

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"znkr.io/patch"
	"znkr.io/patch/textpatch"
	"znkr.io/patch/textpatch/color"
)

const devNull = "/dev/null"

type diffFlags struct {
	context    int
	uncollated bool
	dmp        bool
	autoHeader bool
	color      bool
}

func (f *diffFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.context, "context", "U", 3, "number of context lines")
	cmd.Flags().BoolVar(&f.uncollated, "uncollated", false, "interleave deletes and inserts")
	cmd.Flags().BoolVar(&f.dmp, "dmp", false, "use diff-match-patch to match lines")
	cmd.Flags().BoolVar(&f.autoHeader, "auto-header", false, "leave target positions out of hunk headers")
	cmd.Flags().BoolVar(&f.color, "color", false, "color the output for a terminal")
}

func (f *diffFlags) diffOptions() []patch.Option {
	opts := []patch.Option{patch.Context(f.context)}
	if f.uncollated {
		opts = append(opts, patch.Uncollated())
	}
	if f.dmp {
		opts = append(opts, patch.DiffMatchPatch())
	}
	return opts
}

func (f *diffFlags) formatOptions() []patch.Option {
	var opts []patch.Option
	if f.autoHeader {
		opts = append(opts, patch.AutoHeader())
	}
	if f.color {
		opts = append(opts, color.Terminal())
	}
	return opts
}

func newDiffCmd() *cobra.Command {
	var flags diffFlags
	cmd := &cobra.Command{
		Use:   "diff OLD NEW",
		Short: "Write the patch from OLD to NEW to stdout",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := readLines(args[0])
			if err != nil {
				return err
			}
			y, err := readLines(args[1])
			if err != nil {
				return err
			}
			f := patch.Diff(x, y, flags.diffOptions()...)
			if f.IsEmpty() {
				return nil
			}
			f.BasePath, f.PatchedPath = args[0], args[1]
			_, err = io.WriteString(cmd.OutOrStdout(), f.Format(flags.formatOptions()...))
			return err
		},
	}
	flags.register(cmd)
	return cmd
}

// readLines reads the lines of a file, /dev/null has no lines.
func readLines(path string) ([]string, error) {
	if path == devNull {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %v", path, err)
	}
	return textpatch.Lines(string(data)), nil
}
