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
	"strings"

	"github.com/spf13/cobra"
	"znkr.io/patch"
)

// The gitdiff command is meant to be used with GIT_EXTERNAL_DIFF, git passes the following
// arguments:
//
//	path old-file old-hex old-mode new-file new-hex new-mode
func newGitDiffCmd() *cobra.Command {
	var flags diffFlags
	cmd := &cobra.Command{
		Use:    "gitdiff PATH OLD-FILE OLD-HEX OLD-MODE NEW-FILE NEW-HEX NEW-MODE",
		Short:  "Diff driver for GIT_EXTERNAL_DIFF",
		Args:   cobra.ExactArgs(7),
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, oldFile, oldHex, newFile, newHex, newMode := args[0], args[1], args[2], args[4], args[5], args[6]

			x, err := readLines(oldFile)
			if err != nil {
				return err
			}
			y, err := readLines(newFile)
			if err != nil {
				return err
			}

			f := patch.Diff(x, y, flags.diffOptions()...)
			f.BasePath, f.PatchedPath = "a/"+path, "b/"+path
			if oldFile == devNull {
				f.BasePath = devNull
			}
			if newFile == devNull {
				f.PatchedPath = devNull
			}

			var sb strings.Builder
			fmt.Fprintf(&sb, "diff --git a/%s b/%s\n", path, path)
			fmt.Fprintf(&sb, "index %s..%s %s\n", abbrev(oldHex), abbrev(newHex), newMode)
			sb.WriteString(f.Format(flags.formatOptions()...))
			_, err = io.WriteString(cmd.OutOrStdout(), sb.String())
			return err
		},
	}
	flags.register(cmd)
	return cmd
}

func abbrev(hex string) string {
	if len(hex) > 10 {
		return hex[:10]
	}
	return hex
}
