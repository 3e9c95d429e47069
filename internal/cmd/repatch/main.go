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

// repatch creates and applies line based patches.
//
//	repatch diff old.txt new.txt > change.patch
//	repatch apply --mode fuzzy change.patch
//
// Applying reports how every hunk was applied. The gitdiff command can be used with git using
// GIT_EXTERNAL_DIFF through a small wrapper script that calls "repatch gitdiff $@".
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	rootCmd := &cobra.Command{
		Use:          "repatch [command]",
		Short:        "Create and apply line based patches",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newDiffCmd())
	rootCmd.AddCommand(newApplyCmd())
	rootCmd.AddCommand(newGitDiffCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
