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

// Package unixpatch provides a simple wrapper around the unix patch tool.
//
// This package is only for testing.
package unixpatch

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Patch applies a patch in hunk file format to lines using the unix patch tool. Hunks must apply
// at their exact position. Path lines are added if the patch doesn't have them.
func Patch(lines []string, hunks string) ([]string, error) {
	// Using patch with an empty diff will not create an output file.
	if len(hunks) == 0 {
		return lines, nil
	}
	if !strings.HasPrefix(hunks, "--- ") {
		hunks = "--- orig\n+++ out\n" + hunks
	}

	dir, err := os.MkdirTemp("", "patch-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary directory: %v", err)
	}
	defer os.RemoveAll(dir)

	patchfile := filepath.Join(dir, "patch")
	origfile := filepath.Join(dir, "orig")
	outfile := filepath.Join(dir, "out")

	var orig strings.Builder
	for _, l := range lines {
		orig.WriteString(l)
		orig.WriteByte('\n')
	}

	if err := os.WriteFile(patchfile, []byte(hunks), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write patch file: %v", err)
	}
	if err := os.WriteFile(origfile, []byte(orig.String()), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write orig file: %v", err)
	}

	cmd := exec.Command("patch", "-u", "-F", "0", "-i", patchfile, "-o", outfile, origfile)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("failed to run patch command: patch %s: %v\n%s", strings.Join(cmd.Args, " "), err, out)
	}

	out, err := os.ReadFile(outfile)
	if err != nil {
		return nil, fmt.Errorf("failed to read outfile: %v", err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return strings.Split(strings.TrimSuffix(string(out), "\n"), "\n"), nil
}
