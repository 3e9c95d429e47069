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
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestDiffCmd(t *testing.T) {
	dir := t.TempDir()
	x, y := filepath.Join(dir, "x.txt"), filepath.Join(dir, "y.txt")
	writeFile(t, x, "a\nb\nc\n")
	writeFile(t, y, "a\nB\nc\n")

	var out bytes.Buffer
	cmd := newDiffCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--auto-header", x, y})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("diff failed: %v", err)
	}
	want := "--- " + x + "\n+++ " + y + "\n@@ -1,3 +_,3 @@\n a\n-b\n+B\n c\n"
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("diff output is different [-want,+got]:\n%s", diff)
	}
}

func TestApplyRun(t *testing.T) {
	const patchText = `--- fruit.txt
+++ fruit.txt
@@ -1,3 +1,3 @@
 apples
-bananas
+blueberries
 cherries
`
	tests := []struct {
		name    string
		flags   applyFlags
		content string
		want    string
		wantErr bool
	}{
		{
			name:    "exact",
			flags:   applyFlags{mode: "exact"},
			content: "apples\nbananas\ncherries\n",
			want:    "apples\nblueberries\ncherries\n",
		},
		{
			name:    "dry-run",
			flags:   applyFlags{mode: "exact", dryRun: true},
			content: "apples\nbananas\ncherries\n",
			want:    "apples\nbananas\ncherries\n",
		},
		{
			name:    "offset",
			flags:   applyFlags{mode: "offset"},
			content: "# fruit\n\napples\nbananas\ncherries\n",
			want:    "# fruit\n\napples\nblueberries\ncherries\n",
		},
		{
			name:    "failure",
			flags:   applyFlags{mode: "exact"},
			content: "# fruit\n\napples\nbananas\ncherries\n",
			want:    "# fruit\n\napples\nbananas\ncherries\n",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, "fruit.txt"), tt.content)
			patchPath := filepath.Join(dir, "change.patch")
			writeFile(t, patchPath, patchText)

			flags := tt.flags
			flags.dir = dir
			flags.minQuality = 0.5
			flags.maxOffset = 5
			opts, err := flags.options()
			if err != nil {
				t.Fatal(err)
			}
			a := &applier{flags: flags, opts: opts, base: make(map[string][]string)}
			err = a.run(patchPath)
			if gotErr := err != nil; gotErr != tt.wantErr {
				t.Errorf("run(...) error = %v, want error: %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, readFile(t, filepath.Join(dir, "fruit.txt"))); diff != "" {
				t.Errorf("patched file is different [-want,+got]:\n%s", diff)
			}
		})
	}
}

func TestApplyRunGit(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "old.txt"), "bye\n")
	patchPath := filepath.Join(dir, "change.patch")
	writeFile(t, patchPath, `diff --git a/new.txt b/new.txt
new file mode 100644
index 0000000..ce01362
--- /dev/null
+++ b/new.txt
@@ -0,0 +1,2 @@
+hello
+world
diff --git a/old.txt b/old.txt
deleted file mode 100644
index ce01362..0000000
--- a/old.txt
+++ /dev/null
@@ -1 +0,0 @@
-bye
`)

	flags := applyFlags{mode: "exact", minQuality: 0.5, maxOffset: 5, dir: dir, git: true}
	opts, err := flags.options()
	if err != nil {
		t.Fatal(err)
	}
	a := &applier{flags: flags, opts: opts, base: make(map[string][]string)}
	if err := a.run(patchPath); err != nil {
		t.Fatalf("run(...) failed: %v", err)
	}
	if got := readFile(t, filepath.Join(dir, "new.txt")); got != "hello\nworld\n" {
		t.Errorf("new.txt = %q, want %q", got, "hello\nworld\n")
	}
	if _, err := os.Stat(filepath.Join(dir, "old.txt")); !os.IsNotExist(err) {
		t.Errorf("old.txt still exists: %v", err)
	}
}

func TestApplyFlagsInvalid(t *testing.T) {
	for _, flags := range []applyFlags{
		{mode: "sloppy"},
		{mode: "fuzzy", minQuality: 2},
	} {
		if _, err := flags.options(); err == nil {
			t.Errorf("options() for %+v didn't fail", flags)
		}
	}
}
