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
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"znkr.io/patch"
	"znkr.io/patch/gitpatch"
	"znkr.io/patch/textpatch"
)

type applyFlags struct {
	mode       string
	minQuality float64
	maxOffset  int
	dir        string
	git        bool
	noVerify   bool
	dryRun     bool
	watch      bool
}

func (f *applyFlags) options() ([]patch.Option, error) {
	var mode patch.Mode
	switch f.mode {
	case "exact":
		mode = patch.Exact
	case "offset":
		mode = patch.Offset
	case "fuzzy":
		mode = patch.Fuzzy
	default:
		return nil, fmt.Errorf("unknown mode %q, expected exact, offset or fuzzy", f.mode)
	}
	if f.minQuality < 0 || f.minQuality > 1 {
		return nil, fmt.Errorf("min-quality must be in [0, 1], got %v", f.minQuality)
	}
	return []patch.Option{
		patch.ApplyMode(mode),
		patch.MinQuality(f.minQuality),
		patch.MaxOffset(f.maxOffset),
	}, nil
}

func newApplyCmd() *cobra.Command {
	var flags applyFlags
	cmd := &cobra.Command{
		Use:   "apply PATCH",
		Short: "Apply a patch to the files it names",
		Long: `Apply a patch to the files it names.

The base file is read from the base path of the patch and the result is written to the patched
path, both relative to --dir. With --watch, the patch is applied again whenever it changes. The
base files are only read once.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			a := &applier{
				flags: flags,
				opts:  opts,
				base:  make(map[string][]string),
			}
			if !flags.watch {
				return a.run(args[0])
			}
			return a.watch(args[0])
		},
	}
	cmd.Flags().StringVar(&flags.mode, "mode", "exact", "how hard to search for hunks: exact, offset or fuzzy")
	cmd.Flags().Float64Var(&flags.minQuality, "min-quality", 0.5, "minimum quality of fuzzy matches")
	cmd.Flags().IntVar(&flags.maxOffset, "max-offset", 5, "maximum drift of a single line in fuzzy matches")
	cmd.Flags().StringVarP(&flags.dir, "dir", "d", "", "directory the paths in the patch are relative to")
	cmd.Flags().BoolVar(&flags.git, "git", false, "read a git or unified diff instead of a hunk file")
	cmd.Flags().BoolVar(&flags.noVerify, "no-verify", false, "don't verify hunk headers")
	cmd.Flags().BoolVarP(&flags.dryRun, "dry-run", "n", false, "report results without writing files")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "apply again whenever the patch changes")
	return cmd
}

// applier applies patch files to the files they name.
type applier struct {
	flags applyFlags
	opts  []patch.Option
	base  map[string][]string // base lines by path
}

// filePatcher applies a single file of a patch.
type filePatcher struct {
	file    *patch.File
	dir     string
	lines   []string
	results []patch.Result
}

func (fp *filePatcher) basePath() string    { return filepath.Join(fp.dir, fp.file.BasePath) }
func (fp *filePatcher) patchedPath() string { return filepath.Join(fp.dir, fp.file.PatchedPath) }

func (fp *filePatcher) patch(base []string, opts []patch.Option) {
	p := patch.NewPatcher(fp.file.Hunks, base, opts...)
	if err := p.Apply(); err != nil {
		panic(err) // never reached, the patcher is new
	}
	fp.lines = p.Lines()
	fp.results = p.Results()
}

func (fp *filePatcher) save() error {
	if fp.file.PatchedPath == "" || fp.file.PatchedPath == devNull {
		return os.Remove(fp.basePath())
	}
	if err := os.MkdirAll(filepath.Dir(fp.patchedPath()), 0o755); err != nil {
		return err
	}
	return os.WriteFile(fp.patchedPath(), []byte(textpatch.Join(fp.lines, "\n")), 0o644)
}

func (a *applier) load(path string) ([]*filePatcher, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading patch: %v", err)
	}

	var files []*patch.File
	if a.flags.git {
		files, err = gitpatch.Parse(bytes.NewReader(data))
	} else {
		var f *patch.File
		var opts []patch.Option
		if a.flags.noVerify {
			opts = append(opts, patch.NoVerify())
		}
		f, err = patch.Parse(string(data), opts...)
		files = []*patch.File{f}
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	fps := make([]*filePatcher, 0, len(files))
	for _, f := range files {
		if f.BasePath == "" && f.PatchedPath == "" {
			return nil, fmt.Errorf("%s: patch doesn't name any files", path)
		}
		fps = append(fps, &filePatcher{file: f, dir: a.flags.dir})
	}
	return fps, nil
}

// baseLines returns the lines of the base file, reading it on first use.
func (a *applier) baseLines(fp *filePatcher) ([]string, error) {
	if fp.file.BasePath == "" || fp.file.BasePath == devNull {
		return nil, nil
	}
	path := fp.basePath()
	if lines, ok := a.base[path]; ok {
		return lines, nil
	}
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}
	a.base[path] = lines
	return lines, nil
}

// run applies the patch once. It returns an error if any hunk failed.
func (a *applier) run(path string) error {
	fps, err := a.load(path)
	if err != nil {
		return err
	}
	var failed, total int
	for _, fp := range fps {
		base, err := a.baseLines(fp)
		if err != nil {
			return err
		}
		fp.patch(base, a.opts)
		for _, r := range fp.results {
			total++
			if !r.Success {
				failed++
			}
			log.Printf("%s: %s", fp.patchedPath(), r.Summary())
		}
		if a.flags.dryRun {
			continue
		}
		if err := fp.save(); err != nil {
			return fmt.Errorf("writing %s: %v", fp.patchedPath(), err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d hunks failed", failed, total)
	}
	return nil
}

// watch applies the patch whenever it changes until interrupted.
func (a *applier) watch(path string) error {
	path = filepath.Clean(path)
	if err := a.run(path); err != nil {
		log.Printf("failed to apply patch: %v", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %v", err)
	}
	defer watcher.Close()
	// Watch the directory, editors tend to replace files instead of writing them.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("starting watch: %v", err)
	}
	log.Printf("Watching %s, press Ctrl-C to stop", path)

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt)

	for {
		select {
		case event := <-watcher.Events:
			if filepath.Clean(event.Name) != path || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := a.run(path); err != nil {
				log.Printf("failed to apply patch: %v", err)
				continue
			}
			log.Printf("Patch applied")
		case err := <-watcher.Errors:
			return fmt.Errorf("watching: %v", err)
		case <-sigint:
			fmt.Print("\r") // remove Ctrl-C output characters
			log.Printf("Received Ctrl-C, shutting down")
			return nil
		}
	}
}
