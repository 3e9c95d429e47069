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

// eval validates the patch engine against the history of a git repository. For every modified
// file, it creates hunks from the old and the new version and checks that applying them to the old
// version reproduces the new one. Some variants first shift the old version by unrelated lines to
// exercise the offset and fuzzy search.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"runtime"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"znkr.io/patch"
	"znkr.io/patch/internal/cmd/eval/internal/git"
	"znkr.io/patch/internal/unixpatch"
	"znkr.io/patch/textpatch"
)

type config struct {
	repo     string
	sample   int
	parallel int
	shift    int
	stats    string
	validate bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.repo, "repo", "", "repository to use for evaluation")
	flag.IntVar(&cfg.sample, "sample", 0, "if >0, sample commits to the value of the flag")
	flag.IntVar(&cfg.parallel, "parallel", runtime.GOMAXPROCS(0), "number of commits to evaluate in parallel")
	flag.IntVar(&cfg.shift, "shift", 7, "number of lines to prepend for the shifted variants")
	flag.StringVar(&cfg.stats, "stats", "", "file to store stats in")
	flag.BoolVar(&cfg.validate, "validate", true, "if results should be compared with the unix patch tool")
	flag.Parse()

	if len(flag.CommandLine.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "error: unexpected command line arguments: %v\n", flag.CommandLine.Args())
		os.Exit(1)
	}

	if err := run(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type variant struct {
	name    string
	diff    []patch.Option
	apply   []patch.Option
	shifted bool
}

var variants = []variant{
	{name: "exact"},
	{name: "dmp", diff: []patch.Option{patch.DiffMatchPatch()}},
	{name: "uncollated", diff: []patch.Option{patch.Uncollated()}},
	{name: "offset", apply: []patch.Option{patch.ApplyMode(patch.Offset)}, shifted: true},
	{name: "fuzzy", apply: []patch.Option{patch.ApplyMode(patch.Fuzzy)}, shifted: true},
}

var bars = []string{
	" ",
	"▏",
	"▎",
	"▍",
	"▌",
	"▋",
	"▊",
	"▉",
	"█",
}

type note struct {
	prefix string
	msg    string
}

type result struct {
	commitID string
	file     string
	variant  string
	N, M     int
	hunks    int
	failed   int
	duration time.Duration
}

func run(cfg *config) error {
	start := time.Now()
	notes := make(chan note)
	var results chan result
	var commitsDone, evaluated atomic.Int64

	var stats *os.File
	if cfg.stats != "" {
		var err error
		stats, err = os.Create(cfg.stats)
		if err != nil {
			return fmt.Errorf("creating stats file: %v", err)
		}
		defer stats.Close()
		results = make(chan result)
	}

	repo, err := git.Open(cfg.repo)
	if err != nil {
		return fmt.Errorf("opening git repository: %v", err)
	}

	commitIDs, err := repo.RevList()
	if err != nil {
		return fmt.Errorf("reading rev-list: %v", err)
	}
	if cfg.sample > 0 && cfg.sample < len(commitIDs) {
		rand.Shuffle(len(commitIDs), func(i, j int) {
			commitIDs[i], commitIDs[j] = commitIDs[j], commitIDs[i]
		})
		commitIDs = commitIDs[:cfg.sample]
	}

	// Output
	done := make(chan struct{})
	var output errgroup.Group
	render := func() {
		const width = 60
		commits := commitsDone.Load()
		progress := float64(commits) / float64(max(1, len(commitIDs)))
		whole := int(progress * width)
		last := bars[min(len(bars)-1, int(math.Mod(progress*width, 1)*float64(len(bars))))]
		if width-whole < 1 {
			last = ""
		}
		bar := strings.Repeat(bars[len(bars)-1], whole) + last
		elapsed := time.Since(start).Seconds()
		fmt.Printf("\r[%-*s] % 3.1f%% (%.0f commits/s, %.0f evals/s) ", width, bar, 100*progress,
			float64(commits)/elapsed, float64(evaluated.Load())/elapsed)
	}
	output.Go(func() error {
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case n := <-notes:
				fmt.Printf("\r%s: %s\n", n.prefix, n.msg)
				render()
			case <-ticker.C:
				render()
			case <-done:
				render()
				fmt.Println()
				return nil
			}
		}
	})
	if results != nil {
		output.Go(func() error {
			w := bufio.NewWriter(stats)
			fmt.Fprintln(w, "commit_id,file,variant,N,M,hunks,failed,duration_ns")
			for r := range results {
				fmt.Fprintf(w, "%s,%s,%s,%d,%d,%d,%d,%d\n", r.commitID, r.file, r.variant, r.N, r.M, r.hunks, r.failed, r.duration.Nanoseconds())
			}
			return w.Flush()
		})
	}

	// Evaluation
	var g errgroup.Group
	g.SetLimit(cfg.parallel)
	for _, commitID := range commitIDs {
		g.Go(func() error {
			defer commitsDone.Add(1)
			changes, err := repo.Modified(commitID)
			if err != nil {
				notes <- note{prefix: commitID, msg: fmt.Sprintf("error processing commit: %v", err)}
				return nil
			}
			for _, c := range changes {
				e := evaluation{cfg: cfg, commitID: commitID, file: c.Name, old: c.Old, new: c.New}
				for _, v := range variants {
					r, problems := e.run(v)
					for _, p := range problems {
						notes <- note{prefix: commitID + ":" + c.Name + ":" + v.name, msg: p}
					}
					if results != nil {
						results <- r
					}
				}
				evaluated.Add(1)
			}
			return nil
		})
	}
	g.Wait() // problems are reported as notes

	if results != nil {
		close(results)
	}
	close(done)
	if err := output.Wait(); err != nil {
		return fmt.Errorf("writing stats: %v", err)
	}
	return nil
}

type evaluation struct {
	cfg      *config
	commitID string
	file     string
	old, new string
}

func (e *evaluation) run(v variant) (result, []string) {
	x, y := textpatch.Lines(e.old), textpatch.Lines(e.new)
	target, want := x, y
	if v.shifted {
		prefix := make([]string, e.cfg.shift)
		for i := range prefix {
			prefix[i] = fmt.Sprintf("# unrelated line %d inserted by eval", i)
		}
		target, want = slices.Concat(prefix, x), slices.Concat(prefix, y)
	}

	start := time.Now()
	hunks := patch.Hunks(x, y, v.diff...)
	p := patch.NewPatcher(hunks, target, v.apply...)
	if err := p.Apply(); err != nil {
		panic(err) // never reached, the patcher is new
	}
	r := result{
		commitID: e.commitID,
		file:     e.file,
		variant:  v.name,
		N:        len(x),
		M:        len(y),
		hunks:    len(hunks),
		duration: time.Since(start),
	}

	var problems []string
	for _, res := range p.Results() {
		if !res.Success {
			r.failed++
			problems = append(problems, res.Summary())
		}
	}
	if r.failed == 0 && !slices.Equal(want, p.Lines()) {
		problems = append(problems, "file is different after applying hunks")
	}

	if e.cfg.validate && !v.shifted {
		f := &patch.File{Hunks: hunks}
		patched, err := unixpatch.Patch(x, f.String())
		switch {
		case err != nil:
			problems = append(problems, fmt.Sprintf("failed to run patch: %v", err))
		case !slices.Equal(y, patched):
			problems = append(problems, "file is different after applying hunks with the unix patch tool")
		}
	}
	return r, problems
}
