// Package benchmarks compares applying patches to a modified file with other libraries.
package benchmarks

import (
	"github.com/sergi/go-diff/diffmatchpatch"
	"znkr.io/patch"
	"znkr.io/patch/textpatch"
)

// Impl creates a patch from base to patched once and returns a function applying it to target.
// The returned function reports the number of changes that failed to apply.
type Impl struct {
	Name    string
	Prepare func(base, patched string) func(target string) (string, int)
}

var Impls = []Impl{
	{
		Name:    "znkr-exact",
		Prepare: znkr(patch.ApplyMode(patch.Exact)),
	},
	{
		Name:    "znkr-offset",
		Prepare: znkr(patch.ApplyMode(patch.Offset)),
	},
	{
		Name:    "znkr-fuzzy",
		Prepare: znkr(patch.ApplyMode(patch.Fuzzy)),
	},
	{
		Name: "diffmatchpatch",
		Prepare: func(base, patched string) func(string) (string, int) {
			// Character based patches with fuzzy matching.
			dmp := diffmatchpatch.New()
			patches := dmp.PatchMake(base, patched)
			return func(target string) (string, int) {
				out, applied := dmp.PatchApply(patches, target)
				failed := 0
				for _, ok := range applied {
					if !ok {
						failed++
					}
				}
				return out, failed
			}
		},
	},
}

func znkr(opts ...patch.Option) func(base, patched string) func(string) (string, int) {
	return func(base, patched string) func(string) (string, int) {
		hunks := patch.Hunks(textpatch.Lines(base), textpatch.Lines(patched))
		return func(target string) (string, int) {
			p := patch.NewPatcher(hunks, textpatch.Lines(target), opts...)
			if err := p.Apply(); err != nil {
				panic(err)
			}
			failed := 0
			for _, r := range p.Results() {
				if !r.Success {
					failed++
				}
			}
			return textpatch.Join(p.Lines(), "\n"), failed
		}
	}
}
