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

// Package git reads commits and file contents of a local repository for evaluations.
package git

import (
	"fmt"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"
)

// Repo is a git repository on disk. Repo is safe for concurrent use.
type Repo struct {
	mu   sync.Mutex // object storage isn't safe for concurrent use
	repo *git.Repository
}

// Open opens the repository in dir.
func Open(dir string) (*Repo, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	return &Repo{repo: repo}, nil
}

// RevList returns the ids of all commits reachable from HEAD that have exactly one parent, newest
// first.
func (r *Repo) RevList() ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	head, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}
	iter, err := r.repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	var ids []string
	err = iter.ForEach(func(c *object.Commit) error {
		if c.NumParents() == 1 {
			ids = append(ids, c.Hash.String())
		}
		return nil
	})
	return ids, err
}

// Change is a text file modified by a commit.
type Change struct {
	Name     string
	Old, New string
}

// Modified returns the text files modified by commit. Added and deleted files are left out,
// because they have nothing to patch.
func (r *Repo) Modified(commit string) ([]Change, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, err := r.repo.CommitObject(plumbing.NewHash(commit))
	if err != nil {
		return nil, fmt.Errorf("get commit object: %w", err)
	}
	parent, err := c.Parent(0)
	if err != nil {
		return nil, fmt.Errorf("get parent: %w", err)
	}
	from, err := parent.Tree()
	if err != nil {
		return nil, fmt.Errorf("get tree: %w", err)
	}
	to, err := c.Tree()
	if err != nil {
		return nil, fmt.Errorf("get tree: %w", err)
	}
	diff, err := object.DiffTree(from, to)
	if err != nil {
		return nil, fmt.Errorf("diff trees: %w", err)
	}

	var changes []Change
	for _, d := range diff {
		action, err := d.Action()
		if err != nil {
			return nil, err
		}
		if action != merkletrie.Modify {
			continue
		}
		f1, f2, err := d.Files()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.To.Name, err)
		}
		if bin, err := f1.IsBinary(); err != nil || bin {
			continue
		}
		if bin, err := f2.IsBinary(); err != nil || bin {
			continue
		}
		old, err := f1.Contents()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.From.Name, err)
		}
		new, err := f2.Contents()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.To.Name, err)
		}
		changes = append(changes, Change{Name: d.To.Name, Old: old, New: new})
	}
	return changes, nil
}
