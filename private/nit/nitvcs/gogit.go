// Copyright 2026 The Nit Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package nitvcs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// GoGit is a VCS backed by go-git: a pure-Go git implementation, so the
// driver never shells out to a "git" binary.
type GoGit struct {
	repo *git.Repository
	root string
}

// Open opens the git repository containing dir (searching parent
// directories for .git, like "git rev-parse --show-toplevel").
func Open(dir string) (*GoGit, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening git repository at %s: %w", dir, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}
	root := wt.Filesystem.Root()
	return &GoGit{repo: repo, root: root}, nil
}

// TopLevel implements VCS.
func (g *GoGit) TopLevel() (string, error) {
	return g.root, nil
}

// TreeFiles implements VCS.
func (g *GoGit) TreeFiles(ctx context.Context, treeish string) ([]FileRecord, error) {
	hash, err := g.resolve(treeish)
	if err != nil {
		return nil, err
	}
	commit, err := g.repo.CommitObject(hash)
	if err != nil {
		return nil, fmt.Errorf("loading commit %s: %w", treeish, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("loading tree for %s: %w", treeish, err)
	}

	var records []FileRecord
	walker := object.NewTreeWalker(tree, true, nil)
	defer walker.Close()
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name, entry, err := walker.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("walking tree: %w", err)
		}
		if entry.Mode == filemode.Dir || entry.Mode == filemode.Submodule {
			continue
		}
		mode, content, err := g.entryModeAndContent(entry)
		if err != nil {
			return nil, err
		}
		records = append(records, ClassifyFile([]byte(name), mode, content))
	}
	return records, nil
}

// StagedFiles implements VCS.
func (g *GoGit) StagedFiles(ctx context.Context) ([]FileRecord, error) {
	wt, err := g.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}
	idx, err := g.repo.Storer.Index()
	if err != nil {
		return nil, fmt.Errorf("reading index: %w", err)
	}

	var records []FileRecord
	for _, entry := range idx.Entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		mode := modeString(entry.Mode)
		var content []byte
		if mode != ModeSymlink {
			content, err = readBlob(g.repo, entry.Hash)
			if err != nil {
				return nil, err
			}
		}
		records = append(records, ClassifyFile([]byte(entry.Name), mode, content))
	}
	_ = wt
	return records, nil
}

// DiffUnstaged implements VCS. It produces a deterministic byte string by
// concatenating a per-path unified-ish diff (HEAD blob vs working copy) for
// every path go-git's Status reports as modified in the worktree. Nothing
// downstream parses this format; only byte-equality across two calls
// matters.
func (g *GoGit) DiffUnstaged(ctx context.Context) ([]byte, error) {
	wt, err := g.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("getting worktree status: %w", err)
	}

	paths := make([]string, 0, len(status))
	for path, s := range status {
		if s.Worktree == git.Unmodified {
			continue
		}
		paths = append(paths, path)
	}
	sort.Strings(paths)

	head, err := g.repo.Head()
	var headTree *object.Tree
	if err == nil {
		commit, cErr := g.repo.CommitObject(head.Hash())
		if cErr == nil {
			headTree, _ = commit.Tree()
		}
	}

	dmp := diffmatchpatch.New()
	var buf bytes.Buffer
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var before string
		if headTree != nil {
			if f, ferr := headTree.File(path); ferr == nil {
				before, _ = f.Contents()
			}
		}
		after, _ := os.ReadFile(filepath.Join(g.root, path))

		fmt.Fprintf(&buf, "--- a/%s\n+++ b/%s\n", path, path)
		diffs := dmp.DiffMain(before, string(after), false)
		buf.WriteString(dmp.DiffPrettyText(diffs))
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func (g *GoGit) resolve(treeish string) (plumbing.Hash, error) {
	if treeish == "" || treeish == "HEAD" {
		head, err := g.repo.Head()
		if err != nil {
			return plumbing.ZeroHash, fmt.Errorf("resolving HEAD: %w", err)
		}
		return head.Hash(), nil
	}
	hash, err := g.repo.ResolveRevision(plumbing.Revision(treeish))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolving %s: %w", treeish, err)
	}
	return *hash, nil
}

func (g *GoGit) entryModeAndContent(entry object.TreeEntry) (string, []byte, error) {
	mode := modeString(entry.Mode)
	if mode == ModeSymlink {
		return mode, nil, nil
	}
	content, err := readBlob(g.repo, entry.Hash)
	if err != nil {
		return "", nil, err
	}
	return mode, content, nil
}

func readBlob(repo *git.Repository, hash plumbing.Hash) ([]byte, error) {
	blob, err := repo.BlobObject(hash)
	if err != nil {
		return nil, fmt.Errorf("loading blob %s: %w", hash, err)
	}
	r, err := blob.Reader()
	if err != nil {
		return nil, fmt.Errorf("reading blob %s: %w", hash, err)
	}
	defer r.Close()
	// Only the first 8000 bytes matter for classification, but callers
	// (shebang extraction) need the first line too, so read it all; blobs
	// under lint are source files, not multi-gigabyte binaries.
	return io.ReadAll(r)
}

func modeString(mode filemode.FileMode) string {
	switch mode {
	case filemode.Symlink:
		return ModeSymlink
	case filemode.Executable:
		return ModeExecutable
	default:
		return "100644"
	}
}
