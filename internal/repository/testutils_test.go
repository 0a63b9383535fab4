package repository

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"workspacebridge/internal/logging"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// fixture builds a throwaway repository with a deterministic clock: every
// commit is one hour after the previous one.
type fixture struct {
	t     *testing.T
	dir   string
	repo  *git.Repository
	wt    *git.Worktree
	clock time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInitWithOptions(dir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName("main")},
	})
	if err != nil {
		t.Fatalf("failed to init repository: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("failed to get worktree: %v", err)
	}

	return &fixture{
		t:     t,
		dir:   dir,
		repo:  repo,
		wt:    wt,
		clock: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (f *fixture) write(name, content string) {
	f.t.Helper()
	path := filepath.Join(f.dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		f.t.Fatalf("failed to create dirs for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		f.t.Fatalf("failed to write %s: %v", name, err)
	}
}

func (f *fixture) commit(msg string) plumbing.Hash {
	f.t.Helper()
	return f.commitAs("Ada Lovelace", "ada@example.com", msg)
}

func (f *fixture) commitAs(name, email, msg string) plumbing.Hash {
	f.t.Helper()
	if err := f.wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		f.t.Fatalf("failed to stage: %v", err)
	}
	f.clock = f.clock.Add(time.Hour)
	h, err := f.wt.Commit(msg, &git.CommitOptions{
		Author:            &object.Signature{Name: name, Email: email, When: f.clock},
		AllowEmptyCommits: true,
	})
	if err != nil {
		f.t.Fatalf("failed to commit %q: %v", msg, err)
	}
	return h
}

// merge commits the worktree on top of HEAD with other as second parent.
func (f *fixture) merge(msg string, other plumbing.Hash) plumbing.Hash {
	f.t.Helper()
	head, err := f.repo.Head()
	if err != nil {
		f.t.Fatalf("failed to resolve HEAD: %v", err)
	}
	if err := f.wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		f.t.Fatalf("failed to stage: %v", err)
	}
	f.clock = f.clock.Add(time.Hour)
	h, err := f.wt.Commit(msg, &git.CommitOptions{
		Author:  &object.Signature{Name: "Ada Lovelace", Email: "ada@example.com", When: f.clock},
		Parents: []plumbing.Hash{head.Hash(), other},
	})
	if err != nil {
		f.t.Fatalf("failed to commit %q: %v", msg, err)
	}
	return h
}

// checkout switches to branch, creating it at HEAD when create is set.
func (f *fixture) checkout(branch string, create bool) {
	f.t.Helper()
	err := f.wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
		Create: create,
	})
	if err != nil {
		f.t.Fatalf("failed to checkout %s: %v", branch, err)
	}
}

// checkoutAt creates branch at h and switches to it.
func (f *fixture) checkoutAt(branch string, h plumbing.Hash) {
	f.t.Helper()
	err := f.wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
		Hash:   h,
		Create: true,
	})
	if err != nil {
		f.t.Fatalf("failed to checkout %s at %s: %v", branch, h, err)
	}
}

func (f *fixture) open() *GitRepository {
	f.t.Helper()
	return f.openAt(f.dir)
}

func (f *fixture) openAt(dir string) *GitRepository {
	f.t.Helper()
	logger, _ := logging.NewTestLogger()
	g, err := Open(dir, logger)
	if err != nil {
		f.t.Fatalf("failed to open repository at %s: %v", dir, err)
	}
	return g
}

func subjects(commits []Commit) []string {
	out := make([]string, 0, len(commits))
	for _, c := range commits {
		out = append(out, c.Subject)
	}
	return out
}
