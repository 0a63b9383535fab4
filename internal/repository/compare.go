package repository

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Comparison is what compare has that base does not, plus a diffstat
// between the two tips.
type Comparison struct {
	Commits  []Commit `json:"commits"`
	DiffStat string   `json:"diffStat"`
}

// Compare reports the commits reachable from compare but not from base
// (git log base..compare) and the diffstat of base against compare.
func (g *GitRepository) Compare(ctx context.Context, base, compare string) (*Comparison, error) {
	baseHash, err := g.resolve(base)
	if err != nil {
		return nil, err
	}
	compareHash, err := g.resolve(compare)
	if err != nil {
		return nil, err
	}

	commits, err := g.CommitsBetween(ctx, baseHash, compareHash)
	if err != nil {
		return nil, err
	}
	stat, err := g.DiffStat(ctx, baseHash, compareHash)
	if err != nil {
		return nil, err
	}

	return &Comparison{Commits: commits, DiffStat: stat}, nil
}

// CommitsBetween returns commits reachable from to but not from from,
// newest first.
func (g *GitRepository) CommitsBetween(ctx context.Context, from, to plumbing.Hash) ([]Commit, error) {
	exclude, err := g.ancestors(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", from, err)
	}

	iter, err := g.repo.Log(&git.LogOptions{From: to, Order: git.LogOrderCommitterTime})
	if err != nil {
		return nil, fmt.Errorf("failed to read log: %w", err)
	}
	defer iter.Close()

	commits := make([]Commit, 0)
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, ok := exclude[c.Hash]; ok {
			return nil
		}
		commits = append(commits, newCommit(c))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk log: %w", err)
	}
	return commits, nil
}

// DiffStat renders the per-file change summary between the trees of two
// commits.
func (g *GitRepository) DiffStat(ctx context.Context, from, to plumbing.Hash) (string, error) {
	fromTree, err := g.treeOf(from)
	if err != nil {
		return "", err
	}
	toTree, err := g.treeOf(to)
	if err != nil {
		return "", err
	}

	patch, err := fromTree.PatchContext(ctx, toTree)
	if err != nil {
		return "", fmt.Errorf("failed to diff %s..%s: %w", from, to, err)
	}
	return formatStats(patch.Stats()), nil
}

func (g *GitRepository) treeOf(h plumbing.Hash) (*object.Tree, error) {
	c, err := g.repo.CommitObject(h)
	if err != nil {
		return nil, fmt.Errorf("failed to read commit %s: %w", h, err)
	}
	t, err := c.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to read tree of %s: %w", h, err)
	}
	return t, nil
}
