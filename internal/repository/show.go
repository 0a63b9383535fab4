package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/object"
)

// CommitDetails is a commit together with its patch and file statistics.
type CommitDetails struct {
	Commit Commit `json:"commit"`
	Diff   string `json:"diff"`
	Stats  string `json:"stats"`
}

// Details returns everything getCommitDetails reports for rev.
func (g *GitRepository) Details(ctx context.Context, rev string) (*CommitDetails, error) {
	c, err := g.Commit(rev)
	if err != nil {
		return nil, err
	}

	patch, err := commitPatch(ctx, c)
	if err != nil {
		return nil, err
	}

	return &CommitDetails{
		Commit: newCommit(c),
		Diff:   c.String() + "\n" + patch.String(),
		Stats:  formatStats(patch.Stats()),
	}, nil
}

// Show renders rev the way `git show` does: header, indented message, patch
// against the first parent.
func (g *GitRepository) Show(ctx context.Context, rev string) (string, error) {
	c, err := g.Commit(rev)
	if err != nil {
		return "", err
	}
	patch, err := commitPatch(ctx, c)
	if err != nil {
		return "", err
	}
	return c.String() + "\n" + patch.String(), nil
}

// ShowStat renders the per-file change counts of rev plus a summary line.
func (g *GitRepository) ShowStat(ctx context.Context, rev string) (string, error) {
	c, err := g.Commit(rev)
	if err != nil {
		return "", err
	}
	stats, err := c.StatsContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to compute stats for %s: %w", rev, err)
	}
	return formatStats(stats), nil
}

func commitPatch(ctx context.Context, c *object.Commit) (*object.Patch, error) {
	from, err := parentTree(c)
	if err != nil {
		return nil, fmt.Errorf("failed to read parent of %s: %w", c.Hash, err)
	}
	to, err := c.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to read tree of %s: %w", c.Hash, err)
	}
	patch, err := from.PatchContext(ctx, to)
	if err != nil {
		return nil, fmt.Errorf("failed to diff %s: %w", c.Hash, err)
	}
	return patch, nil
}

// formatStats appends git's "N files changed" summary to go-git's stat table.
func formatStats(stats object.FileStats) string {
	if len(stats) == 0 {
		return ""
	}

	var adds, dels int
	for _, s := range stats {
		adds += s.Addition
		dels += s.Deletion
	}

	var b strings.Builder
	b.WriteString(stats.String())
	fmt.Fprintf(&b, " %d %s changed", len(stats), plural(len(stats), "file", "files"))
	if adds > 0 {
		fmt.Fprintf(&b, ", %d %s(+)", adds, plural(adds, "insertion", "insertions"))
	}
	if dels > 0 {
		fmt.Fprintf(&b, ", %d %s(-)", dels, plural(dels, "deletion", "deletions"))
	}
	b.WriteString("\n")
	return b.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
