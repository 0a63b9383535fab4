package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Remote is one configured remote. Push uses the fetch URL; go-git does not
// model a separate pushurl.
type Remote struct {
	Name     string `json:"name"`
	FetchURL string `json:"fetchUrl"`
	PushURL  string `json:"pushUrl"`
}

// WorkingTreeStatus summarises uncommitted changes and upstream divergence.
// Paths are relative to the repository root.
type WorkingTreeStatus struct {
	Current    string   `json:"current"`
	Tracking   string   `json:"tracking"`
	Ahead      int      `json:"ahead"`
	Behind     int      `json:"behind"`
	NotAdded   []string `json:"notAdded"`
	Conflicted []string `json:"conflicted"`
	Created    []string `json:"created"`
	Deleted    []string `json:"deleted"`
	Modified   []string `json:"modified"`
	Renamed    []string `json:"renamed"`
	Staged     []string `json:"staged"`
	IsClean    bool     `json:"isClean"`
}

// RepositoryInfo is the aggregate returned by getRepositoryInfo.
type RepositoryInfo struct {
	CurrentBranch string            `json:"currentBranch"`
	Branches      []string          `json:"branches"`
	Remotes       []Remote          `json:"remotes"`
	Tags          []string          `json:"tags"`
	Status        WorkingTreeStatus `json:"status"`
}

// Info gathers branch, remote, tag and status information in one call.
func (g *GitRepository) Info(ctx context.Context) (*RepositoryInfo, error) {
	current, err := g.CurrentBranch()
	if err != nil {
		return nil, err
	}
	branches, err := g.Branches()
	if err != nil {
		return nil, err
	}
	remotes, err := g.Remotes()
	if err != nil {
		return nil, err
	}
	tags, err := g.Tags()
	if err != nil {
		return nil, err
	}
	status, err := g.Status(ctx)
	if err != nil {
		return nil, err
	}

	return &RepositoryInfo{
		CurrentBranch: current,
		Branches:      branches,
		Remotes:       remotes,
		Tags:          tags,
		Status:        *status,
	}, nil
}

// CurrentBranch returns the short name of the checked-out branch, "HEAD"
// when detached. An unborn branch (no commits yet) still reports its name.
func (g *GitRepository) CurrentBranch() (string, error) {
	ref, err := g.repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD: %w", err)
	}
	if ref.Type() == plumbing.SymbolicReference {
		return ref.Target().Short(), nil
	}
	return "HEAD", nil
}

// Branches lists local branches followed by remote-tracking branches
// (prefixed "remotes/"), each group sorted.
func (g *GitRepository) Branches() ([]string, error) {
	refs, err := g.repo.References()
	if err != nil {
		return nil, fmt.Errorf("failed to list references: %w", err)
	}
	defer refs.Close()

	var local, remote []string
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name()
		switch {
		case name.IsBranch():
			local = append(local, name.Short())
		case name.IsRemote():
			if ref.Type() == plumbing.SymbolicReference {
				return nil // origin/HEAD
			}
			remote = append(remote, "remotes/"+name.Short())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}

	sort.Strings(local)
	sort.Strings(remote)
	return append(append(make([]string, 0, len(local)+len(remote)), local...), remote...), nil
}

// Tags lists tag names, sorted.
func (g *GitRepository) Tags() ([]string, error) {
	iter, err := g.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer iter.Close()

	tags := make([]string, 0)
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		tags = append(tags, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	sort.Strings(tags)
	return tags, nil
}

// Remotes lists configured remotes, sorted by name.
func (g *GitRepository) Remotes() ([]Remote, error) {
	list, err := g.repo.Remotes()
	if err != nil {
		return nil, fmt.Errorf("failed to list remotes: %w", err)
	}

	remotes := make([]Remote, 0, len(list))
	for _, r := range list {
		cfg := r.Config()
		var url string
		if len(cfg.URLs) > 0 {
			url = cfg.URLs[0]
		}
		remotes = append(remotes, Remote{Name: cfg.Name, FetchURL: url, PushURL: url})
	}
	sort.Slice(remotes, func(i, j int) bool { return remotes[i].Name < remotes[j].Name })
	return remotes, nil
}

// Status inspects the working tree and, when the current branch has an
// upstream configured, counts commits ahead of and behind it.
func (g *GitRepository) Status(ctx context.Context) (*WorkingTreeStatus, error) {
	wt, err := g.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to read worktree: %w", err)
	}
	st, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to read status: %w", err)
	}

	out := &WorkingTreeStatus{
		NotAdded:   []string{},
		Conflicted: []string{},
		Created:    []string{},
		Deleted:    []string{},
		Modified:   []string{},
		Renamed:    []string{},
		Staged:     []string{},
		IsClean:    st.IsClean(),
	}

	paths := make([]string, 0, len(st))
	for p := range st {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		fs := st[p]
		x, y := fs.Staging, fs.Worktree

		switch {
		case x == git.Untracked || y == git.Untracked:
			out.NotAdded = append(out.NotAdded, p)
			continue
		case x == git.UpdatedButUnmerged || y == git.UpdatedButUnmerged:
			out.Conflicted = append(out.Conflicted, p)
			continue
		}

		if x == git.Added {
			out.Created = append(out.Created, p)
		}
		if x == git.Deleted || y == git.Deleted {
			out.Deleted = append(out.Deleted, p)
		}
		if x == git.Modified || y == git.Modified {
			out.Modified = append(out.Modified, p)
		}
		if x == git.Renamed || y == git.Renamed {
			if fs.Extra != "" {
				out.Renamed = append(out.Renamed, fs.Extra+" -> "+p)
			} else {
				out.Renamed = append(out.Renamed, p)
			}
		}
		switch x {
		case git.Added, git.Modified, git.Deleted, git.Renamed, git.Copied:
			out.Staged = append(out.Staged, p)
		}
	}

	current, err := g.CurrentBranch()
	if err != nil {
		return nil, err
	}
	out.Current = current

	if err := g.fillTracking(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *GitRepository) fillTracking(ctx context.Context, out *WorkingTreeStatus) error {
	if out.Current == "" || out.Current == "HEAD" {
		return nil
	}

	branch, err := g.repo.Branch(out.Current)
	if err != nil {
		if errors.Is(err, git.ErrBranchNotFound) {
			return nil
		}
		return fmt.Errorf("failed to read branch config: %w", err)
	}
	if branch.Remote == "" || branch.Merge == "" {
		return nil
	}

	upstream := branch.Remote + "/" + branch.Merge.Short()
	out.Tracking = upstream

	remoteRef, err := g.repo.Reference(plumbing.NewRemoteReferenceName(branch.Remote, branch.Merge.Short()), true)
	if err != nil {
		// Configured but never fetched.
		return nil
	}
	head, err := g.repo.Head()
	if err != nil {
		return nil
	}

	ahead, behind, err := g.divergence(ctx, head.Hash(), remoteRef.Hash())
	if err != nil {
		return fmt.Errorf("failed to compare with %s: %w", upstream, err)
	}
	out.Ahead, out.Behind = ahead, behind
	return nil
}

// divergence counts commits reachable from local but not upstream, and the
// reverse.
func (g *GitRepository) divergence(ctx context.Context, local, upstream plumbing.Hash) (int, int, error) {
	if local == upstream {
		return 0, 0, nil
	}
	localSet, err := g.ancestors(ctx, local)
	if err != nil {
		return 0, 0, err
	}
	upstreamSet, err := g.ancestors(ctx, upstream)
	if err != nil {
		return 0, 0, err
	}

	var ahead, behind int
	for h := range localSet {
		if _, ok := upstreamSet[h]; !ok {
			ahead++
		}
	}
	for h := range upstreamSet {
		if _, ok := localSet[h]; !ok {
			behind++
		}
	}
	return ahead, behind, nil
}
