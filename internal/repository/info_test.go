package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfo(t *testing.T) {
	f := newFixture(t)
	f.write("a.txt", "a\n")
	first := f.commit("first")
	f.checkout("feature", true)
	f.checkout("main", false)

	_, err := f.repo.CreateTag("v1.0.0", first, nil)
	require.NoError(t, err)
	_, err = f.repo.CreateRemote(&config.RemoteConfig{Name: "origin", URLs: []string{"https://example.com/acme/app.git"}})
	require.NoError(t, err)
	require.NoError(t, f.repo.Storer.SetReference(
		plumbing.NewHashReference(plumbing.NewRemoteReferenceName("origin", "main"), first)))

	g := f.open()
	info, err := g.Info(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "main", info.CurrentBranch)
	assert.Equal(t, []string{"feature", "main", "remotes/origin/main"}, info.Branches)
	assert.Equal(t, []string{"v1.0.0"}, info.Tags)
	assert.Equal(t, []Remote{{
		Name:     "origin",
		FetchURL: "https://example.com/acme/app.git",
		PushURL:  "https://example.com/acme/app.git",
	}}, info.Remotes)
	assert.True(t, info.Status.IsClean)
	assert.Equal(t, "main", info.Status.Current)
}

func TestStatus_WorkingTreeChanges(t *testing.T) {
	f := newFixture(t)
	f.write("modified.txt", "v1\n")
	f.write("deleted.txt", "bye\n")
	f.commit("base")

	f.write("modified.txt", "v2\n")
	require.NoError(t, os.Remove(filepath.Join(f.dir, "deleted.txt")))
	f.write("untracked.txt", "new\n")
	f.write("staged.txt", "staged\n")
	_, err := f.wt.Add("staged.txt")
	require.NoError(t, err)

	g := f.open()
	status, err := g.Status(context.Background())
	require.NoError(t, err)

	assert.False(t, status.IsClean)
	assert.Equal(t, []string{"untracked.txt"}, status.NotAdded)
	assert.Equal(t, []string{"modified.txt"}, status.Modified)
	assert.Equal(t, []string{"deleted.txt"}, status.Deleted)
	assert.Equal(t, []string{"staged.txt"}, status.Created)
	assert.Equal(t, []string{"staged.txt"}, status.Staged)
	assert.Empty(t, status.Conflicted)
	assert.Empty(t, status.Tracking)
	assert.Zero(t, status.Ahead)
	assert.Zero(t, status.Behind)
}

func TestStatus_AheadBehind(t *testing.T) {
	f := newFixture(t)
	f.write("a.txt", "a\n")
	base := f.commit("base")
	f.write("a.txt", "b\n")
	f.commit("local one")
	f.write("a.txt", "c\n")
	f.commit("local two")

	// The upstream is at base plus one commit of its own.
	f.checkoutAt("upstream-work", base)
	f.write("u.txt", "u\n")
	upstream := f.commit("upstream change")
	f.checkout("main", false)

	require.NoError(t, f.repo.Storer.SetReference(
		plumbing.NewHashReference(plumbing.NewRemoteReferenceName("origin", "main"), upstream)))
	require.NoError(t, f.repo.CreateBranch(&config.Branch{
		Name:   "main",
		Remote: "origin",
		Merge:  plumbing.NewBranchReferenceName("main"),
	}))

	g := f.open()
	status, err := g.Status(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "origin/main", status.Tracking)
	assert.Equal(t, 2, status.Ahead)
	assert.Equal(t, 1, status.Behind)
}

func TestCurrentBranch_Detached(t *testing.T) {
	f := newFixture(t)
	f.write("a.txt", "a\n")
	h := f.commit("base")
	require.NoError(t, f.repo.Storer.SetReference(plumbing.NewHashReference(plumbing.HEAD, h)))

	g := f.open()
	current, err := g.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "HEAD", current)
}

func TestCurrentBranch_Unborn(t *testing.T) {
	f := newFixture(t)
	g := f.open()

	current, err := g.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "main", current)
}
