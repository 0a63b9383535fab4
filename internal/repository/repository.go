package repository

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"workspacebridge/internal/filemanager"
	"workspacebridge/internal/logging"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

var (
	ErrNotAGitRepository = errors.New("not a git repository")
	ErrFileNotFound      = errors.New("file not found")
	ErrCommitNotFound    = errors.New("commit not found")
	ErrRevisionNotFound  = errors.New("unknown revision")
)

// GitRepository is an opened repository plus the project directory it was
// opened from.
type GitRepository struct {
	repo   *git.Repository
	dir    string
	prefix string // slash-separated project dir relative to the worktree root; "" at the root
	files  *filemanager.FileManager
	logger *logging.AppLogger
}

// Open finds the repository containing dir.
func Open(dir string, logger *logging.AppLogger) (*GitRepository, error) {
	if logger == nil {
		logger = logging.GetDefault()
	}

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotAGitRepository, dir)
		}
		return nil, fmt.Errorf("failed to open repository at %s: %w", dir, err)
	}

	files, err := filemanager.New(dir, logger)
	if err != nil {
		return nil, err
	}

	g := &GitRepository{repo: repo, dir: dir, files: files, logger: logger}

	if wt, err := repo.Worktree(); err == nil {
		g.prefix = worktreePrefix(wt.Filesystem.Root(), dir)
	} else if !errors.Is(err, git.ErrIsBareRepository) {
		return nil, fmt.Errorf("failed to read worktree: %w", err)
	}

	logger.Debug("Opened repository", "dir", dir, "prefix", g.prefix)
	return g, nil
}

// worktreePrefix returns dir relative to root in slash form, resolving
// symlinks on both sides so /tmp and /private/tmp style aliases agree.
func worktreePrefix(root, dir string) string {
	if r, err := filepath.EvalSymlinks(root); err == nil {
		root = r
	}
	if d, err := filepath.EvalSymlinks(dir); err == nil {
		dir = d
	}
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return ""
	}
	return filepath.ToSlash(rel)
}

// Dir returns the directory the repository was opened from.
func (g *GitRepository) Dir() string {
	return g.dir
}

// repoPath maps a project-relative file name to a path in the repository tree.
func (g *GitRepository) repoPath(file string) string {
	if filepath.IsAbs(file) {
		if rel, err := filepath.Rel(g.dir, file); err == nil {
			file = rel
		}
	}
	p := path.Clean(filepath.ToSlash(file))
	if g.prefix != "" {
		p = path.Join(g.prefix, p)
	}
	return strings.TrimPrefix(p, "./")
}

// resolve turns a branch, tag, or (short) hash into a commit hash.
func (g *GitRepository) resolve(rev string) (plumbing.Hash, error) {
	h, err := g.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("%w %q: %v", ErrRevisionNotFound, rev, err)
	}
	return *h, nil
}

// Commit looks up a single commit by hash, abbreviated hash, or revision.
func (g *GitRepository) Commit(rev string) (*object.Commit, error) {
	rev = strings.TrimSpace(rev)
	if rev == "" {
		return nil, fmt.Errorf("%w: empty commit hash", ErrCommitNotFound)
	}

	h, err := g.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCommitNotFound, rev)
	}

	c, err := g.repo.CommitObject(*h)
	if err != nil {
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCommitNotFound, rev)
		}
		return nil, fmt.Errorf("failed to read commit %s: %w", rev, err)
	}
	return c, nil
}

// Commit is the JSON shape of one history entry.
type Commit struct {
	Hash        string `json:"hash"`
	AuthorName  string `json:"authorName"`
	AuthorEmail string `json:"authorEmail"`
	Date        string `json:"date"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
}

func newCommit(c *object.Commit) Commit {
	subject, body := splitMessage(c.Message)
	return Commit{
		Hash:        c.Hash.String(),
		AuthorName:  c.Author.Name,
		AuthorEmail: c.Author.Email,
		Date:        c.Author.When.Format(timeLayout),
		Subject:     subject,
		Body:        body,
	}
}

// splitMessage separates the first line of a commit message from the rest.
func splitMessage(msg string) (string, string) {
	msg = strings.TrimRight(msg, "\n")
	subject, body, _ := strings.Cut(msg, "\n")
	return strings.TrimSpace(subject), strings.TrimSpace(body)
}

// ancestors collects every commit reachable from h, including h.
func (g *GitRepository) ancestors(ctx context.Context, h plumbing.Hash) (map[plumbing.Hash]struct{}, error) {
	c, err := g.repo.CommitObject(h)
	if err != nil {
		return nil, err
	}

	seen := make(map[plumbing.Hash]struct{})
	iter := object.NewCommitPreorderIter(c, nil, nil)
	defer iter.Close()

	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		seen[c.Hash] = struct{}{}
		return nil
	})
	return seen, err
}

// parentTree returns the tree of the first parent, or an empty tree for a
// root commit.
func parentTree(c *object.Commit) (*object.Tree, error) {
	if c.NumParents() == 0 {
		return &object.Tree{}, nil
	}
	parent, err := c.Parent(0)
	if err != nil {
		return nil, err
	}
	return parent.Tree()
}
