package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// LogFilter narrows a history query. Zero values mean "no restriction",
// except MaxCount where zero means unlimited too.
type LogFilter struct {
	Branch   string // revision to start from; HEAD when empty
	MaxCount int
	Skip     int
	Author   string // regex over "Name <email>", case-insensitive
	Since    string
	Until    string
	Path     string // only commits touching this file or directory
}

// Log returns commits newest-first (by committer time).
func (g *GitRepository) Log(ctx context.Context, f LogFilter) ([]Commit, error) {
	opts := &git.LogOptions{Order: git.LogOrderCommitterTime}

	if f.Branch != "" {
		h, err := g.resolve(f.Branch)
		if err != nil {
			return nil, err
		}
		opts.From = h
	}

	now := time.Now()
	if f.Since != "" {
		t, err := ParseDate(f.Since, now)
		if err != nil {
			return nil, err
		}
		opts.Since = &t
	}
	if f.Until != "" {
		t, err := ParseDate(f.Until, now)
		if err != nil {
			return nil, err
		}
		opts.Until = &t
	}

	if f.Path != "" {
		opts.PathFilter = pathMatcher(g.repoPath(f.Path))
	}

	iter, err := g.repo.Log(opts)
	if err != nil {
		if f.Branch == "" && errors.Is(err, plumbing.ErrReferenceNotFound) {
			// HEAD is unborn: no commits yet.
			return []Commit{}, nil
		}
		return nil, fmt.Errorf("failed to read log: %w", err)
	}
	defer iter.Close()

	author := newAuthorMatcher(f.Author)
	commits := make([]Commit, 0)
	skipped := 0

	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !author.match(c.Author) {
			return nil
		}
		if skipped < f.Skip {
			skipped++
			return nil
		}
		commits = append(commits, newCommit(c))
		if f.MaxCount > 0 && len(commits) >= f.MaxCount {
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk log: %w", err)
	}

	g.logger.Debug("Read log", "dir", g.dir, "branch", f.Branch, "path", f.Path, "commits", len(commits))
	return commits, nil
}

// pathMatcher matches p itself or anything below it when p is a directory.
func pathMatcher(p string) func(string) bool {
	return func(name string) bool {
		return name == p || strings.HasPrefix(name, p+"/")
	}
}

// authorMatcher implements git's --author: a regex over "Name <email>".
type authorMatcher struct {
	re *regexp.Regexp
}

func newAuthorMatcher(pattern string) authorMatcher {
	if pattern == "" {
		return authorMatcher{}
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		re = regexp.MustCompile("(?i)" + regexp.QuoteMeta(pattern))
	}
	return authorMatcher{re: re}
}

func (m authorMatcher) match(sig object.Signature) bool {
	if m.re == nil {
		return true
	}
	return m.re.MatchString(sig.Name + " <" + sig.Email + ">")
}

const timeLayout = time.RFC3339

var relativeDate = regexp.MustCompile(`^(\d+)\s*(second|minute|hour|day|week|month|year)s?\s+ago$`)

// ParseDate understands the date forms commonly passed to git log:
// RFC3339, "2006-01-02", "2006-01-02 15:04:05", "yesterday", "now" and
// "N <unit>s ago". Calendar forms without a zone are local time.
func ParseDate(s string, now time.Time) (time.Time, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	switch s {
	case "now", "today":
		return now, nil
	case "yesterday":
		return now.AddDate(0, 0, -1), nil
	}

	if t, err := time.Parse(time.RFC3339, strings.ToUpper(s)); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}

	if m := relativeDate.FindStringSubmatch(s); m != nil {
		var n int
		fmt.Sscanf(m[1], "%d", &n)
		switch m[2] {
		case "second":
			return now.Add(-time.Duration(n) * time.Second), nil
		case "minute":
			return now.Add(-time.Duration(n) * time.Minute), nil
		case "hour":
			return now.Add(-time.Duration(n) * time.Hour), nil
		case "day":
			return now.AddDate(0, 0, -n), nil
		case "week":
			return now.AddDate(0, 0, -7*n), nil
		case "month":
			return now.AddDate(0, -n, 0), nil
		case "year":
			return now.AddDate(-n, 0, 0), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
