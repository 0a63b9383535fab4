package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// SearchFilter restricts a commit search. MaxCount <= 0 means unlimited.
type SearchFilter struct {
	MaxCount int
	Author   string
}

// SearchMessages returns commits reachable from HEAD whose message matches
// query, case-insensitively. query is tried as a regular expression first and
// as a literal string when it does not compile.
func (g *GitRepository) SearchMessages(ctx context.Context, query string, f SearchFilter) ([]Commit, error) {
	re, err := regexp.Compile("(?i)" + query)
	if err != nil {
		re = regexp.MustCompile("(?i)" + regexp.QuoteMeta(query))
	}

	return g.walkHead(ctx, f, func(c *object.Commit) (bool, error) {
		return re.MatchString(c.Message), nil
	})
}

// PickaxeSearch returns commits that change the number of occurrences of
// term in some file, the way `git log -S` does. Merge commits are skipped.
func (g *GitRepository) PickaxeSearch(ctx context.Context, term string, f SearchFilter) ([]Commit, error) {
	if term == "" {
		return []Commit{}, nil
	}

	return g.walkHead(ctx, f, func(c *object.Commit) (bool, error) {
		if c.NumParents() > 1 {
			return false, nil
		}
		return changesOccurrences(ctx, c, term)
	})
}

// Search combines message and (optionally) diff matches. Message matches come
// first; a diff match for a commit already found by message is dropped.
func (g *GitRepository) Search(ctx context.Context, query string, inDiff bool, f SearchFilter) ([]Commit, error) {
	unlimited := SearchFilter{Author: f.Author}

	results, err := g.SearchMessages(ctx, query, unlimited)
	if err != nil {
		return nil, err
	}

	if inDiff {
		diffHits, err := g.PickaxeSearch(ctx, query, unlimited)
		if err != nil {
			return nil, err
		}
		seen := make(map[string]struct{}, len(results))
		for _, c := range results {
			seen[c.Hash] = struct{}{}
		}
		for _, c := range diffHits {
			if _, dup := seen[c.Hash]; dup {
				continue
			}
			seen[c.Hash] = struct{}{}
			results = append(results, c)
		}
	}

	if f.MaxCount > 0 && len(results) > f.MaxCount {
		results = results[:f.MaxCount]
	}
	return results, nil
}

// walkHead visits commits from HEAD newest-first, keeping those accepted by
// keep and by the author filter.
func (g *GitRepository) walkHead(ctx context.Context, f SearchFilter, keep func(*object.Commit) (bool, error)) ([]Commit, error) {
	iter, err := g.repo.Log(&git.LogOptions{Order: git.LogOrderCommitterTime})
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return []Commit{}, nil
		}
		return nil, fmt.Errorf("failed to read log: %w", err)
	}
	defer iter.Close()

	author := newAuthorMatcher(f.Author)
	commits := make([]Commit, 0)

	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !author.match(c.Author) {
			return nil
		}
		ok, err := keep(c)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		commits = append(commits, newCommit(c))
		if f.MaxCount > 0 && len(commits) >= f.MaxCount {
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	return commits, nil
}

// changesOccurrences reports whether any file changed by c contains a
// different number of occurrences of term before and after.
func changesOccurrences(ctx context.Context, c *object.Commit, term string) (bool, error) {
	from, err := parentTree(c)
	if err != nil {
		return false, err
	}
	to, err := c.Tree()
	if err != nil {
		return false, err
	}

	changes, err := from.DiffContext(ctx, to)
	if err != nil {
		return false, err
	}

	for _, change := range changes {
		before, after, err := change.Files()
		if err != nil {
			return false, err
		}
		if countIn(before, term) != countIn(after, term) {
			return true, nil
		}
	}
	return false, nil
}

func countIn(f *object.File, term string) int {
	if f == nil {
		return 0
	}
	if bin, err := f.IsBinary(); err != nil || bin {
		return 0
	}
	content, err := f.Contents()
	if err != nil {
		return 0
	}
	return strings.Count(content, term)
}
