package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/diff"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// LineRange is an inclusive, 1-indexed span of lines.
type LineRange struct {
	Start int
	End   int
}

// BlameLine attributes one source line to the commit that last touched it.
type BlameLine struct {
	Hash       string `json:"hash"`
	Author     string `json:"author"`
	Date       string `json:"date"`
	Summary    string `json:"summary"`
	LineNumber int    `json:"lineNumber"`
	Content    string `json:"content"`
}

type blameMeta struct {
	author  string
	date    string
	summary string
}

// Blame attributes every line of file as it is on disk. Lines unchanged
// since HEAD carry the commit that last touched them; added or edited lines
// are reported against the zero hash as "Not Committed Yet". With a non-nil
// span only the lines inside it are returned; End past the last line is
// clamped.
func (g *GitRepository) Blame(ctx context.Context, file string, span *LineRange) ([]BlameLine, error) {
	if !g.files.PathExists(file) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, file)
	}

	head, err := g.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	commit, err := g.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to read HEAD commit: %w", err)
	}

	p := g.repoPath(file)
	result, err := git.Blame(commit, p)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return nil, fmt.Errorf("%w: no such path %s in HEAD", ErrFileNotFound, p)
		}
		return nil, fmt.Errorf("blame failed for %s: %w", p, err)
	}

	sources, err := g.workingTreeSources(commit, file, p, result)
	if err != nil {
		return nil, err
	}

	first, last := 1, len(sources)
	if span != nil {
		if span.Start < 1 || span.End < span.Start {
			return nil, fmt.Errorf("invalid line range %d,%d", span.Start, span.End)
		}
		if span.Start > len(sources) {
			return nil, fmt.Errorf("file %s has only %d lines", file, len(sources))
		}
		first = span.Start
		last = min(span.End, len(sources))
	}

	cache := make(map[plumbing.Hash]blameMeta)
	lines := make([]BlameLine, 0, last-first+1)

	for n := first; n <= last; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		src := sources[n-1]
		if src.line == nil {
			lines = append(lines, BlameLine{
				Hash:       plumbing.ZeroHash.String(),
				Author:     notCommittedAuthor,
				Date:       src.modified,
				Summary:    fmt.Sprintf("Version of %s from the working tree", p),
				LineNumber: n,
				Content:    src.text,
			})
			continue
		}

		meta, ok := cache[src.line.Hash]
		if !ok {
			meta = g.blameMetaFor(src.line)
			cache[src.line.Hash] = meta
		}

		lines = append(lines, BlameLine{
			Hash:       src.line.Hash.String(),
			Author:     meta.author,
			Date:       meta.date,
			Summary:    meta.summary,
			LineNumber: n,
			Content:    src.text,
		})
	}

	g.logger.Debug("Blamed file", "file", p, "lines", len(lines), "commits", len(cache))
	return lines, nil
}

const notCommittedAuthor = "Not Committed Yet"

// lineSource pairs a working tree line with its HEAD blame, or nil when the
// line has no counterpart in HEAD.
type lineSource struct {
	text     string
	line     *git.Line
	modified string
}

// workingTreeSources maps every line of the file on disk onto the HEAD
// blame through a line diff of the HEAD blob against the disk content.
func (g *GitRepository) workingTreeSources(commit *object.Commit, file, p string, result *git.BlameResult) ([]lineSource, error) {
	blob, err := commit.File(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s at HEAD: %w", p, err)
	}
	committed, err := blob.Contents()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s at HEAD: %w", p, err)
	}
	current, err := g.files.ReadTextFile(file, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}

	modified := time.Now().Format(timeLayout)
	if info, err := g.files.Stat(file); err == nil {
		modified = info.ModTime().Format(timeLayout)
	}

	sources := make([]lineSource, 0, len(result.Lines))
	if committed == current {
		for _, l := range result.Lines {
			sources = append(sources, lineSource{text: l.Text, line: l})
		}
		return sources, nil
	}

	headIdx := 0
	for _, d := range diff.Do(committed, current) {
		chunk := splitLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			for _, text := range chunk {
				src := lineSource{text: text, modified: modified}
				if headIdx < len(result.Lines) {
					src.line = result.Lines[headIdx]
				}
				sources = append(sources, src)
				headIdx++
			}
		case diffmatchpatch.DiffInsert:
			for _, text := range chunk {
				sources = append(sources, lineSource{text: text, modified: modified})
			}
		case diffmatchpatch.DiffDelete:
			headIdx += len(chunk)
		}
	}
	return sources, nil
}

// splitLines splits text on newlines; a trailing newline does not start an
// extra line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

func (g *GitRepository) blameMetaFor(line *git.Line) blameMeta {
	meta := blameMeta{
		author: line.AuthorName,
		date:   line.Date.Format(timeLayout),
	}
	if c, err := g.repo.CommitObject(line.Hash); err == nil {
		meta.summary, _ = splitMessage(c.Message)
		meta.author = c.Author.Name
		meta.date = c.Author.When.Format(timeLayout)
	}
	return meta
}
