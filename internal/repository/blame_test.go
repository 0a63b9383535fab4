package repository

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blameFixture(t *testing.T) (*fixture, string, string) {
	t.Helper()
	f := newFixture(t)
	f.write("poem.txt", "roses are red\nviolets are blue\n")
	first := f.commitAs("Ada Lovelace", "ada@example.com", "first draft\n\nbody text")
	f.write("poem.txt", "roses are red\nviolets are blue\ngo is neat\n")
	second := f.commitAs("Grace Hopper", "grace@navy.mil", "add closing line")
	return f, first.String(), second.String()
}

func TestBlame_OneRecordPerLine(t *testing.T) {
	f, first, second := blameFixture(t)
	g := f.open()

	lines, err := g.Blame(context.Background(), "poem.txt", nil)
	require.NoError(t, err)
	require.Len(t, lines, 3)

	assert.Equal(t, BlameLine{
		Hash:       first,
		Author:     "Ada Lovelace",
		Date:       "2024-03-01T10:00:00Z",
		Summary:    "first draft",
		LineNumber: 1,
		Content:    "roses are red",
	}, lines[0])
	assert.Equal(t, first, lines[1].Hash)
	assert.Equal(t, 2, lines[1].LineNumber)
	assert.Equal(t, "violets are blue", lines[1].Content)

	assert.Equal(t, second, lines[2].Hash)
	assert.Equal(t, "Grace Hopper", lines[2].Author)
	assert.Equal(t, "add closing line", lines[2].Summary)
	assert.Equal(t, 3, lines[2].LineNumber)
	assert.Equal(t, "go is neat", lines[2].Content)
}

func TestBlame_Range(t *testing.T) {
	f, _, second := blameFixture(t)
	g := f.open()

	tests := []struct {
		name      string
		span      LineRange
		wantLines []int
	}{
		{name: "single line", span: LineRange{Start: 2, End: 2}, wantLines: []int{2}},
		{name: "tail", span: LineRange{Start: 2, End: 3}, wantLines: []int{2, 3}},
		{name: "end clamped", span: LineRange{Start: 3, End: 99}, wantLines: []int{3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			span := tt.span
			lines, err := g.Blame(context.Background(), "poem.txt", &span)
			require.NoError(t, err)

			got := make([]int, 0, len(lines))
			for _, l := range lines {
				got = append(got, l.LineNumber)
			}
			assert.Equal(t, tt.wantLines, got)
		})
	}

	lines, err := g.Blame(context.Background(), "poem.txt", &LineRange{Start: 3, End: 3})
	require.NoError(t, err)
	assert.Equal(t, second, lines[0].Hash)
}

func TestBlame_InvalidRange(t *testing.T) {
	f, _, _ := blameFixture(t)
	g := f.open()

	for _, span := range []LineRange{{Start: 0, End: 2}, {Start: 3, End: 1}, {Start: 10, End: 12}} {
		_, err := g.Blame(context.Background(), "poem.txt", &span)
		assert.Error(t, err, "span %+v", span)
	}
}

func TestBlame_FileNotFound(t *testing.T) {
	f, _, _ := blameFixture(t)
	f.write("untracked.txt", "new\n")
	g := f.open()

	_, err := g.Blame(context.Background(), "missing.txt", nil)
	assert.ErrorIs(t, err, ErrFileNotFound)

	_, err = g.Blame(context.Background(), "untracked.txt", nil)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestBlame_UncommittedLines(t *testing.T) {
	f := newFixture(t)
	f.write("list.txt", "one\ntwo\n")
	base := f.commit("add list").String()
	f.write("list.txt", "one\ntwo\nthree\nfour\n")
	g := f.open()

	lines, err := g.Blame(context.Background(), "list.txt", nil)
	require.NoError(t, err)
	require.Len(t, lines, 4)

	zero := strings.Repeat("0", 40)
	for i, want := range []struct {
		hash    string
		content string
	}{
		{base, "one"},
		{base, "two"},
		{zero, "three"},
		{zero, "four"},
	} {
		assert.Equal(t, want.hash, lines[i].Hash, "line %d", i+1)
		assert.Equal(t, want.content, lines[i].Content, "line %d", i+1)
		assert.Equal(t, i+1, lines[i].LineNumber)
	}
	assert.Equal(t, "Not Committed Yet", lines[3].Author)
	assert.Equal(t, "Version of list.txt from the working tree", lines[3].Summary)
	assert.Equal(t, "add list", lines[0].Summary)

	tail, err := g.Blame(context.Background(), "list.txt", &LineRange{Start: 4, End: 4})
	require.NoError(t, err)
	require.Len(t, tail, 1)
	assert.Equal(t, zero, tail[0].Hash)
}

func TestBlame_EditedAndRemovedLines(t *testing.T) {
	f := newFixture(t)
	f.write("list.txt", "one\ntwo\nthree\n")
	base := f.commit("add list").String()
	f.write("list.txt", "one\nTWO\n")
	g := f.open()

	lines, err := g.Blame(context.Background(), "list.txt", nil)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, base, lines[0].Hash)
	assert.Equal(t, strings.Repeat("0", 40), lines[1].Hash)
	assert.Equal(t, "TWO", lines[1].Content)

	_, err = g.Blame(context.Background(), "list.txt", &LineRange{Start: 3, End: 3})
	assert.ErrorContains(t, err, "has only 2 lines")
}
