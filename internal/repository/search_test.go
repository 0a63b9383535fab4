package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchFixture(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t)
	f.write("main.go", "package main\n")
	f.commitAs("Ada Lovelace", "ada@example.com", "Initial commit")
	f.write("main.go", "package main\n\nfunc retryBackoff() {}\n")
	f.commitAs("Grace Hopper", "grace@navy.mil", "Add helper")
	f.write("README.md", "docs\n")
	f.commitAs("Ada Lovelace", "ada@example.com", "Document retryBackoff usage")
	f.write("main.go", "package main\n\nfunc retryBackoff() {}\n\nfunc main() { retryBackoff() }\n")
	f.commitAs("Grace Hopper", "grace@navy.mil", "Call helper from main")
	return f
}

func TestSearchMessages(t *testing.T) {
	g := searchFixture(t).open()

	tests := []struct {
		name   string
		query  string
		filter SearchFilter
		want   []string
	}{
		{name: "case insensitive", query: "HELPER", want: []string{"Call helper from main", "Add helper"}},
		{name: "regex", query: "^(add|initial)", want: []string{"Add helper", "Initial commit"}},
		{name: "invalid regex is literal", query: "helper(", want: []string{}},
		{name: "author", query: "helper", filter: SearchFilter{Author: "grace"}, want: []string{"Call helper from main", "Add helper"}},
		{name: "max count", query: "e", filter: SearchFilter{MaxCount: 2}, want: []string{"Call helper from main", "Document retryBackoff usage"}},
		{name: "no match", query: "zebra", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := g.SearchMessages(context.Background(), tt.query, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, subjects(got))
		})
	}
}

func TestPickaxeSearch(t *testing.T) {
	g := searchFixture(t).open()

	got, err := g.PickaxeSearch(context.Background(), "retryBackoff", SearchFilter{})
	require.NoError(t, err)
	// "Document retryBackoff usage" only mentions the term in its message.
	assert.Equal(t, []string{"Call helper from main", "Add helper"}, subjects(got))
}

func TestPickaxeSearch_SkipsMerges(t *testing.T) {
	f := newFixture(t)
	f.write("main.go", "package main\n")
	f.commit("Initial commit")
	f.checkout("feature", true)
	f.write("feature.go", "package main\n\nconst needle = 1\n")
	feature := f.commit("Add needle")
	f.checkout("main", false)
	f.write("main.go", "package main\n\nfunc main() {}\n")
	f.commit("Add main")
	f.write("feature.go", "package main\n\nconst needle = 1\n")
	f.merge("Merge branch 'feature'", feature)
	g := f.open()

	got, err := g.PickaxeSearch(context.Background(), "needle", SearchFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Add needle"}, subjects(got))

	messages, err := g.SearchMessages(context.Background(), "merge", SearchFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Merge branch 'feature'"}, subjects(messages))
}

func TestSearch_MessageFirstThenDiff(t *testing.T) {
	g := searchFixture(t).open()

	messageOnly, err := g.Search(context.Background(), "retryBackoff", false, SearchFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Document retryBackoff usage"}, subjects(messageOnly))

	withDiff, err := g.Search(context.Background(), "retryBackoff", true, SearchFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Document retryBackoff usage",
		"Call helper from main",
		"Add helper",
	}, subjects(withDiff))

	// Message results are always a subset of the combined results.
	hashes := make(map[string]bool)
	for _, c := range withDiff {
		assert.False(t, hashes[c.Hash], "duplicate commit %s", c.Hash)
		hashes[c.Hash] = true
	}
	for _, c := range messageOnly {
		assert.True(t, hashes[c.Hash])
	}
}

func TestSearch_DedupesAndTruncates(t *testing.T) {
	g := searchFixture(t).open()

	// No file ever contains "helper", so only the message hits remain.
	got, err := g.Search(context.Background(), "helper", true, SearchFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Call helper from main", "Add helper"}, subjects(got))

	// "main" hits "Call helper from main" by message and again by diff, and
	// the initial commit by diff only.
	got, err = g.Search(context.Background(), "main", true, SearchFilter{MaxCount: 2})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "Call helper from main", got[0].Subject)
}

func TestSearch_EmptyRepository(t *testing.T) {
	g := newFixture(t).open()

	got, err := g.Search(context.Background(), "anything", true, SearchFilter{})
	require.NoError(t, err)
	assert.Empty(t, got)
}
