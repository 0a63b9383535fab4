// Package repository answers read-only questions about a git repository:
// commit history, single commits with their diffs, line attribution, branch
// and remote listings, working-tree status and branch comparison.
//
// Everything is computed in-process with go-git; no git binary is required.
//
// # Opening
//
// Open accepts any directory inside a working tree, the way the git CLI does.
// When the directory is a subdirectory of the repository, file arguments
// (Blame, LogFilter.Path) are interpreted relative to that subdirectory:
//
//	repo, err := repository.Open("/src/monorepo/services/api", logger)
//	if errors.Is(err, repository.ErrNotAGitRepository) {
//	    // not under version control
//	}
//	lines, err := repo.Blame(ctx, "main.go", nil) // blames services/api/main.go
//
// # Errors
//
// The sentinels ErrNotAGitRepository, ErrFileNotFound, ErrCommitNotFound and
// ErrRevisionNotFound classify the expected failures. Anything else is a
// go-git error wrapped with context.
//
// # Output
//
// Dates are rendered as RFC3339 strings. Commit, BlameLine, RepositoryInfo
// and Comparison carry JSON tags and are meant to be marshalled directly.
package repository
