// Package mcp exposes the project registry and its file and git collaborators
// as Model Context Protocol tools, using the mcp-go library.
//
// # Tools
//
// Project management:
//   - listProjects, addProject, removeProject
//
// Files (relative to the project directory):
//   - listFiles, readFile
//
// Git history:
//   - getCommitHistory, searchCommits, getCommitDetails, getFileHistory,
//     gitBlame, getRepositoryInfo, compareBranches
//
// Every tool that takes a "project" argument resolves it through the registry
// before touching the filesystem, so an unknown name fails fast with the list
// of registered projects.
//
// # Results
//
// A successful call returns a single text content block: formatted text for
// the project tools, raw file content for readFile, and two-space indented
// JSON for everything else. A failed call returns an error result whose text
// is "<tool> failed: <reason>"; the protocol-level error is always nil so
// the client sees the message.
//
// # Usage
//
//	reg, current := config.LoadWorkspace(cwd, logger)
//	srv := mcp.NewServer(reg, current, settings, logger, version)
//	if err := srv.Start(); err != nil {
//	    return err
//	}
//
// The server reads JSON-RPC requests from stdin and writes responses to
// stdout until stdin is closed.
package mcp
