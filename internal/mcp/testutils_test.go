package mcp

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"workspacebridge/internal/config"
	"workspacebridge/internal/logging"
	"workspacebridge/internal/registry"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	gomcp "github.com/mark3labs/mcp-go/mcp"
)

// --- Test helpers ---

type testEnv struct {
	t        *testing.T
	dir      string
	registry *registry.Registry
	server   *Server
	logs     *bytes.Buffer
}

// newTestEnv registers dir as project "app" and builds a server around it.
func newTestEnv(t *testing.T, dir string) *testEnv {
	t.Helper()
	logger, logs := logging.NewTestLogger()

	reg := registry.New(dir, logger)
	if err := reg.Insert("app", dir); err != nil {
		t.Fatalf("setup: register app: %v", err)
	}

	return &testEnv{
		t:        t,
		dir:      dir,
		registry: reg,
		server:   NewServer(reg, "app", config.DefaultSettings(), logger, "test"),
		logs:     logs,
	}
}

// call runs the named tool's handler with args.
func (e *testEnv) call(name string, args map[string]interface{}) *gomcp.CallToolResult {
	e.t.Helper()

	for _, tool := range e.server.Tools() {
		if tool.Tool.Name != name {
			continue
		}
		req := gomcp.CallToolRequest{}
		req.Params.Name = name
		req.Params.Arguments = args

		result, err := tool.Handler(context.Background(), req)
		if err != nil {
			e.t.Fatalf("%s returned a protocol error: %v", name, err)
		}
		return result
	}

	e.t.Fatalf("no tool named %s", name)
	return nil
}

// writeFiles creates files under dir, making parent directories as needed.
func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("setup: mkdir for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("setup: write %s: %v", name, err)
		}
	}
}

// gitRepo is a repository whose commits are one hour apart starting at
// 2024-03-01 10:00 UTC.
type gitRepo struct {
	t     *testing.T
	dir   string
	repo  *git.Repository
	wt    *git.Worktree
	clock time.Time
}

func initRepo(t *testing.T) *gitRepo {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInitWithOptions(dir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName("main")},
	})
	if err != nil {
		t.Fatalf("setup: init repository: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("setup: worktree: %v", err)
	}
	return &gitRepo{t: t, dir: dir, repo: repo, wt: wt, clock: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

// commit writes files and records them as one commit, returning its hash.
func (g *gitRepo) commit(message string, files map[string]string) string {
	g.t.Helper()
	writeFiles(g.t, g.dir, files)

	if err := g.wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		g.t.Fatalf("setup: add: %v", err)
	}

	g.clock = g.clock.Add(time.Hour)
	h, err := g.wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: "Test User", Email: "test@example.com", When: g.clock},
	})
	if err != nil {
		g.t.Fatalf("setup: commit %q: %v", message, err)
	}
	return h.String()
}

func (g *gitRepo) branch(name string) {
	g.t.Helper()
	err := g.wt.Checkout(&git.CheckoutOptions{Branch: plumbing.NewBranchReferenceName(name), Create: true})
	if err != nil {
		g.t.Fatalf("setup: checkout -b %s: %v", name, err)
	}
}

// isErrorResult checks if the result is a tool error.
func isErrorResult(result *gomcp.CallToolResult) bool {
	return result != nil && result.IsError
}

// getResultText extracts the text from a CallToolResult.
func getResultText(result *gomcp.CallToolResult) string {
	if result == nil {
		return ""
	}
	var parts []string
	for _, c := range result.Content {
		if tc, ok := c.(gomcp.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}
