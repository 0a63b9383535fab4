package mcp

import (
	"encoding/json"
	"fmt"
	"strings"

	"workspacebridge/internal/config"
	"workspacebridge/internal/filemanager"
	"workspacebridge/internal/logging"
	"workspacebridge/internal/registry"
	"workspacebridge/internal/repository"

	gomcp "github.com/mark3labs/mcp-go/mcp"
)

// toolDeps is shared by every tool handler.
type toolDeps struct {
	registry *registry.Registry
	settings config.Settings
	logger   *logging.AppLogger
}

// failure builds the error envelope. The underlying message is kept verbatim.
func failure(tool string, err error) *gomcp.CallToolResult {
	return gomcp.NewToolResultError(fmt.Sprintf("%s failed: %s", tool, err.Error()))
}

// jsonResult renders v as two-space indented JSON.
func jsonResult(tool string, v any) *gomcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return failure(tool, fmt.Errorf("failed to encode result: %w", err))
	}
	return gomcp.NewToolResultText(string(data))
}

func resultText(result *gomcp.CallToolResult) string {
	if result == nil {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(gomcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func required(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("'%s' is required", name)
	}
	return nil
}

// resolve maps a project name to its directory.
func (d *toolDeps) resolve(project string) (string, error) {
	if err := required("project", project); err != nil {
		return "", err
	}
	return d.registry.Resolve(project)
}

// files resolves project and opens a file manager on it.
func (d *toolDeps) files(project string) (*filemanager.FileManager, error) {
	root, err := d.resolve(project)
	if err != nil {
		return nil, err
	}
	return filemanager.New(root, d.logger.With("project", project))
}

// repo resolves project and opens the repository containing it.
func (d *toolDeps) repo(project string) (*repository.GitRepository, error) {
	root, err := d.resolve(project)
	if err != nil {
		return nil, err
	}
	return repository.Open(root, d.logger.With("project", project))
}

// maxCount applies the configured default to an omitted limit.
func (d *toolDeps) maxCount(n int) int {
	if n <= 0 {
		return d.settings.DefaultMaxCount
	}
	return n
}
