package mcp

import (
	"context"

	gomcp "github.com/mark3labs/mcp-go/mcp"
)

const (
	toolListFiles = "listFiles"
	toolReadFile  = "readFile"
)

type listFilesArgs struct {
	Project string `json:"project"`
	Dir     string `json:"dir"`
}

// ListFilesTool handles the listFiles MCP tool.
type ListFilesTool struct{ deps *toolDeps }

func NewListFilesTool(deps *toolDeps) *ListFilesTool { return &ListFilesTool{deps: deps} }

func (t *ListFilesTool) Definition() gomcp.Tool {
	return gomcp.NewTool(toolListFiles,
		gomcp.WithDescription("List the entries of a directory inside a project, sorted by name."),
		gomcp.WithString("project",
			gomcp.Required(),
			gomcp.Description("Registered project name."),
		),
		gomcp.WithString("dir",
			gomcp.Description("Directory relative to the project root. Defaults to the root."),
		),
		gomcp.WithReadOnlyHintAnnotation(true),
	)
}

func (t *ListFilesTool) Handle(_ context.Context, _ gomcp.CallToolRequest, args listFilesArgs) (*gomcp.CallToolResult, error) {
	fm, err := t.deps.files(args.Project)
	if err != nil {
		return failure(toolListFiles, err), nil
	}

	items, err := fm.ListDirectory(args.Dir)
	if err != nil {
		return failure(toolListFiles, err), nil
	}
	return jsonResult(toolListFiles, items), nil
}

type readFileArgs struct {
	Project string `json:"project"`
	File    string `json:"file"`
}

// ReadFileTool handles the readFile MCP tool.
type ReadFileTool struct{ deps *toolDeps }

func NewReadFileTool(deps *toolDeps) *ReadFileTool { return &ReadFileTool{deps: deps} }

func (t *ReadFileTool) Definition() gomcp.Tool {
	return gomcp.NewTool(toolReadFile,
		gomcp.WithDescription("Return the full text of a file inside a project."),
		gomcp.WithString("project",
			gomcp.Required(),
			gomcp.Description("Registered project name."),
		),
		gomcp.WithString("file",
			gomcp.Required(),
			gomcp.Description("File path relative to the project root."),
		),
		gomcp.WithReadOnlyHintAnnotation(true),
	)
}

func (t *ReadFileTool) Handle(_ context.Context, _ gomcp.CallToolRequest, args readFileArgs) (*gomcp.CallToolResult, error) {
	fm, err := t.deps.files(args.Project)
	if err != nil {
		return failure(toolReadFile, err), nil
	}

	if err := required("file", args.File); err != nil {
		return failure(toolReadFile, err), nil
	}

	content, err := fm.ReadTextFile(args.File, t.deps.settings.MaxReadBytes)
	if err != nil {
		return failure(toolReadFile, err), nil
	}
	return gomcp.NewToolResultText(content), nil
}
