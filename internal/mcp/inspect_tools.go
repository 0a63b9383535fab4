package mcp

import (
	"context"

	"workspacebridge/internal/repository"

	gomcp "github.com/mark3labs/mcp-go/mcp"
)

const (
	toolBlame           = "gitBlame"
	toolRepositoryInfo  = "getRepositoryInfo"
	toolCompareBranches = "compareBranches"
)

type blameArgs struct {
	Project   string `json:"project"`
	File      string `json:"file"`
	StartLine *int   `json:"startLine"`
	EndLine   *int   `json:"endLine"`
}

// span is set only when both bounds are given.
func (a blameArgs) span() *repository.LineRange {
	if a.StartLine == nil || a.EndLine == nil {
		return nil
	}
	return &repository.LineRange{Start: *a.StartLine, End: *a.EndLine}
}

// BlameTool handles the gitBlame MCP tool.
type BlameTool struct{ deps *toolDeps }

func NewBlameTool(deps *toolDeps) *BlameTool { return &BlameTool{deps: deps} }

func (t *BlameTool) Definition() gomcp.Tool {
	return gomcp.NewTool(toolBlame,
		gomcp.WithDescription(
			"Attribute each line of a file to the commit that last changed it. "+
				"Uncommitted lines are reported under the zero hash as \"Not Committed Yet\". "+
				"Give both startLine and endLine to restrict the output.",
		),
		projectParam(),
		gomcp.WithString("file",
			gomcp.Required(),
			gomcp.Description("File path relative to the project root."),
		),
		gomcp.WithNumber("startLine",
			gomcp.Description("First line to include, 1-indexed."),
			gomcp.Min(1),
		),
		gomcp.WithNumber("endLine",
			gomcp.Description("Last line to include, inclusive."),
			gomcp.Min(1),
		),
		gomcp.WithReadOnlyHintAnnotation(true),
	)
}

func (t *BlameTool) Handle(ctx context.Context, _ gomcp.CallToolRequest, args blameArgs) (*gomcp.CallToolResult, error) {
	repo, err := t.deps.repo(args.Project)
	if err != nil {
		return failure(toolBlame, err), nil
	}
	if err := required("file", args.File); err != nil {
		return failure(toolBlame, err), nil
	}

	lines, err := repo.Blame(ctx, args.File, args.span())
	if err != nil {
		return failure(toolBlame, err), nil
	}
	return jsonResult(toolBlame, lines), nil
}

type repositoryInfoArgs struct {
	Project string `json:"project"`
}

// RepositoryInfoTool handles the getRepositoryInfo MCP tool.
type RepositoryInfoTool struct{ deps *toolDeps }

func NewRepositoryInfoTool(deps *toolDeps) *RepositoryInfoTool {
	return &RepositoryInfoTool{deps: deps}
}

func (t *RepositoryInfoTool) Definition() gomcp.Tool {
	return gomcp.NewTool(toolRepositoryInfo,
		gomcp.WithDescription("Report the current branch, all branches, remotes, tags and working tree status."),
		projectParam(),
		gomcp.WithReadOnlyHintAnnotation(true),
	)
}

func (t *RepositoryInfoTool) Handle(ctx context.Context, _ gomcp.CallToolRequest, args repositoryInfoArgs) (*gomcp.CallToolResult, error) {
	repo, err := t.deps.repo(args.Project)
	if err != nil {
		return failure(toolRepositoryInfo, err), nil
	}

	info, err := repo.Info(ctx)
	if err != nil {
		return failure(toolRepositoryInfo, err), nil
	}
	return jsonResult(toolRepositoryInfo, info), nil
}

type compareBranchesArgs struct {
	Project       string `json:"project"`
	BaseBranch    string `json:"baseBranch"`
	CompareBranch string `json:"compareBranch"`
}

// CompareBranchesTool handles the compareBranches MCP tool.
type CompareBranchesTool struct{ deps *toolDeps }

func NewCompareBranchesTool(deps *toolDeps) *CompareBranchesTool {
	return &CompareBranchesTool{deps: deps}
}

func (t *CompareBranchesTool) Definition() gomcp.Tool {
	return gomcp.NewTool(toolCompareBranches,
		gomcp.WithDescription(
			"List the commits on compareBranch that are not on baseBranch, "+
				"with a diffstat between the two tips.",
		),
		projectParam(),
		gomcp.WithString("baseBranch",
			gomcp.Required(),
			gomcp.Description("Branch or revision to compare against."),
		),
		gomcp.WithString("compareBranch",
			gomcp.Required(),
			gomcp.Description("Branch or revision whose extra commits are listed."),
		),
		gomcp.WithReadOnlyHintAnnotation(true),
	)
}

func (t *CompareBranchesTool) Handle(ctx context.Context, _ gomcp.CallToolRequest, args compareBranchesArgs) (*gomcp.CallToolResult, error) {
	repo, err := t.deps.repo(args.Project)
	if err != nil {
		return failure(toolCompareBranches, err), nil
	}
	if err := required("baseBranch", args.BaseBranch); err != nil {
		return failure(toolCompareBranches, err), nil
	}
	if err := required("compareBranch", args.CompareBranch); err != nil {
		return failure(toolCompareBranches, err), nil
	}

	cmp, err := repo.Compare(ctx, args.BaseBranch, args.CompareBranch)
	if err != nil {
		return failure(toolCompareBranches, err), nil
	}
	return jsonResult(toolCompareBranches, cmp), nil
}
