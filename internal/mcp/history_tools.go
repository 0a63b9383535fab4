package mcp

import (
	"context"

	"workspacebridge/internal/repository"

	gomcp "github.com/mark3labs/mcp-go/mcp"
)

const (
	toolCommitHistory = "getCommitHistory"
	toolSearchCommits = "searchCommits"
	toolCommitDetails = "getCommitDetails"
	toolFileHistory   = "getFileHistory"
)

func projectParam() gomcp.ToolOption {
	return gomcp.WithString("project",
		gomcp.Required(),
		gomcp.Description("Registered project name."),
	)
}

func maxCountParam() gomcp.ToolOption {
	return gomcp.WithNumber("maxCount",
		gomcp.Description("Maximum number of commits to return. Defaults to the configured limit (50 unless changed)."),
		gomcp.Min(1),
	)
}

func authorParam() gomcp.ToolOption {
	return gomcp.WithString("author",
		gomcp.Description("Case-insensitive pattern matched against \"Name <email>\"."),
	)
}

type commitHistoryArgs struct {
	Project  string `json:"project"`
	Branch   string `json:"branch"`
	MaxCount int    `json:"maxCount"`
	Skip     int    `json:"skip"`
	Author   string `json:"author"`
	Since    string `json:"since"`
	Until    string `json:"until"`
}

// CommitHistoryTool handles the getCommitHistory MCP tool.
type CommitHistoryTool struct{ deps *toolDeps }

func NewCommitHistoryTool(deps *toolDeps) *CommitHistoryTool { return &CommitHistoryTool{deps: deps} }

func (t *CommitHistoryTool) Definition() gomcp.Tool {
	return gomcp.NewTool(toolCommitHistory,
		gomcp.WithDescription("List commits newest first, optionally filtered by branch, author and date."),
		projectParam(),
		gomcp.WithString("branch",
			gomcp.Description("Branch or revision to start from. Defaults to HEAD."),
		),
		maxCountParam(),
		gomcp.WithNumber("skip",
			gomcp.Description("Number of matching commits to skip."),
			gomcp.Min(0),
		),
		authorParam(),
		gomcp.WithString("since",
			gomcp.Description("Only commits after this date (RFC3339, 2006-01-02 or \"2 weeks ago\")."),
		),
		gomcp.WithString("until",
			gomcp.Description("Only commits before this date."),
		),
		gomcp.WithReadOnlyHintAnnotation(true),
	)
}

func (t *CommitHistoryTool) Handle(ctx context.Context, _ gomcp.CallToolRequest, args commitHistoryArgs) (*gomcp.CallToolResult, error) {
	repo, err := t.deps.repo(args.Project)
	if err != nil {
		return failure(toolCommitHistory, err), nil
	}

	commits, err := repo.Log(ctx, repository.LogFilter{
		Branch:   args.Branch,
		MaxCount: t.deps.maxCount(args.MaxCount),
		Skip:     args.Skip,
		Author:   args.Author,
		Since:    args.Since,
		Until:    args.Until,
	})
	if err != nil {
		return failure(toolCommitHistory, err), nil
	}
	return jsonResult(toolCommitHistory, commits), nil
}

type searchCommitsArgs struct {
	Project      string `json:"project"`
	Query        string `json:"query"`
	SearchInDiff bool   `json:"searchInDiff"`
	MaxCount     int    `json:"maxCount"`
	Author       string `json:"author"`
}

// SearchCommitsTool handles the searchCommits MCP tool.
type SearchCommitsTool struct{ deps *toolDeps }

func NewSearchCommitsTool(deps *toolDeps) *SearchCommitsTool { return &SearchCommitsTool{deps: deps} }

func (t *SearchCommitsTool) Definition() gomcp.Tool {
	return gomcp.NewTool(toolSearchCommits,
		gomcp.WithDescription(
			"Search commit messages, case-insensitively. With searchInDiff, also "+
				"find commits that added or removed the query text. Message matches come first.",
		),
		projectParam(),
		gomcp.WithString("query",
			gomcp.Required(),
			gomcp.Description("Text or regular expression to search for."),
		),
		gomcp.WithBoolean("searchInDiff",
			gomcp.Description("Also search the content of each commit's changes."),
			gomcp.DefaultBool(false),
		),
		maxCountParam(),
		authorParam(),
		gomcp.WithReadOnlyHintAnnotation(true),
	)
}

func (t *SearchCommitsTool) Handle(ctx context.Context, _ gomcp.CallToolRequest, args searchCommitsArgs) (*gomcp.CallToolResult, error) {
	repo, err := t.deps.repo(args.Project)
	if err != nil {
		return failure(toolSearchCommits, err), nil
	}
	if err := required("query", args.Query); err != nil {
		return failure(toolSearchCommits, err), nil
	}

	commits, err := repo.Search(ctx, args.Query, args.SearchInDiff, repository.SearchFilter{
		MaxCount: t.deps.maxCount(args.MaxCount),
		Author:   args.Author,
	})
	if err != nil {
		return failure(toolSearchCommits, err), nil
	}
	return jsonResult(toolSearchCommits, commits), nil
}

type commitDetailsArgs struct {
	Project    string `json:"project"`
	CommitHash string `json:"commitHash"`
}

// CommitDetailsTool handles the getCommitDetails MCP tool.
type CommitDetailsTool struct{ deps *toolDeps }

func NewCommitDetailsTool(deps *toolDeps) *CommitDetailsTool { return &CommitDetailsTool{deps: deps} }

func (t *CommitDetailsTool) Definition() gomcp.Tool {
	return gomcp.NewTool(toolCommitDetails,
		gomcp.WithDescription("Show one commit with its full patch and per-file statistics."),
		projectParam(),
		gomcp.WithString("commitHash",
			gomcp.Required(),
			gomcp.Description("Full or abbreviated commit hash, or any revision."),
		),
		gomcp.WithReadOnlyHintAnnotation(true),
	)
}

func (t *CommitDetailsTool) Handle(ctx context.Context, _ gomcp.CallToolRequest, args commitDetailsArgs) (*gomcp.CallToolResult, error) {
	repo, err := t.deps.repo(args.Project)
	if err != nil {
		return failure(toolCommitDetails, err), nil
	}
	if err := required("commitHash", args.CommitHash); err != nil {
		return failure(toolCommitDetails, err), nil
	}

	details, err := repo.Details(ctx, args.CommitHash)
	if err != nil {
		return failure(toolCommitDetails, err), nil
	}
	return jsonResult(toolCommitDetails, details), nil
}

type fileHistoryArgs struct {
	Project  string `json:"project"`
	File     string `json:"file"`
	MaxCount int    `json:"maxCount"`
}

// FileHistoryTool handles the getFileHistory MCP tool.
type FileHistoryTool struct{ deps *toolDeps }

func NewFileHistoryTool(deps *toolDeps) *FileHistoryTool { return &FileHistoryTool{deps: deps} }

func (t *FileHistoryTool) Definition() gomcp.Tool {
	return gomcp.NewTool(toolFileHistory,
		gomcp.WithDescription("List the commits that touched a file, newest first."),
		projectParam(),
		gomcp.WithString("file",
			gomcp.Required(),
			gomcp.Description("File path relative to the project root."),
		),
		maxCountParam(),
		gomcp.WithReadOnlyHintAnnotation(true),
	)
}

func (t *FileHistoryTool) Handle(ctx context.Context, _ gomcp.CallToolRequest, args fileHistoryArgs) (*gomcp.CallToolResult, error) {
	repo, err := t.deps.repo(args.Project)
	if err != nil {
		return failure(toolFileHistory, err), nil
	}
	if err := required("file", args.File); err != nil {
		return failure(toolFileHistory, err), nil
	}

	commits, err := repo.Log(ctx, repository.LogFilter{
		MaxCount: t.deps.maxCount(args.MaxCount),
		Path:     args.File,
	})
	if err != nil {
		return failure(toolFileHistory, err), nil
	}
	return jsonResult(toolFileHistory, commits), nil
}
