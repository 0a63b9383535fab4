package mcp

import (
	"context"
	"fmt"
	"strings"

	"workspacebridge/internal/registry"

	gomcp "github.com/mark3labs/mcp-go/mcp"
)

const (
	toolListProjects  = "listProjects"
	toolAddProject    = "addProject"
	toolRemoveProject = "removeProject"
)

// formatProjects renders the registry listing shared by listProjects and
// addProject.
func formatProjects(projects []registry.Project) string {
	if len(projects) == 0 {
		return "No projects registered."
	}

	var b strings.Builder
	b.WriteString("Registered projects:")
	for _, p := range projects {
		fmt.Fprintf(&b, "\n- %s: %s", p.Name, p.Path)
	}
	return b.String()
}

type listProjectsArgs struct{}

// ListProjectsTool handles the listProjects MCP tool.
type ListProjectsTool struct{ deps *toolDeps }

func NewListProjectsTool(deps *toolDeps) *ListProjectsTool { return &ListProjectsTool{deps: deps} }

func (t *ListProjectsTool) Definition() gomcp.Tool {
	return gomcp.NewTool(toolListProjects,
		gomcp.WithDescription("List every registered project with its absolute path."),
		gomcp.WithReadOnlyHintAnnotation(true),
	)
}

func (t *ListProjectsTool) Handle(_ context.Context, _ gomcp.CallToolRequest, _ listProjectsArgs) (*gomcp.CallToolResult, error) {
	return gomcp.NewToolResultText(formatProjects(t.deps.registry.List())), nil
}

type addProjectArgs struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// AddProjectTool handles the addProject MCP tool.
type AddProjectTool struct{ deps *toolDeps }

func NewAddProjectTool(deps *toolDeps) *AddProjectTool { return &AddProjectTool{deps: deps} }

func (t *AddProjectTool) Definition() gomcp.Tool {
	return gomcp.NewTool(toolAddProject,
		gomcp.WithDescription(
			"Register a directory under a name for the rest of the session. "+
				"Relative paths are resolved against the current project. "+
				"An existing project with the same name is replaced.",
		),
		gomcp.WithString("name",
			gomcp.Required(),
			gomcp.Description("Name used to refer to the project in other tools."),
		),
		gomcp.WithString("path",
			gomcp.Required(),
			gomcp.Description("Directory path. Absolute, relative, or starting with ~/."),
		),
		gomcp.WithIdempotentHintAnnotation(true),
	)
}

func (t *AddProjectTool) Handle(_ context.Context, _ gomcp.CallToolRequest, args addProjectArgs) (*gomcp.CallToolResult, error) {
	if err := required("path", args.Path); err != nil {
		return failure(toolAddProject, err), nil
	}
	if err := t.deps.registry.Insert(args.Name, args.Path); err != nil {
		return failure(toolAddProject, err), nil
	}

	t.deps.logger.Info("Project added", "name", args.Name, "path", args.Path)
	return gomcp.NewToolResultText(formatProjects(t.deps.registry.List())), nil
}

type removeProjectArgs struct {
	Name string `json:"name"`
}

// RemoveProjectTool handles the removeProject MCP tool.
type RemoveProjectTool struct{ deps *toolDeps }

func NewRemoveProjectTool(deps *toolDeps) *RemoveProjectTool { return &RemoveProjectTool{deps: deps} }

func (t *RemoveProjectTool) Definition() gomcp.Tool {
	return gomcp.NewTool(toolRemoveProject,
		gomcp.WithDescription("Unregister a project. Files on disk are not touched."),
		gomcp.WithString("name",
			gomcp.Required(),
			gomcp.Description("Name of the project to remove."),
		),
		gomcp.WithDestructiveHintAnnotation(false),
	)
}

func (t *RemoveProjectTool) Handle(_ context.Context, _ gomcp.CallToolRequest, args removeProjectArgs) (*gomcp.CallToolResult, error) {
	if err := t.deps.registry.Remove(args.Name); err != nil {
		return failure(toolRemoveProject, err), nil
	}

	t.deps.logger.Info("Project removed", "name", args.Name)
	return gomcp.NewToolResultText("Removed project: " + args.Name), nil
}
