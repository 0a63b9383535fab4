package mcp

import (
	"context"
	"fmt"
	"time"

	"workspacebridge/internal/config"
	"workspacebridge/internal/logging"
	"workspacebridge/internal/registry"

	gomcp "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ServerName is advertised to clients during initialization.
const ServerName = "workspace-bridge"

// Server wires the tools to an mcp-go server.
type Server struct {
	registry *registry.Registry
	current  string
	settings config.Settings
	logger   *logging.AppLogger
	version  string

	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance. current is the name the
// working directory was registered under.
func NewServer(reg *registry.Registry, current string, settings config.Settings, logger *logging.AppLogger, version string) *Server {
	if logger == nil {
		logger = logging.GetDefault()
	}
	if version == "" {
		version = "dev"
	}
	return &Server{
		registry: reg,
		current:  current,
		settings: settings,
		logger:   logger,
		version:  version,
	}
}

// Tools returns every tool with its handler, in registration order.
func (s *Server) Tools() []server.ServerTool {
	deps := &toolDeps{registry: s.registry, settings: s.settings, logger: s.logger}

	return []server.ServerTool{
		typed[listProjectsArgs](NewListProjectsTool(deps)),
		typed[addProjectArgs](NewAddProjectTool(deps)),
		typed[removeProjectArgs](NewRemoveProjectTool(deps)),
		typed[listFilesArgs](NewListFilesTool(deps)),
		typed[readFileArgs](NewReadFileTool(deps)),
		typed[commitHistoryArgs](NewCommitHistoryTool(deps)),
		typed[searchCommitsArgs](NewSearchCommitsTool(deps)),
		typed[commitDetailsArgs](NewCommitDetailsTool(deps)),
		typed[fileHistoryArgs](NewFileHistoryTool(deps)),
		typed[blameArgs](NewBlameTool(deps)),
		typed[repositoryInfoArgs](NewRepositoryInfoTool(deps)),
		typed[compareBranchesArgs](NewCompareBranchesTool(deps)),
	}
}

// MCPServer builds (once) and returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	if s.mcpServer != nil {
		return s.mcpServer
	}

	s.mcpServer = server.NewMCPServer(
		ServerName,
		s.version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions(s.instructions()),
		server.WithToolHandlerMiddleware(s.logCalls),
	)
	s.mcpServer.AddTools(s.Tools()...)
	return s.mcpServer
}

// Start serves the protocol on stdin/stdout until stdin closes.
func (s *Server) Start() error {
	srv := s.MCPServer()
	s.logger.Info("Starting MCP server", "current", s.current, "projects", s.registry.Len(), "version", s.version)

	if err := server.ServeStdio(srv, server.WithErrorLogger(s.logger.StandardLog())); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

func (s *Server) instructions() string {
	return fmt.Sprintf(
		"Projects are addressed by name. The current project is %q; call listProjects to see the others. "+
			"File paths are relative to the project directory.",
		s.current,
	)
}

// logCalls records duration for every call and a warning for failed ones.
func (s *Server) logCalls(next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
		name := req.Params.Name
		start := time.Now()
		defer s.logger.LogPerformance(name, start)

		s.logger.Debug("Tool invoked", "tool", name)
		result, err := next(ctx, req)
		switch {
		case err != nil:
			s.logger.Error("Tool handler error", "tool", name, "error", err)
		case result != nil && result.IsError:
			s.logger.Warn("Tool call failed", "tool", name, "reason", resultText(result))
		}
		return result, err
	}
}

// typedTool is implemented by every tool in this package.
type typedTool[T any] interface {
	Definition() gomcp.Tool
	Handle(ctx context.Context, req gomcp.CallToolRequest, args T) (*gomcp.CallToolResult, error)
}

func typed[T any](t typedTool[T]) server.ServerTool {
	return server.ServerTool{
		Tool:    t.Definition(),
		Handler: gomcp.NewTypedToolHandler(t.Handle),
	}
}
