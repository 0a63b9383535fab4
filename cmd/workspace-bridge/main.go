// Package main implements the workspace-bridge CLI: an MCP server over stdio
// that exposes files and git history of a set of named projects.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"workspacebridge/internal/config"
	"workspacebridge/internal/logging"
	"workspacebridge/internal/mcp"
	"workspacebridge/internal/registry"

	"github.com/spf13/cobra"
)

var (
	// version is set at build time with -ldflags "-X main.version=..."
	version = "dev"

	projectDir string
	configPath string
	plain      bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "workspace-bridge",
	Short: "MCP server for files and git history across linked projects",
	Long: `workspace-bridge serves the Model Context Protocol over stdin/stdout.

The directory it starts in becomes the current project. Other projects are
linked through a .workspace-bridge.json file in that directory:

  {"projects": [{"name": "lib", "path": "../lib"}]}

or added at runtime with the addProject tool.`,
	Version:      version,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server on stdio (default)",
	Long: `Run the MCP server on stdio until stdin is closed.

Examples:
  # Serve the current directory
  workspace-bridge serve

  # Serve another directory with a custom settings file
  workspace-bridge serve --project-dir ~/src/app --config ./settings.yaml`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Print the projects the server would start with",
	Args:  cobra.NoArgs,
	RunE:  runProjects,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&projectDir, "project-dir", "", "current project directory (default: working directory)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "settings file (default: "+config.SettingsPath()+")")
	projectsCmd.Flags().BoolVar(&plain, "plain", false, "disable colors and styling")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(projectsCmd)
}

// workspace is everything loaded before the server starts.
type workspace struct {
	logger   *logging.AppLogger
	settings config.Settings
	registry *registry.Registry
	current  string
	dir      string
}

func loadWorkspace() (*workspace, error) {
	logger := logging.NewAppLogger()
	logging.SetDefault(logger)

	settings, err := config.LoadSettings(configPath)
	if err != nil {
		return nil, err
	}
	if !logger.IsDebug() {
		if err := logger.SetLevel(settings.LogLevel); err != nil {
			return nil, err
		}
	}

	dir := projectDir
	if dir == "" {
		if dir, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("cannot determine working directory: %w", err)
		}
	}
	if dir, err = filepath.Abs(dir); err != nil {
		return nil, fmt.Errorf("cannot resolve project directory: %w", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot access project directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", registry.ErrNotADirectory, dir)
	}

	reg, current := config.LoadWorkspace(dir, logger)
	return &workspace{
		logger:   logger,
		settings: settings,
		registry: reg,
		current:  current,
		dir:      dir,
	}, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace()
	if err != nil {
		return err
	}

	srv := mcp.NewServer(ws.registry, ws.current, ws.settings, ws.logger, version)
	if err := srv.Start(); err != nil {
		ws.logger.Error("Server stopped", "error", err)
		return err
	}
	return nil
}
