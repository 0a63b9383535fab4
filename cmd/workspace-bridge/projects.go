package main

import (
	"fmt"

	"workspacebridge/internal/config"
	"workspacebridge/internal/ui"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

// runProjects prints the registry the server would start with.
func runProjects(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace()
	if err != nil {
		return err
	}

	if plain {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	links := config.LoadLinks(ws.dir)
	view := ui.ProjectsView{
		Projects: ws.registry.List(),
		Current:  ws.current,
		LinkFile: links.Path,
		Status:   links.Status.String(),
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), view.Render())
	return err
}
