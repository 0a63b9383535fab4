// Package ui renders registry state for the terminal.
package ui

import (
	"fmt"
	"os"
	"strings"

	"workspacebridge/internal/registry"

	"github.com/charmbracelet/lipgloss"
)

// ProjectsView is the output of the projects command.
type ProjectsView struct {
	Projects []registry.Project
	Current  string
	LinkFile string
	Status   string
}

// Render lays projects out as an aligned two-column list. The current
// project is marked with an asterisk; linked paths that no longer exist are
// flagged.
func (v ProjectsView) Render() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Registered projects") + "\n")

	if len(v.Projects) == 0 {
		b.WriteString(SubtitleStyle.Render("No projects registered.") + "\n")
		return b.String()
	}

	width := 0
	for _, p := range v.Projects {
		width = max(width, lipgloss.Width(p.Name))
	}

	for _, p := range v.Projects {
		marker, style := "  ", NameStyle
		if p.Name == v.Current {
			marker, style = "* ", CurrentStyle
		}
		name := style.Width(width).Render(p.Name)

		line := marker + name + "  " + PathStyle.Render(p.Path)
		if info, err := os.Stat(p.Path); err != nil || !info.IsDir() {
			line += "  " + ErrorStyle.Render("(missing)")
		}
		b.WriteString(line + "\n")
	}

	if v.LinkFile != "" {
		b.WriteString(HelpStyle.Render(fmt.Sprintf("link file: %s (%s)", v.LinkFile, v.Status)) + "\n")
	}
	return b.String()
}
