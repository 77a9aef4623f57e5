package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/echomind/internal/memory"
	"github.com/felixgeelhaar/echomind/internal/workflow"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#1F77B4")).
			Padding(0, 1)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#2C3E50"))

	CardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(lipgloss.Color("#1F77B4")).
			PaddingLeft(1)

	MutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#1F77B4"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E5A50A"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
)

// RenderNotice styles a notice with its level's colour and marker.
func RenderNotice(n workflow.Notice) string {
	if n.IsZero() {
		return ""
	}
	switch n.Level {
	case workflow.LevelSuccess:
		return successStyle.Render("✔ " + n.Text)
	case workflow.LevelWarning:
		return warningStyle.Render("⚠ " + n.Text)
	case workflow.LevelError:
		return errorStyle.Render("✘ " + n.Text)
	default:
		return infoStyle.Render("ℹ " + n.Text)
	}
}

// RenderConnection renders the API status indicator.
func RenderConnection(conn workflow.Connection) string {
	switch conn {
	case workflow.Connected:
		return successStyle.Render("● " + conn.String())
	case workflow.Disconnected:
		return errorStyle.Render("● " + conn.String())
	default:
		return MutedStyle.Render("● " + conn.String())
	}
}

// RenderResults numbers search snippets from 1 in the order given.
func RenderResults(results []string) string {
	if len(results) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(HeaderStyle.Render("Found Memories:"))
	for i, r := range results {
		sb.WriteString("\n")
		sb.WriteString(CardStyle.Render(fmt.Sprintf("%d. %s", i+1, r)))
	}
	return sb.String()
}

// RenderListingHeader is the title above the manage listing.
func RenderListingHeader(n int) string {
	return HeaderStyle.Render(fmt.Sprintf("All Memories (%d total)", n))
}

// RenderMemory renders one listing entry, collapsed to its label or expanded
// to the full text and id.
func RenderMemory(i int, m memory.Memory, expanded bool) string {
	marker := "▸"
	if expanded {
		marker = "▾"
	}
	label := fmt.Sprintf("%s %s", marker, memory.Label(i+1, m))
	if !expanded {
		return label
	}
	body := CardStyle.Render(m.Text + "\n" + MutedStyle.Render("id: "+m.ID))
	return label + "\n" + body
}
