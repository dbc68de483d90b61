package components

import (
	"strings"

	"github.com/mm15146-Mahad/summit/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Notice is a transient message shown in the status bar.
type Notice struct {
	Text string
	Tone Tone
}

// StatusInfo is what the status bar shows besides the key hints.
type StatusInfo struct {
	Notice     *Notice
	Simulating bool
	Connected  bool
	Saved      string // e.g. "saved 3s ago"
}

// RenderStatusBar renders the bottom status bar. A notice replaces the key
// hints while it is showing.
func RenderStatusBar(width int, info StatusInfo) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.SurfaceHover)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.SurfaceHover)

	left := base.Render(" [a]dd  [c]onnect  [?]help  [q]uit")
	if info.Notice != nil {
		left = lipgloss.NewStyle().
			Foreground(info.Notice.Tone.color()).
			Background(t.SurfaceHover).
			Bold(true).
			Render(" " + info.Notice.Text)
	}

	var flags []string
	if info.Simulating {
		flags = append(flags, lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceHover).Render("◆ live"))
	}
	if info.Connected {
		flags = append(flags, lipgloss.NewStyle().Foreground(t.Green).Background(t.SurfaceHover).Render("● bank"))
	}
	if info.Saved != "" {
		flags = append(flags, dim.Render(info.Saved))
	}
	right := strings.Join(flags, dim.Render("  "))
	if right != "" {
		right += dim.Render(" ")
	}

	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return left + base.Render(strings.Repeat(" ", padding)) + right
}
