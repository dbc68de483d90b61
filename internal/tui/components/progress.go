package components

import (
	"fmt"
	"strings"

	"github.com/mm15146-Mahad/summit/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders a block bar for a 0-1 fraction with its percentage.
func ProgressBar(frac float64, width int) string {
	t := theme.Active
	frac = clamp01(frac)
	width = max(width, 0)
	filled := int(frac * float64(width))

	var barColor lipgloss.Color
	switch {
	case frac >= 0.8:
		barColor = t.AccentBright
	case frac >= 0.5:
		barColor = t.Accent
	default:
		barColor = t.TextMuted
	}

	filledStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	b.WriteString(filledStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(emptyStyle.Render(strings.Repeat("░", width-filled)))

	return b.String() + spaceStyle.Render(" ") + pctStyle.Render(fmt.Sprintf("%.0f%%", frac*100))
}

// ColorForGoal returns the bar color for a 0-1 goal completion: the closer
// to done, the greener.
func ColorForGoal(frac float64) string {
	t := theme.Active
	switch {
	case frac >= 1:
		return string(t.GreenBright)
	case frac >= 0.6:
		return string(t.Green)
	case frac >= 0.3:
		return string(t.Yellow)
	default:
		return string(t.Orange)
	}
}

// GoalBar renders one labeled goal row: label, bar, percent, then a note
// such as "$800 / $1,000". frac is 0-1.
func GoalBar(label string, frac float64, note string, labelW, barWidth int) string {
	t := theme.Active
	frac = clamp01(frac)

	bar := progress.New(
		progress.WithSolidFill(ColorForGoal(frac)),
		progress.WithWidth(max(barWidth, 4)),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorForGoal(frac))).Background(t.Surface).Bold(true)
	noteStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	out := labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		spaceStyle.Render(" ") +
		bar.ViewAs(frac) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%3.0f%%", frac*100))
	if note != "" {
		out += spaceStyle.Render("  ") + noteStyle.Render(note)
	}
	return out
}

// LevelBar renders the progress band toward the next level, using a gradient
// that warms as the climber nears the next camp. frac is 0-1.
func LevelBar(level int, frac float64, width int) string {
	t := theme.Active
	frac = clamp01(frac)

	prefix := fmt.Sprintf("L%d ", level)
	barW := max(width-lipgloss.Width(prefix)-5, 4)

	bar := progress.New(
		progress.WithGradient(string(t.Accent), string(t.Hiker)),
		progress.WithWidth(barW),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	levelStyle := lipgloss.NewStyle().Foreground(t.Hiker).Background(t.Surface).Bold(true)
	pctStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return levelStyle.Render(prefix) +
		bar.ViewAs(frac) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%3.0f%%", frac*100))
}

func clamp01(f float64) float64 {
	return max(0, min(f, 1))
}
