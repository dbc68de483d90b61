package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme colors (alpine)
var (
	ColorBorder    = lipgloss.Color("#3B4A5A")
	ColorTextDim   = lipgloss.Color("#5C6B7A")
	ColorTextMuted = lipgloss.Color("#8A99A8")
	ColorText      = lipgloss.Color("#F2F5F7")
	ColorAccent    = lipgloss.Color("#5FB3D9")
	ColorGreen     = lipgloss.Color("#7FB069")
	ColorOrange    = lipgloss.Color("#E0883A")
	ColorRed       = lipgloss.Color("#D9534F")
	ColorSnow      = lipgloss.Color("#FFFFFF")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	goodStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	warnStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	badStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	hikerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorOrange)

	snowStyle = lipgloss.NewStyle().
			Foreground(ColorSnow)
)

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	width := 55
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(width).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// Muted renders secondary text.
func Muted(s string) string { return mutedStyle.Render(s) }

// Good renders text in the success color.
func Good(s string) string { return goodStyle.Render(s) }

// Warn renders text in the warning color.
func Warn(s string) string { return warnStyle.Render(s) }

// Bad renders text in the error color.
func Bad(s string) string { return badStyle.Render(s) }

// Header renders a section header.
func Header(s string) string { return headerStyle.Render(s) }

// RenderTable renders a bordered table with headers and rows.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}

	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
	} else {
		for i, h := range t.Headers {
			if w := lipgloss.Width(h); w > widths[i] {
				widths[i] = w
			}
		}
		for _, row := range t.Rows {
			for i, cell := range row {
				if i < numCols && lipgloss.Width(cell) > widths[i] {
					widths[i] = lipgloss.Width(cell)
				}
			}
		}
	}

	var b strings.Builder

	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	rule := func(left, mid, right string) {
		b.WriteString(dimStyle.Render(left))
		for i, w := range widths {
			b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render(mid))
			}
		}
		b.WriteString(dimStyle.Render(right))
		b.WriteString("\n")
	}

	rule("╭", "┬", "╮")

	if len(t.Headers) > 0 {
		b.WriteString(dimStyle.Render("│"))
		for i, h := range t.Headers {
			b.WriteString(headerStyle.Render(" " + padRight(h, widths[i]) + " "))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
		rule("├", "┼", "┤")
	}

	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == "---" {
			rule("├", "┼", "┤")
			continue
		}

		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}

			// Right-align numeric columns (all except first)
			var padded string
			if i == 0 {
				padded = " " + padRight(cell, widths[i]) + " "
			} else {
				padded = " " + padLeft(cell, widths[i]) + " "
			}
			b.WriteString(valueStyle.Render(padded))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
	}

	rule("╰", "┴", "╯")

	return b.String()
}

func padRight(s string, w int) string {
	if gap := w - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

func padLeft(s string, w int) string {
	if gap := w - lipgloss.Width(s); gap > 0 {
		return strings.Repeat(" ", gap) + s
	}
	return s
}

// RenderProgressBar renders a text progress bar for a 0-100 value.
func RenderProgressBar(pct float64, width int) string {
	if width <= 0 {
		return ""
	}
	pct = max(0, min(pct, 100))

	filled := int(pct / 100 * float64(width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	style := goodStyle
	switch {
	case pct >= 80:
		style = headerStyle
	case pct < 30:
		style = mutedStyle
	}
	return fmt.Sprintf("[%s] %s", style.Render(bar), FormatPercent(pct))
}

// RenderSparkline generates a unicode block sparkline from a series of values.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	hi := values[0]
	for _, v := range values[1:] {
		if v > hi {
			hi = v
		}
	}
	if hi == 0 {
		hi = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int(v / hi * float64(len(blocks)-1))
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		if idx < 0 {
			idx = 0
		}
		b.WriteRune(blocks[idx])
	}

	return b.String()
}

// RenderHorizontalBar renders one bar scaled against maxValue.
func RenderHorizontalBar(value, maxValue float64, maxWidth int) string {
	if maxValue <= 0 || maxWidth <= 0 {
		return ""
	}
	barLen := int(value / maxValue * float64(maxWidth))
	barLen = max(0, min(barLen, maxWidth))
	return goodStyle.Render(strings.Repeat("█", barLen))
}

// HikerGlyph marks the climber on the mountain.
const HikerGlyph = "●"

// RenderMountain draws a mountain with one row per level, summit on top,
// and the hiker on the row of the given level.
func RenderMountain(level, levels int) string {
	if levels < 1 {
		return ""
	}
	level = max(1, min(level, levels))

	var b strings.Builder
	for row := 0; row < levels; row++ {
		lvl := levels - row
		pad := strings.Repeat(" ", levels-row-1)

		marker := " "
		if lvl == level {
			marker = hikerStyle.Render(HikerGlyph)
		}

		var slope string
		switch {
		case row == 0:
			slope = snowStyle.Render("/\\")
		case row < levels/3:
			slope = snowStyle.Render("/" + strings.Repeat("^", 2*row) + "\\")
		default:
			slope = valueStyle.Render("/" + strings.Repeat(" ", 2*row) + "\\")
		}

		label := dimStyle.Render(fmt.Sprintf("L%d", lvl))
		if lvl == level {
			label = hikerStyle.Render(fmt.Sprintf("L%d", lvl))
		}

		b.WriteString(pad)
		b.WriteString(marker)
		b.WriteString(slope)
		b.WriteString(strings.Repeat(" ", levels-row))
		b.WriteString(label)
		b.WriteString("\n")
	}
	return b.String()
}
