package components

import (
	"fmt"
	"strings"

	"github.com/mm15146-Mahad/summit/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Hikers maps the appearance setting to the glyph drawn on the slope.
var Hikers = map[string]string{
	"hiker":   "●",
	"flag":    "⚑",
	"star":    "★",
	"diamond": "◆",
}

// HikerGlyph returns the glyph for a hiker setting, defaulting to "●".
func HikerGlyph(name string) string {
	if g, ok := Hikers[name]; ok {
		return g
	}
	return Hikers["hiker"]
}

// Mountain styles.
const (
	MountainClassic = "classic"
	MountainJagged  = "jagged"
	MountainMinimal = "minimal"
)

// MountainStyles lists the accepted mountain settings.
var MountainStyles = []string{MountainClassic, MountainJagged, MountainMinimal}

// Mountain draws one row per level with the summit on top, the hiker on the
// row of level, and a camp label on the right. The drawing is centered in
// width. level is clamped to 1..levels.
func Mountain(level, levels int, style, hiker string, width int) string {
	if levels < 1 {
		return ""
	}
	t := theme.Active
	level = max(1, min(level, levels))

	bg := lipgloss.NewStyle().Background(t.Surface)
	snow := lipgloss.NewStyle().Foreground(t.Snow).Background(t.Surface)
	rock := lipgloss.NewStyle().Foreground(t.Rock).Background(t.Surface)
	forest := lipgloss.NewStyle().Foreground(t.Forest).Background(t.Surface)
	hikerStyle := lipgloss.NewStyle().Foreground(t.Hiker).Background(t.Surface).Bold(true)
	label := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	current := lipgloss.NewStyle().Foreground(t.Hiker).Background(t.Surface).Bold(true)

	glyph := HikerGlyph(hiker)
	// Full row: marker + slope (2*levels) + gap + label.
	rowW := 1 + 2*levels + 1 + len(fmt.Sprintf("L%d", levels)) + 1
	indent := max((width-rowW)/2, 0)

	var b strings.Builder
	for row := 0; row < levels; row++ {
		lvl := levels - row
		inner := 2 * row

		var fill string
		switch style {
		case MountainMinimal:
			fill = strings.Repeat(" ", inner)
		case MountainJagged:
			fill = jaggedFill(inner, row)
		default:
			fill = strings.Repeat(" ", inner)
			if row < levels/3 {
				fill = strings.Repeat("^", inner)
			}
		}

		var slope string
		switch {
		case style == MountainMinimal:
			slope = rock.Render("/" + fill + "\\")
		case row < levels/3 || row == 0:
			slope = snow.Render("/" + fill + "\\")
		case row < 2*levels/3:
			slope = rock.Render("/" + fill + "\\")
		default:
			slope = forest.Render("/" + fill + "\\")
		}

		marker := bg.Render(" ")
		tag := label.Render(fmt.Sprintf("L%d", lvl))
		if lvl == level {
			marker = hikerStyle.Render(glyph)
			tag = current.Render(fmt.Sprintf("L%d", lvl))
		}

		b.WriteString(bg.Render(strings.Repeat(" ", indent+levels-row-1)))
		b.WriteString(marker)
		b.WriteString(slope)
		b.WriteString(bg.Render(strings.Repeat(" ", levels-row)))
		b.WriteString(tag)
		if row < levels-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func jaggedFill(n, row int) string {
	if n == 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < n; i++ {
		if (i+row)%3 == 0 {
			b.WriteByte('^')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
