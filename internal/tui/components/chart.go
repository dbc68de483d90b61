package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/mm15146-Mahad/summit/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	peak := values[0]
	for _, v := range values[1:] {
		peak = max(peak, v)
	}
	if peak == 0 {
		peak = 1
	}

	style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var buf strings.Builder
	buf.Grow(len(values) * 3)
	for _, v := range values {
		idx := int(v / peak * float64(len(sparkBlocks)-1))
		idx = max(0, min(idx, len(sparkBlocks)-1))
		buf.WriteRune(sparkBlocks[idx])
	}
	return style.Render(buf.String())
}

// Peak is one column of a MountainRange.
type Peak struct {
	Label string
	Value float64
}

// MountainRange draws each value as a peak rising from a shared baseline,
// with a y-axis of rounded ticks. The top cell of every peak is capped with
// snow. Peaks that do not fit the width are dropped from the right, so pass
// them largest first.
func MountainRange(peaks []Peak, width, height int) string {
	if len(peaks) == 0 {
		return ""
	}
	t := theme.Active
	if width < 15 || height < 3 {
		values := make([]float64, len(peaks))
		for i, p := range peaks {
			values[i] = p.Value
		}
		return Sparkline(values, t.Rock)
	}

	maxVal := 0.0
	for _, p := range peaks {
		maxVal = max(maxVal, p.Value)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	tickStep := chartTickStep(maxVal)
	maxIntervals := max(height/2, 2)
	for int(math.Ceil(maxVal/tickStep)) > maxIntervals {
		tickStep *= 2
	}
	ceiling := math.Ceil(maxVal/tickStep) * tickStep
	numIntervals := max(int(math.Round(ceiling/tickStep)), 1)
	rowsPerTick := max(height/numIntervals, 2)
	chartH := rowsPerTick * numIntervals

	yLabelW := max(len(formatChartLabel(ceiling))+1, 4)
	tickLabels := make(map[int]string, numIntervals)
	for i := 1; i <= numIntervals; i++ {
		tickLabels[i*rowsPerTick] = formatChartLabel(tickStep * float64(i))
	}

	chartW := max(width-yLabelW-1, 5)
	const gap = 1
	colW := 8
	if fit := (chartW + gap) / (colW + gap); fit < len(peaks) {
		if fit < 1 {
			fit = 1
		}
		peaks = peaks[:fit]
	}
	n := len(peaks)
	axisLen := n*colW + (n-1)*gap

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	bg := lipgloss.NewStyle().Background(t.Surface)
	snowStyle := lipgloss.NewStyle().Foreground(t.Snow).Background(t.Surface)

	// The topmost filled row of each peak gets the snow cap.
	capRow := make([]int, n)
	for i, p := range peaks {
		capRow[i] = int(math.Ceil(p.Value / ceiling * float64(chartH)))
	}

	var b strings.Builder
	for row := chartH; row >= 1; row-- {
		rowPct := float64(row) / float64(chartH)
		slope := t.Forest
		if rowPct > 0.4 {
			slope = t.Rock
		}
		slopeStyle := lipgloss.NewStyle().Foreground(slope).Background(t.Surface)

		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, tickLabels[row])))
		b.WriteString(axisStyle.Render("│"))

		for i := range peaks {
			if i > 0 {
				b.WriteString(bg.Render(strings.Repeat(" ", gap)))
			}
			switch {
			case row > capRow[i]:
				b.WriteString(bg.Render(strings.Repeat(" ", colW)))
			case row == capRow[i]:
				// Narrow summit: the peak tapers toward its top.
				inner := max(colW-4, 1)
				side := (colW - inner - 2) / 2
				cell := strings.Repeat(" ", side) + "/" + strings.Repeat("▲", inner) + "\\"
				b.WriteString(snowStyle.Render(fmt.Sprintf("%-*s", colW, cell)))
			default:
				b.WriteString(slopeStyle.Render(strings.Repeat("█", colW)))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, "0")))
	b.WriteString(axisStyle.Render("└"))
	b.WriteString(axisStyle.Render(strings.Repeat("─", axisLen)))
	b.WriteString("\n")

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	b.WriteString(bg.Render(strings.Repeat(" ", yLabelW+1)))
	for i, p := range peaks {
		if i > 0 {
			b.WriteString(bg.Render(strings.Repeat(" ", gap)))
		}
		lbl := p.Label
		if len(lbl) > colW {
			lbl = lbl[:colW]
		}
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", colW, lbl)))
	}
	return b.String()
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	exp := math.Floor(math.Log10(rough))
	base := math.Pow(10, exp)
	frac := rough / base

	switch {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func formatChartLabel(v float64) string {
	switch {
	case v >= 1e6:
		if v == math.Trunc(v/1e6)*1e6 {
			return fmt.Sprintf("%.0fM", v/1e6)
		}
		return fmt.Sprintf("%.1fM", v/1e6)
	case v >= 1e3:
		if v == math.Trunc(v/1e3)*1e3 {
			return fmt.Sprintf("%.0fk", v/1e3)
		}
		return fmt.Sprintf("%.1fk", v/1e3)
	case v >= 1:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
