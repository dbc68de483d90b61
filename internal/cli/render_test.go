package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestRenderMountain_HikerOnLevelRow(t *testing.T) {
	out := RenderMountain(7, 10)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 10 {
		t.Fatalf("lines = %d, want 10", len(lines))
	}

	for i, line := range lines {
		hasHiker := strings.Contains(line, HikerGlyph)
		onLevel := strings.HasSuffix(line, "L7")
		if hasHiker != onLevel {
			t.Fatalf("line %d %q: hiker=%v level7=%v", i, line, hasHiker, onLevel)
		}
	}
	if !strings.HasSuffix(lines[0], "L10") || !strings.HasSuffix(lines[9], "L1") {
		t.Fatalf("summit/base labels wrong:\n%s", out)
	}
}

func TestRenderMountain_ClampsLevel(t *testing.T) {
	low := strings.Split(strings.TrimRight(RenderMountain(0, 10), "\n"), "\n")
	if !strings.Contains(low[9], HikerGlyph) {
		t.Fatalf("level 0 hiker not at base:\n%s", strings.Join(low, "\n"))
	}
	high := strings.Split(strings.TrimRight(RenderMountain(42, 10), "\n"), "\n")
	if !strings.Contains(high[0], HikerGlyph) {
		t.Fatalf("level 42 hiker not at summit:\n%s", strings.Join(high, "\n"))
	}
}

func TestRenderMountain_RowsShareWidth(t *testing.T) {
	lines := strings.Split(strings.TrimRight(RenderMountain(3, 10), "\n"), "\n")
	// Every row is padded so labels line up; the two-digit label is one wider.
	want := lipgloss.Width(lines[1])
	for i := 1; i < len(lines); i++ {
		if w := lipgloss.Width(lines[i]); w != want {
			t.Fatalf("line %d width = %d, want %d", i, w, want)
		}
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(Table{
		Title:   "Spending",
		Headers: []string{"Category", "Amount"},
		Rows: [][]string{
			{"Housing", "$1,200.00"},
			{"---"},
			{"Total", "$1,200.00"},
		},
	})
	for _, want := range []string{"Spending", "Category", "Housing", "$1,200.00", "╭", "╯"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if RenderTable(Table{}) != "" {
		t.Error("empty table rendered output")
	}
}

func TestRenderProgressBar(t *testing.T) {
	out := RenderProgressBar(50, 10)
	if strings.Count(out, "█") != 5 || strings.Count(out, "░") != 5 {
		t.Fatalf("bar = %q, want 5 filled of 10", out)
	}
	if !strings.Contains(out, "50.0%") {
		t.Fatalf("bar = %q, want 50.0%%", out)
	}
	if over := RenderProgressBar(250, 4); strings.Count(over, "█") != 4 {
		t.Fatalf("overflow bar = %q", over)
	}
}

func TestRenderSparkline(t *testing.T) {
	if got := RenderSparkline([]float64{0, 7}); got != "▁█" {
		t.Fatalf("sparkline = %q", got)
	}
	if RenderSparkline(nil) != "" {
		t.Fatal("empty sparkline not empty")
	}
}
