package tui

import (
	"fmt"
	"strings"

	"github.com/mm15146-Mahad/summit/internal/cli"
	"github.com/mm15146-Mahad/summit/internal/engine"
	"github.com/mm15146-Mahad/summit/internal/tui/components"
	"github.com/mm15146-Mahad/summit/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderSpendingTab(cw int) string {
	t := theme.Active
	st := a.state
	sum := engine.Summarize(st)
	shares := engine.CategoryBreakdown(st)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(t.Rock).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder

	// Row 1: the spending range
	innerW := components.CardInnerWidth(cw)
	if len(shares) == 0 {
		b.WriteString(components.ContentCard("Spending Range",
			labelStyle.Render("No spending yet. Press [a] to log an expense or [n] to add a category."), cw))
		b.WriteString("\n")
	} else {
		peaks := make([]components.Peak, len(shares))
		for i, s := range shares {
			peaks[i] = components.Peak{Label: s.Name, Value: s.Amount.InexactFloat64()}
		}
		chartH := 10
		if a.isCompactLayout() {
			chartH = 7
		}
		b.WriteString(components.ContentCard("Spending Range", components.MountainRange(peaks, innerW, chartH), cw))
		b.WriteString("\n")
	}

	// Row 2: categories table + summary
	halves := components.LayoutRow(cw, 2)
	if a.isCompactLayout() {
		halves = []int{cw}
	}
	tableW := components.CardInnerWidth(halves[0])

	nameW := 14
	amtW := 12
	shareW := 7
	barW := max(tableW-nameW-amtW-shareW-3, 0)

	var tbl strings.Builder
	tbl.WriteString(headerStyle.Render(fmt.Sprintf("%-*s %*s %*s", nameW, "Category", amtW, "Amount", shareW, "Income")))
	tbl.WriteString("\n")
	tbl.WriteString(dimStyle.Render(strings.Repeat("─", tableW)))
	tbl.WriteString("\n")

	var maxAmt float64
	if len(shares) > 0 {
		maxAmt = shares[0].Amount.InexactFloat64()
	}
	for _, s := range shares {
		share := "—"
		if !st.Income.IsZero() {
			share = cli.FormatPercent(s.ShareOfIncome)
		}
		tbl.WriteString(valueStyle.Render(fmt.Sprintf("%-*s", nameW, truncStr(cli.Title(s.Name), nameW))))
		tbl.WriteString(spaceStyle.Render(" "))
		tbl.WriteString(valueStyle.Render(fmt.Sprintf("%*s", amtW, a.fmtMoney(s.Amount))))
		tbl.WriteString(spaceStyle.Render(" "))
		tbl.WriteString(labelStyle.Render(fmt.Sprintf("%*s", shareW, share)))
		if barW > 0 && maxAmt > 0 {
			n := int(s.Amount.InexactFloat64() / maxAmt * float64(barW))
			tbl.WriteString(spaceStyle.Render(" "))
			tbl.WriteString(barStyle.Render(strings.Repeat("▇", n)))
		}
		tbl.WriteString("\n")
	}
	if len(shares) == 0 {
		tbl.WriteString(labelStyle.Render("No categories tracked"))
	}
	tableCard := components.ContentCard("Categories", strings.TrimRight(tbl.String(), "\n"), halves[0])

	remainingStyle := valueStyle
	if sum.Remaining.IsNegative() {
		remainingStyle = lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Bold(true)
	}
	row := func(label, value string, style lipgloss.Style) string {
		return labelStyle.Render(fmt.Sprintf("%-16s", label)) + style.Render(value) + "\n"
	}
	var sb strings.Builder
	sb.WriteString(row("Income", a.fmtMoney(st.Income), valueStyle))
	sb.WriteString(row("Spent", a.fmtMoney(sum.TotalSpent), valueStyle))
	sb.WriteString(row("Remaining", a.fmtMoney(sum.Remaining), remainingStyle))
	sb.WriteString(row("Savings rate", cli.FormatRate(sum.SavingsRate), valueStyle))
	sb.WriteString(row("Categories", fmt.Sprintf("%d", len(shares)), valueStyle))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(fmt.Sprintf("Daily limit %s", a.fmtMoney(st.Goals.DailyLimit))))
	summaryCard := components.ContentCard("Cash Flow", sb.String(), halves[len(halves)-1])

	if len(halves) == 1 {
		b.WriteString(tableCard)
		b.WriteString("\n")
		b.WriteString(summaryCard)
	} else {
		b.WriteString(components.CardRow([]string{tableCard, summaryCard}))
	}
	return b.String()
}
