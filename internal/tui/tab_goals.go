package tui

import (
	"fmt"
	"strings"

	"github.com/mm15146-Mahad/summit/internal/engine"
	"github.com/mm15146-Mahad/summit/internal/tui/components"
	"github.com/mm15146-Mahad/summit/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

func (a App) renderGoalsTab(cw int) string {
	t := theme.Active
	st := a.state
	sum := engine.Summarize(st)
	innerW := components.CardInnerWidth(cw)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder

	// Row 1: goal progress
	saved := decimal.Max(sum.Remaining, decimal.Zero)
	labelW := 16
	barW := max(innerW-labelW-30, 10)

	var gb strings.Builder
	gb.WriteString(components.GoalBar("Monthly savings",
		engine.GoalProgress(saved, st.Goals.MonthlySavings)/100,
		fmt.Sprintf("%s / %s", a.fmtMoney(saved), a.fmtMoney(st.Goals.MonthlySavings)),
		labelW, barW))
	gb.WriteString("\n")
	gb.WriteString(components.GoalBar("Emergency fund",
		engine.GoalProgress(st.BankBalance, st.Goals.EmergencyFund)/100,
		fmt.Sprintf("%s / %s", a.fmtBalance(st.BankBalance), a.fmtMoney(st.Goals.EmergencyFund)),
		labelW, barW))
	gb.WriteString("\n\n")
	gb.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", labelW, "Daily limit")))
	gb.WriteString(lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Render(" " + a.fmtMoney(st.Goals.DailyLimit)))
	gb.WriteString("\n\n")
	gb.WriteString(dimStyle.Render("[e] edit goals"))
	b.WriteString(components.ContentCard("Goals", gb.String(), cw))
	b.WriteString("\n")

	// Row 2: disposable income against the monthly budget
	disposable := decimal.NewFromFloat(a.cfg.Budget.Disposable)
	total := decimal.NewFromFloat(a.cfg.Budget.MonthlyTotal)
	fb := engine.BudgetFeedback(disposable, total)

	tone := components.ToneGood
	icon := "✓"
	switch fb.Verdict {
	case engine.Warning:
		tone, icon = components.ToneWarn, "!"
	case engine.Danger:
		tone, icon = components.ToneBad, "✗"
	}

	var fbB strings.Builder
	fbB.WriteString(labelStyle.Render(fmt.Sprintf("Disposable %s of %s budget",
		a.fmtMoney(disposable), a.fmtMoney(total))))
	fbB.WriteString("\n\n")
	fbB.WriteString(budgetBar(fb.Percent, max(innerW-8, 10), tone))
	fbB.WriteString("\n\n")
	fbB.WriteString(components.MetricCard(components.Metric{
		Label: icon + " " + fb.Title,
		Value: fmt.Sprintf("%.1f%% of budget", fb.Percent),
		Note:  fb.Message,
		Tone:  tone,
	}, innerW))
	fbB.WriteString("\n")
	fbB.WriteString(dimStyle.Render("Change the budget in Settings [x]"))
	b.WriteString(components.ContentCard("Budget Check", fbB.String(), cw))
	return b.String()
}

// budgetBar fills the used share of the budget in the verdict color and the
// rest as remaining.
func budgetBar(pct float64, width int, tone components.Tone) string {
	t := theme.Active
	color := t.GreenBright
	switch tone {
	case components.ToneWarn:
		color = t.Orange
	case components.ToneBad:
		color = t.Red
	}
	filled := int(max(0, min(pct, 100)) / 100 * float64(width))

	used := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	rest := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)

	return used.Render(strings.Repeat("█", filled)) +
		rest.Render(strings.Repeat("░", width-filled)) +
		pctStyle.Render(fmt.Sprintf(" %3.0f%%", pct))
}
