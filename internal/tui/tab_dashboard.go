package tui

import (
	"fmt"
	"strings"

	"github.com/mm15146-Mahad/summit/internal/cli"
	"github.com/mm15146-Mahad/summit/internal/engine"
	"github.com/mm15146-Mahad/summit/internal/model"
	"github.com/mm15146-Mahad/summit/internal/tui/components"
	"github.com/mm15146-Mahad/summit/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// Tab indices, in components.Tabs order.
const (
	tabDashboard = iota
	tabSpending
	tabGoals
	tabSettings
)

func (a App) fmtMoney(d decimal.Decimal) string {
	return cli.FormatMoney(a.cfg.General.CurrencySymbol, d)
}

func (a App) fmtBalance(d decimal.Decimal) string {
	return cli.FormatBalance(a.cfg.General.CurrencySymbol, d, a.cfg.Privacy.ShowBalance)
}

func (a App) renderDashboardTab(cw int) string {
	st := a.state
	sum := engine.Summarize(st)
	var b strings.Builder

	// Row 1: metric cards
	streakTone := components.ToneNeutral
	if st.Streak >= 7 {
		streakTone = components.ToneGood
	}
	balanceNote := "not connected"
	if st.BankConnected {
		balanceNote = "connected"
	}
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Points", Value: cli.FormatNumber(st.Points), Note: a.lastDeltaNote(), Tone: components.ToneAccent},
		{Label: "Streak", Value: fmt.Sprintf("%d days", st.Streak), Tone: streakTone},
		{Label: "Level", Value: fmt.Sprintf("%d / %d", st.Level, engine.MaxLevel), Note: fmt.Sprintf("%.0f%% to next", st.Progress)},
		{Label: "Balance", Value: a.fmtBalance(st.BankBalance), Note: balanceNote},
		{Label: "Savings rate", Value: cli.FormatRate(sum.SavingsRate), Tone: savingsTone(sum.SavingsRate)},
	}, cw))
	b.WriteString("\n")

	// Row 2: mountain + next camp
	halves := components.LayoutRow(cw, 2)
	if a.isCompactLayout() {
		halves = []int{cw}
	}

	mountainW := components.CardInnerWidth(halves[0])
	mountain := components.Mountain(st.Level, engine.MaxLevel, a.cfg.Appearance.Mountain, a.cfg.Appearance.Hiker, mountainW)
	mountainCard := components.ContentCard("The Mountain", mountain+"\n\n"+
		components.LevelBar(st.Level, st.Progress/100, mountainW), halves[0])

	campCard := components.ContentCard("Next Camp", a.renderNextCamp(sum.Standing, components.CardInnerWidth(halves[len(halves)-1])), halves[len(halves)-1])

	if len(halves) == 1 {
		b.WriteString(mountainCard)
		b.WriteString("\n")
		b.WriteString(campCard)
	} else {
		b.WriteString(components.CardRow([]string{mountainCard, campCard}))
	}
	b.WriteString("\n")

	// Row 3: trail log
	b.WriteString(components.ContentCard("Trail Log", a.renderTrailLog(components.CardInnerWidth(cw)), cw))

	return b.String()
}

func savingsTone(rate decimal.Decimal) components.Tone {
	switch {
	case rate.GreaterThanOrEqual(decimal.NewFromInt(20)):
		return components.ToneGood
	case rate.IsPositive():
		return components.ToneNeutral
	default:
		return components.ToneWarn
	}
}

// lastDeltaNote describes the most recent points change.
func (a App) lastDeltaNote() string {
	if len(a.history) == 0 {
		return ""
	}
	e := a.history[0]
	return cli.FormatDelta(e.PointsDelta) + " last " + e.Op
}

func (a App) renderNextCamp(s engine.Standing, innerW int) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	doneStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	needStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	snowStyle := lipgloss.NewStyle().Foreground(t.Snow).Background(t.Surface).Bold(true)

	if !s.HasNext {
		return snowStyle.Render("⚑ You reached the summit!") + "\n" +
			labelStyle.Render("Keep your streak and savings rate to stay on top.")
	}

	req := func(label, have, need string, met bool) string {
		mark := doneStyle.Render("✓ ")
		status := doneStyle.Render("met")
		if !met {
			mark = needStyle.Render("○ ")
			status = needStyle.Render(need)
		}
		return mark + labelStyle.Render(fmt.Sprintf("%-14s", label)) +
			valueStyle.Render(fmt.Sprintf("%-10s", have)) + status
	}

	var b strings.Builder
	b.WriteString(valueStyle.Render(fmt.Sprintf("Camp L%d requires:", s.Next.Level)))
	b.WriteString("\n\n")
	b.WriteString(req("Points", cli.FormatNumber(s.Next.MinPoints),
		fmt.Sprintf("%s to go", cli.FormatNumber(s.PointsNeeded)), s.PointsNeeded == 0))
	b.WriteString("\n")
	b.WriteString(req("Streak", fmt.Sprintf("%d days", s.Next.MinStreak),
		fmt.Sprintf("%d more days", s.StreakNeeded), s.StreakNeeded == 0))
	if s.Next.RequiresSavings {
		b.WriteString("\n")
		b.WriteString(req("Savings rate", cli.FormatRate(s.Next.MinSavingsRate),
			"+"+cli.FormatRate(s.SavingsNeeded), s.SavingsNeeded.IsZero()))
	}
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render(truncStr("Spend at or under your daily limit for 1 point per 5 spent.", innerW)))
	return b.String()
}

func (a App) renderTrailLog(innerW int) string {
	t := theme.Active
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	upStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	downStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	if len(a.history) == 0 {
		return mutedStyle.Render("No activity yet. Press [a] to log your first expense or income.")
	}

	// Points after each entry, oldest first. Entries only carry deltas, so
	// walk back from the current total.
	points := make([]float64, len(a.history))
	running := a.state.Points
	for i, e := range a.history {
		points[len(a.history)-1-i] = float64(running)
		running -= e.PointsDelta
	}

	var b strings.Builder
	b.WriteString(mutedStyle.Render("Points  "))
	b.WriteString(components.Sparkline(points, t.Accent))
	b.WriteString("\n\n")

	for i, e := range a.history {
		if i == 6 {
			break
		}
		delta := upStyle.Render(fmt.Sprintf("%6s", cli.FormatDelta(e.PointsDelta)))
		if e.PointsDelta < 0 {
			delta = downStyle.Render(fmt.Sprintf("%6s", cli.FormatDelta(e.PointsDelta)))
		}
		b.WriteString(mutedStyle.Render(e.RecordedAt.Format("Jan 02 15:04") + "  "))
		b.WriteString(delta)
		b.WriteString(valueStyle.Render("  " + truncStr(a.describeEntry(e), max(innerW-28, 10))))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a App) describeEntry(e model.LedgerEntry) string {
	switch engine.Op(e.Op) {
	case engine.OpTransaction:
		if e.Kind == model.Income {
			return "Income " + a.fmtMoney(e.Amount)
		}
		s := cli.Title(e.Category) + " " + a.fmtMoney(e.Amount)
		if e.Note != "" {
			s += " · " + e.Note
		}
		return s
	case engine.OpConnect:
		return "Bank account connected"
	case engine.OpGoals:
		return "Goals updated"
	case engine.OpCategory:
		return "Category added"
	case engine.OpBonus:
		return "Trail bonus"
	case engine.OpReset:
		return "Progress reset"
	}
	return e.Op
}
