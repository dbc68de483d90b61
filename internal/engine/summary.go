package engine

import (
	"sort"

	"github.com/mm15146-Mahad/summit/internal/model"

	"github.com/shopspring/decimal"
)

// Standing describes where a state sits on the level table and what the
// next tier still asks for.
type Standing struct {
	Level       int
	Progress    float64
	SavingsRate decimal.Decimal

	HasNext       bool
	Next          Tier
	PointsNeeded  int64
	StreakNeeded  int
	SavingsNeeded decimal.Decimal // percentage points, zero when met or not required
}

// Summary is the cash-flow view shown next to the mountain.
type Summary struct {
	TotalSpent decimal.Decimal
	Remaining  decimal.Decimal
	Standing
}

// StandingOf computes the level standing of s.
func StandingOf(s model.UserFinancialState) Standing {
	level, progress := RecomputeLevel(s)
	st := Standing{
		Level:       level,
		Progress:    progress,
		SavingsRate: SavingsRate(s),
	}
	next, ok := NextTier(s)
	if !ok {
		return st
	}
	st.HasNext = true
	st.Next = next
	st.PointsNeeded = max(0, next.MinPoints-s.Points)
	st.StreakNeeded = max(0, next.MinStreak-s.Streak)
	if next.RequiresSavings && st.SavingsRate.LessThan(next.MinSavingsRate) {
		st.SavingsNeeded = next.MinSavingsRate.Sub(st.SavingsRate)
	}
	return st
}

// NextTier returns the requirements of the level above s, if there is one.
func NextTier(s model.UserFinancialState) (Tier, bool) {
	level, _ := RecomputeLevel(s)
	return tierFor(level + 1)
}

// Summarize returns totals and standing for s.
func Summarize(s model.UserFinancialState) Summary {
	spent := s.TotalSpent()
	return Summary{
		TotalSpent: spent,
		Remaining:  s.Income.Sub(spent),
		Standing:   StandingOf(s),
	}
}

// CategoryShare is one spending bucket with its share of income.
type CategoryShare struct {
	Name          string
	Amount        decimal.Decimal
	ShareOfIncome float64 // percent; zero when no income is recorded
}

// CategoryBreakdown lists spending buckets, largest first.
func CategoryBreakdown(s model.UserFinancialState) []CategoryShare {
	out := make([]CategoryShare, 0, len(s.Spending))
	for name, amt := range s.Spending {
		cs := CategoryShare{Name: name, Amount: amt}
		if !s.Income.IsZero() {
			cs.ShareOfIncome = amt.Div(s.Income).Mul(pct(100)).InexactFloat64()
		}
		out = append(out, cs)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// GoalProgress returns how far current is toward target, capped at 100.
func GoalProgress(current, target decimal.Decimal) float64 {
	if !target.IsPositive() || current.IsNegative() {
		return 0
	}
	p := current.Div(target).Mul(pct(100)).InexactFloat64()
	return min(p, 100)
}

// Verdict grades a disposable-income target against the monthly budget.
type Verdict int

const (
	Safe Verdict = iota
	Warning
	Danger
)

func (v Verdict) String() string {
	switch v {
	case Safe:
		return "safe"
	case Warning:
		return "warning"
	default:
		return "danger"
	}
}

// Feedback is the result of BudgetFeedback.
type Feedback struct {
	Percent float64
	Verdict Verdict
	Title   string
	Message string
}

// BudgetFeedback compares a disposable-income target with the total budget:
// up to 50% is safe, up to 80% a warning, anything above is over budget.
func BudgetFeedback(disposable, totalBudget decimal.Decimal) Feedback {
	var p float64
	if totalBudget.IsPositive() {
		p = disposable.Div(totalBudget).Mul(pct(100)).InexactFloat64()
	}
	overNoBudget := !totalBudget.IsPositive() && disposable.IsPositive()

	switch {
	case overNoBudget:
		return Feedback{Percent: p, Verdict: Danger, Title: "Over budget",
			Message: "No monthly budget is set, so any disposable income is over it."}
	case p <= 50:
		return Feedback{Percent: p, Verdict: Safe, Title: "Great choice",
			Message: "Your disposable income target sits well inside the budget."}
	case p <= 80:
		return Feedback{Percent: p, Verdict: Warning, Title: "Approaching limit",
			Message: "Your disposable income is close to the budget limit; consider lowering it."}
	default:
		return Feedback{Percent: p, Verdict: Danger, Title: "Over budget",
			Message: "Your disposable income exceeds the budget and will cut into savings goals."}
	}
}

// DemoState is the sample climber the dashboard ships with: a mid-mountain
// user with a month of typical spending.
func DemoState() model.UserFinancialState {
	d := decimal.NewFromInt
	s := model.UserFinancialState{
		Points:      2450,
		Streak:      12,
		BankBalance: d(2450),
		Income:      d(4500),
		Spending: map[string]decimal.Decimal{
			"housing":        d(1200),
			"food":           d(800),
			"transportation": d(600),
			"entertainment":  d(400),
			"utilities":      d(300),
			"shopping":       d(200),
		},
		Goals: model.Goals{
			MonthlySavings: d(1000),
			DailyLimit:     d(50),
			EmergencyFund:  d(5000),
		},
	}
	derive(&s)
	return s
}
