package pipeline

import (
	"sort"
	"strings"
	"time"

	"github.com/mm15146-Mahad/summit/internal/engine"
	"github.com/mm15146-Mahad/summit/internal/model"
	"github.com/mm15146-Mahad/summit/internal/source"

	"github.com/shopspring/decimal"
)

// CategoryTotal is the statement spending of one category.
type CategoryTotal struct {
	Name   string
	Amount decimal.Decimal
	Count  int
}

// Totals summarizes a set of statement records.
type Totals struct {
	Records      int
	Expenses     int
	Incomes      int
	Spent        decimal.Decimal
	Earned       decimal.Decimal
	Categories   []CategoryTotal // largest first
	First, Last  time.Time
	ActiveDays   int
	OverDailyCap int // expenses above the given daily limit
}

// Aggregate computes statement totals. Expenses above dailyLimit are
// counted when dailyLimit is positive.
func Aggregate(recs []source.Record, dailyLimit decimal.Decimal) Totals {
	t := Totals{Spent: decimal.Zero, Earned: decimal.Zero}
	byCat := make(map[string]*CategoryTotal)
	days := make(map[string]struct{})

	for _, r := range recs {
		t.Records++
		if t.First.IsZero() || r.Date.Before(t.First) {
			t.First = r.Date
		}
		if r.Date.After(t.Last) {
			t.Last = r.Date
		}
		days[r.Date.Format("2006-01-02")] = struct{}{}

		switch r.Tx.Kind {
		case model.Income:
			t.Incomes++
			t.Earned = t.Earned.Add(r.Tx.Amount)
		case model.Expense:
			t.Expenses++
			t.Spent = t.Spent.Add(r.Tx.Amount)
			if dailyLimit.IsPositive() && r.Tx.Amount.GreaterThan(dailyLimit) {
				t.OverDailyCap++
			}
			name := engine.NormalizeCategory(r.Tx.Category)
			ct, ok := byCat[name]
			if !ok {
				ct = &CategoryTotal{Name: name, Amount: decimal.Zero}
				byCat[name] = ct
			}
			ct.Amount = ct.Amount.Add(r.Tx.Amount)
			ct.Count++
		}
	}
	t.ActiveDays = len(days)

	t.Categories = make([]CategoryTotal, 0, len(byCat))
	for _, ct := range byCat {
		t.Categories = append(t.Categories, *ct)
	}
	sort.Slice(t.Categories, func(i, j int) bool {
		if c := t.Categories[i].Amount.Cmp(t.Categories[j].Amount); c != 0 {
			return c > 0
		}
		return t.Categories[i].Name < t.Categories[j].Name
	})
	return t
}

// FilterByTime returns records within [since, until). Zero bounds are open.
func FilterByTime(recs []source.Record, since, until time.Time) []source.Record {
	var out []source.Record
	for _, r := range recs {
		if !since.IsZero() && r.Date.Before(since) {
			continue
		}
		if !until.IsZero() && !r.Date.Before(until) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// FilterByCategory keeps expenses whose category contains substr, ignoring
// case. Income never matches.
func FilterByCategory(recs []source.Record, substr string) []source.Record {
	var out []source.Record
	for _, r := range recs {
		if r.Tx.Kind == model.Expense && containsIgnoreCase(r.Tx.Category, substr) {
			out = append(out, r)
		}
	}
	return out
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// Outcome is the effect of replaying records.
type Outcome struct {
	Applied  int
	Rejected int
	Before   model.UserFinancialState
	After    model.UserFinancialState
}

// PointsGained is the points difference the replay made.
func (o Outcome) PointsGained() int64 {
	return o.After.Points - o.Before.Points
}

// Preview folds records over state with the pure reducer and commits
// nothing.
func Preview(state model.UserFinancialState, recs []source.Record) Outcome {
	out := Outcome{Before: state, After: state}
	for _, r := range recs {
		next, err := engine.ApplyTransaction(out.After, r.Tx)
		if err != nil {
			out.Rejected++
			continue
		}
		out.After = next
		out.Applied++
	}
	return out
}

// Replay applies records through t one at a time, so every observer sees
// each transaction.
func Replay(t *engine.Tracker, recs []source.Record) Outcome {
	out := Outcome{Before: t.State()}
	for _, r := range recs {
		if _, err := t.Apply(r.Tx); err != nil {
			out.Rejected++
			continue
		}
		out.Applied++
	}
	out.After = t.State()
	return out
}
