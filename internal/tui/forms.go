package tui

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mm15146-Mahad/summit/internal/engine"
	"github.com/mm15146-Mahad/summit/internal/model"
	"github.com/mm15146-Mahad/summit/internal/tui/components"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"
)

type formKind int

const (
	formNone formKind = iota
	formTransaction
	formConnect
	formGoals
	formCategory
	formReset
)

func (k formKind) title() string {
	switch k {
	case formTransaction:
		return "Log a transaction"
	case formConnect:
		return "Connect bank account"
	case formGoals:
		return "Edit goals"
	case formCategory:
		return "New spending category"
	case formReset:
		return "Reset progress"
	default:
		return ""
	}
}

// defaultCategories are offered as suggestions before the user has any.
var defaultCategories = []string{
	"housing", "food", "transportation", "entertainment", "utilities", "shopping",
}

// formValues backs every modal form; huh binds to its fields by pointer.
type formValues struct {
	kind     string
	amount   string
	category string
	note     string

	institution string

	savings   string
	daily     string
	emergency string

	newCategory string

	confirm bool
}

func formWidth(termWidth int) int {
	return max(min(termWidth-10, 64), 30)
}

func validateAmount(s string) error {
	d, err := model.ParseAmount(s)
	if err != nil {
		return err
	}
	if !d.IsPositive() {
		return errors.New("amount must be greater than zero")
	}
	return nil
}

func validateGoal(s string) error {
	d, err := model.ParseAmount(s)
	if err != nil {
		return err
	}
	if d.IsNegative() {
		return errors.New("goal cannot be negative")
	}
	return nil
}

func goalString(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// categorySuggestions lists tracked categories, then the defaults.
func categorySuggestions(s model.UserFinancialState) []string {
	seen := make(map[string]bool, len(s.Spending)+len(defaultCategories))
	out := make([]string, 0, len(s.Spending)+len(defaultCategories))
	tracked := make([]string, 0, len(s.Spending))
	for name := range s.Spending {
		tracked = append(tracked, name)
	}
	sort.Strings(tracked)
	for _, name := range append(tracked, defaultCategories...) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

func (a App) buildForm(kind formKind, v *formValues) *huh.Form {
	switch kind {
	case formTransaction:
		v.kind = model.Expense.String()
		return huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Type").
					Options(
						huh.NewOption("Expense", model.Expense.String()),
						huh.NewOption("Income", model.Income.String()),
					).
					Value(&v.kind),
				huh.NewInput().
					Title("Amount").
					Placeholder("45.00").
					Validate(validateAmount).
					Value(&v.amount),
				huh.NewInput().
					Title("Category").
					Description("Ignored for income").
					Suggestions(categorySuggestions(a.state)).
					Validate(func(s string) error {
						if v.kind == model.Expense.String() && engine.NormalizeCategory(s) == "" {
							return errors.New("an expense needs a category")
						}
						return nil
					}).
					Value(&v.category),
				huh.NewInput().
					Title("Note").
					Placeholder("optional").
					Value(&v.note),
			),
		)

	case formConnect:
		v.institution = "Summit Savings Bank"
		return huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Institution").
					Description("Connecting replaces your points with your balance.").
					Validate(func(s string) error {
						if strings.TrimSpace(s) == "" {
							return errors.New("institution is required")
						}
						return nil
					}).
					Value(&v.institution),
			),
		)

	case formGoals:
		g := a.state.Goals
		v.savings, v.daily, v.emergency = goalString(g.MonthlySavings), goalString(g.DailyLimit), goalString(g.EmergencyFund)
		return huh.NewForm(
			huh.NewGroup(
				huh.NewInput().Title("Monthly savings").Validate(validateGoal).Value(&v.savings),
				huh.NewInput().
					Title("Daily spending limit").
					Description("Expenses at or under this earn full points").
					Validate(validateGoal).
					Value(&v.daily),
				huh.NewInput().Title("Emergency fund").Validate(validateGoal).Value(&v.emergency),
			),
		)

	case formCategory:
		return huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Category name").
					Validate(func(s string) error {
						key := engine.NormalizeCategory(s)
						if key == "" {
							return engine.ErrEmptyCategory
						}
						if _, ok := a.state.Spending[key]; ok {
							return fmt.Errorf("%s is already tracked", key)
						}
						return nil
					}).
					Value(&v.newCategory),
			),
		)

	case formReset:
		return huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title("Reset all progress?").
					Description("Points, streak, spending and goals go back to zero. Settings are kept.").
					Affirmative("Reset").
					Negative("Cancel").
					Value(&v.confirm),
			),
		)
	}
	return nil
}

func (a App) openForm(kind formKind) (tea.Model, tea.Cmd) {
	if kind == formConnect && a.bank == nil {
		return a.withNotice("No bank provider configured", components.ToneWarn)
	}
	a.vals = &formValues{}
	a.form = a.buildForm(kind, a.vals).WithShowHelp(false)
	a.formKind = kind
	if a.width > 0 {
		a.form = a.form.WithWidth(formWidth(a.width))
	}
	return a, a.form.Init()
}

func (a *App) closeForm() {
	a.form = nil
	a.vals = nil
	a.formKind = formNone
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		kind, vals := a.formKind, a.vals
		a.closeForm()
		return a.submitForm(kind, vals)
	case huh.StateAborted:
		a.closeForm()
		return a, nil
	}
	return a, cmd
}

// submitForm applies a completed form. Successful commits come back through
// the change subscription, which also raises the notice.
func (a App) submitForm(kind formKind, v *formValues) (tea.Model, tea.Cmd) {
	switch kind {
	case formTransaction:
		tx, err := transactionFrom(v)
		if err != nil {
			return a.withNotice(err.Error(), components.ToneBad)
		}
		if _, err := a.tracker.Apply(tx); err != nil {
			return a.withNotice(err.Error(), components.ToneBad)
		}

	case formConnect:
		a.connecting = true
		a.institution = strings.TrimSpace(v.institution)
		return a, tea.Batch(connectCmd(a.bank, a.institution, a.log), a.spinner.Tick)

	case formGoals:
		goals, err := goalsFrom(v)
		if err != nil {
			return a.withNotice(err.Error(), components.ToneBad)
		}
		a.tracker.SetGoals(goals)

	case formCategory:
		if _, err := a.tracker.AddCategory(v.newCategory); err != nil {
			return a.withNotice(err.Error(), components.ToneBad)
		}

	case formReset:
		if v.confirm {
			a.tracker.Reset()
		}
	}
	return a, nil
}

func transactionFrom(v *formValues) (model.Transaction, error) {
	kind, err := model.ParseKind(v.kind)
	if err != nil {
		return model.Transaction{}, err
	}
	amount, err := model.ParseAmount(v.amount)
	if err != nil {
		return model.Transaction{}, err
	}
	tx := model.Transaction{
		Kind:   kind,
		Amount: amount,
		Note:   strings.TrimSpace(v.note),
	}
	if kind == model.Expense {
		tx.Category = v.category
	}
	return tx, nil
}

func goalsFrom(v *formValues) (model.Goals, error) {
	var g model.Goals
	fields := []struct {
		raw string
		dst *decimal.Decimal
	}{
		{v.savings, &g.MonthlySavings},
		{v.daily, &g.DailyLimit},
		{v.emergency, &g.EmergencyFund},
	}
	for _, f := range fields {
		d, err := model.ParseAmount(f.raw)
		if err != nil {
			return model.Goals{}, err
		}
		*f.dst = d
	}
	return g, nil
}
