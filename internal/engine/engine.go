// Package engine implements the gamification rules: a pure reducer from
// (state, event) to a new state, plus the level table and read-only
// summaries the dashboard renders.
//
// Every operation works on a deep copy of its input. On error the caller's
// state is returned as-is, so a rejected event can never be half-applied.
package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/mm15146-Mahad/summit/internal/model"

	"github.com/shopspring/decimal"
)

// Point divisors: smart spending earns the most per dollar, income less,
// overspending the least.
const (
	smartSpendDivisor = 5
	overspendDivisor  = 20
	incomeDivisor     = 25
)

// Bonus is an out-of-band reward, e.g. the simulated background activity.
type Bonus struct {
	Points int64
	Streak int
}

// ResetState returns a zeroed state at level 1.
func ResetState() model.UserFinancialState {
	s := model.UserFinancialState{
		Spending: make(map[string]decimal.Decimal),
	}
	derive(&s)
	return s
}

// NewState returns a fresh state carrying the given goals.
func NewState(goals model.Goals) model.UserFinancialState {
	s := ResetState()
	s.Goals = goals
	return s
}

// Restore normalizes a deserialized snapshot into a usable seed state.
// Missing maps are allocated and the derived fields are recomputed, so a
// snapshot with a stale or hand-edited level cannot desync.
func Restore(s model.UserFinancialState) model.UserFinancialState {
	next := s.Clone()
	if next.Points < 0 {
		next.Points = 0
	}
	if next.Streak < 0 {
		next.Streak = 0
	}
	derive(&next)
	return next
}

// NormalizeCategory trims and lower-cases a category name.
func NormalizeCategory(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ValidateTransaction checks the input constraints of ApplyTransaction.
func ValidateTransaction(tx model.Transaction) error {
	if !tx.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive, got %s", ErrInvalidTransaction, tx.Amount)
	}
	switch tx.Kind {
	case model.Expense:
		if NormalizeCategory(tx.Category) == "" {
			return fmt.Errorf("%w: expense requires a category", ErrInvalidTransaction)
		}
	case model.Income:
	default:
		return fmt.Errorf("%w: unknown kind %s", ErrInvalidTransaction, tx.Kind)
	}
	return nil
}

// ApplyTransaction applies one expense or income to state and returns the
// fully updated copy.
func ApplyTransaction(state model.UserFinancialState, tx model.Transaction) (model.UserFinancialState, error) {
	if err := ValidateTransaction(tx); err != nil {
		return state, err
	}

	next := state.Clone()
	switch tx.Kind {
	case model.Expense:
		category := NormalizeCategory(tx.Category)
		next.Spending[category] = next.Spending[category].Add(tx.Amount)
		next.BankBalance = next.BankBalance.Sub(tx.Amount)

		// The daily limit itself still counts as smart spending.
		if tx.Amount.LessThanOrEqual(next.Goals.DailyLimit) {
			next.Points = addPoints(next.Points, floorDiv(tx.Amount, smartSpendDivisor))
			next.Streak++
		} else {
			next.Points = addPoints(next.Points, floorDiv(tx.Amount, overspendDivisor))
			next.Streak = max(0, next.Streak-1)
		}

	case model.Income:
		next.Income = next.Income.Add(tx.Amount)
		next.BankBalance = next.BankBalance.Add(tx.Amount)
		next.Points = addPoints(next.Points, floorDiv(tx.Amount, incomeDivisor))
		next.Streak++
	}

	derive(&next)
	return next, nil
}

// ConnectBankAccount replaces the balance and overwrites points with the
// floored balance. Prior point history is discarded.
func ConnectBankAccount(state model.UserFinancialState, balance decimal.Decimal) model.UserFinancialState {
	next := state.Clone()
	next.BankBalance = balance
	next.Points = clampPoints(balance.Floor())
	next.BankConnected = true
	derive(&next)
	return next
}

// SetGoals assigns new goal thresholds. No validation is applied.
func SetGoals(state model.UserFinancialState, goals model.Goals) model.UserFinancialState {
	next := state.Clone()
	next.Goals = goals
	derive(&next)
	return next
}

// AddCategory starts tracking an empty spending bucket.
func AddCategory(state model.UserFinancialState, name string) (model.UserFinancialState, error) {
	key := NormalizeCategory(name)
	if key == "" {
		return state, ErrEmptyCategory
	}
	if _, ok := state.Spending[key]; ok {
		return state, fmt.Errorf("%w: %s", ErrCategoryExists, key)
	}
	next := state.Clone()
	next.Spending[key] = decimal.Zero
	return next, nil
}

// ApplyBonus adds out-of-band points and streak.
func ApplyBonus(state model.UserFinancialState, b Bonus) (model.UserFinancialState, error) {
	if b.Points < 0 || b.Streak < 0 {
		return state, ErrInvalidBonus
	}
	next := state.Clone()
	next.Points = addPoints(next.Points, b.Points)
	next.Streak += b.Streak
	derive(&next)
	return next, nil
}

var pointsCeiling = decimal.NewFromInt(math.MaxInt64)

// floorDiv is floor(amount/divisor) for a non-negative amount. QuoRem with
// precision 0 divides exactly, so a quotient just under an integer is not
// rounded up to it.
func floorDiv(amount decimal.Decimal, divisor int64) int64 {
	q, _ := amount.QuoRem(decimal.NewFromInt(divisor), 0)
	return clampPoints(q)
}

// clampPoints converts a whole number to points, saturating at 0 and
// math.MaxInt64 instead of wrapping.
func clampPoints(d decimal.Decimal) int64 {
	switch {
	case d.Sign() <= 0:
		return 0
	case d.GreaterThanOrEqual(pointsCeiling):
		return math.MaxInt64
	}
	return d.IntPart()
}

// addPoints adds two non-negative point counts, saturating at math.MaxInt64.
func addPoints(a, b int64) int64 {
	if b > math.MaxInt64-a {
		return math.MaxInt64
	}
	return a + b
}
