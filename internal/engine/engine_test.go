package engine

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/mm15146-Mahad/summit/internal/model"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}

// baseState is {points:0, streak:0, income:1000, spending:{}, dailyLimit:50}.
func baseState(t *testing.T) model.UserFinancialState {
	t.Helper()
	s := ResetState()
	s.Income = dec(t, "1000")
	s.Goals.DailyLimit = dec(t, "50")
	return s
}

func expense(t *testing.T, amount, category string) model.Transaction {
	t.Helper()
	return model.Transaction{Kind: model.Expense, Amount: dec(t, amount), Category: category}
}

func TestApplyTransaction_SmartExpenseAtLimit(t *testing.T) {
	s, err := ApplyTransaction(baseState(t), expense(t, "50", "food"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.Spending["food"].Equal(dec(t, "50")) {
		t.Errorf("spending[food] = %s, want 50", s.Spending["food"])
	}
	if s.Points != 10 {
		t.Errorf("Points = %d, want 10", s.Points)
	}
	if s.Streak != 1 {
		t.Errorf("Streak = %d, want 1 (limit is inclusive)", s.Streak)
	}
	if !s.BankBalance.Equal(dec(t, "-50")) {
		t.Errorf("BankBalance = %s, want -50", s.BankBalance)
	}
}

func TestApplyTransaction_OverspendFloorsStreak(t *testing.T) {
	s, err := ApplyTransaction(baseState(t), expense(t, "100", "food"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Points != 5 {
		t.Errorf("Points = %d, want 5", s.Points)
	}
	if s.Streak != 0 {
		t.Errorf("Streak = %d, want 0", s.Streak)
	}
}

func TestApplyTransaction_OverspendDecrementsStreak(t *testing.T) {
	start := baseState(t)
	start.Streak = 4
	s, err := ApplyTransaction(start, expense(t, "50.01", "rent"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Streak != 3 {
		t.Errorf("Streak = %d, want 3", s.Streak)
	}
	if s.Points != 2 {
		t.Errorf("Points = %d, want 2 (floor(50.01/20))", s.Points)
	}
}

func TestApplyTransaction_Income(t *testing.T) {
	start := baseState(t)
	start.Streak = 5
	start.Points = 40
	start.BankBalance = dec(t, "10.50")

	s, err := ApplyTransaction(start, model.Transaction{Kind: model.Income, Amount: dec(t, "200")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Points != 48 {
		t.Errorf("Points = %d, want 48", s.Points)
	}
	if s.Streak != 6 {
		t.Errorf("Streak = %d, want 6", s.Streak)
	}
	if !s.Income.Equal(dec(t, "1200")) {
		t.Errorf("Income = %s, want 1200", s.Income)
	}
	if !s.BankBalance.Equal(dec(t, "210.50")) {
		t.Errorf("BankBalance = %s, want 210.50", s.BankBalance)
	}
	if len(s.Spending) != 0 {
		t.Errorf("income touched spending: %v", s.Spending)
	}
}

func TestApplyTransaction_CategoryNormalized(t *testing.T) {
	s, err := ApplyTransaction(baseState(t), expense(t, "12", "  Food "))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, err = ApplyTransaction(s, expense(t, "8", "FOOD"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Spending) != 1 || !s.Spending["food"].Equal(dec(t, "20")) {
		t.Fatalf("Spending = %v, want {food: 20}", s.Spending)
	}
}

func TestApplyTransaction_RejectsInvalidWithoutChange(t *testing.T) {
	cases := []struct {
		name string
		tx   model.Transaction
	}{
		{"zero amount", model.Transaction{Kind: model.Expense, Amount: decimal.Zero, Category: "food"}},
		{"negative amount", model.Transaction{Kind: model.Income, Amount: decimal.NewFromInt(-5)}},
		{"missing category", model.Transaction{Kind: model.Expense, Amount: decimal.NewFromInt(5)}},
		{"blank category", model.Transaction{Kind: model.Expense, Amount: decimal.NewFromInt(5), Category: "   "}},
		{"unknown kind", model.Transaction{Kind: model.Kind(7), Amount: decimal.NewFromInt(5)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start := baseState(t)
			start.Spending["food"] = dec(t, "3")
			before := start.Clone()

			got, err := ApplyTransaction(start, tc.tx)
			if !errors.Is(err, ErrInvalidTransaction) {
				t.Fatalf("err = %v, want ErrInvalidTransaction", err)
			}
			if diff := cmp.Diff(before, start, decimalEqual); diff != "" {
				t.Fatalf("input state mutated (-before +after):\n%s", diff)
			}
			if diff := cmp.Diff(before, got, decimalEqual); diff != "" {
				t.Fatalf("returned state differs (-before +got):\n%s", diff)
			}
		})
	}
}

func TestApplyTransaction_DoesNotMutateInput(t *testing.T) {
	start := baseState(t)
	start.Spending["food"] = dec(t, "3")
	before := start.Clone()

	if _, err := ApplyTransaction(start, expense(t, "7", "food")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(before, start, decimalEqual); diff != "" {
		t.Fatalf("input state mutated (-before +after):\n%s", diff)
	}
}

func TestApplyTransaction_StreakNeverNegative(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	s := baseState(t)
	for i := 0; i < 2000; i++ {
		amt := decimal.NewFromInt(int64(rng.IntN(120) + 1))
		var err error
		s, err = ApplyTransaction(s, model.Transaction{Kind: model.Expense, Amount: amt, Category: "misc"})
		if err != nil {
			t.Fatalf("step %d: unexpected error: %v", i, err)
		}
		if s.Streak < 0 {
			t.Fatalf("step %d: Streak = %d, want >= 0", i, s.Streak)
		}
		if s.Points < 0 {
			t.Fatalf("step %d: Points = %d, want >= 0", i, s.Points)
		}
	}
}

func TestApplyTransaction_LevelTracksPoints(t *testing.T) {
	s := baseState(t)
	s.Income = dec(t, "100000")
	s.Goals.DailyLimit = dec(t, "1000000")
	// Ten smart expenses of 500 each: 100 points and +1 streak apiece.
	for i := 0; i < 10; i++ {
		var err error
		s, err = ApplyTransaction(s, expense(t, "500", "travel"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if s.Points != 1000 || s.Streak != 10 {
		t.Fatalf("Points/Streak = %d/%d, want 1000/10", s.Points, s.Streak)
	}
	if s.Level != 2 {
		t.Errorf("Level = %d, want 2", s.Level)
	}
	if s.Progress != 0 {
		t.Errorf("Progress = %.2f, want 0", s.Progress)
	}
}

func TestConnectBankAccount_OverwritesPoints(t *testing.T) {
	start := baseState(t)
	start.Points = 9999
	start.Streak = 3

	s := ConnectBankAccount(start, dec(t, "2450.00"))
	if s.Points != 2450 {
		t.Errorf("Points = %d, want 2450", s.Points)
	}
	if !s.BankConnected {
		t.Error("BankConnected = false, want true")
	}
	if !s.BankBalance.Equal(dec(t, "2450")) {
		t.Errorf("BankBalance = %s, want 2450", s.BankBalance)
	}
	if s.Progress != 90 {
		t.Errorf("Progress = %.2f, want 90", s.Progress)
	}
	if start.Points != 9999 {
		t.Errorf("input Points mutated to %d", start.Points)
	}
}

func TestConnectBankAccount_FloorsFractionAndClampsNegative(t *testing.T) {
	if got := ConnectBankAccount(ResetState(), dec(t, "99.99")).Points; got != 99 {
		t.Errorf("Points = %d, want 99", got)
	}
	neg := ConnectBankAccount(ResetState(), dec(t, "-120.5"))
	if neg.Points != 0 {
		t.Errorf("Points = %d, want 0 for negative balance", neg.Points)
	}
	if !neg.BankBalance.Equal(dec(t, "-120.5")) {
		t.Errorf("BankBalance = %s, want -120.5", neg.BankBalance)
	}
}

func TestResetState(t *testing.T) {
	s := ResetState()
	if s.Points != 0 || s.Streak != 0 || s.Level != 1 || s.Progress != 0 {
		t.Fatalf("reset = %+v, want zeroed at level 1", s)
	}
	if s.Spending == nil {
		t.Fatal("Spending map is nil")
	}
	if !s.Income.IsZero() || !s.BankBalance.IsZero() || s.BankConnected {
		t.Fatalf("reset money fields not zero: %+v", s)
	}
}

func TestRestore_RederivesLevel(t *testing.T) {
	stale := DemoState()
	stale.Level = 9
	stale.Progress = 3
	stale.Spending = nil

	s := Restore(stale)
	if s.Level != DemoState().Level {
		t.Errorf("Level = %d, want %d", s.Level, DemoState().Level)
	}
	if s.Progress != 90 {
		t.Errorf("Progress = %.2f, want 90", s.Progress)
	}
	if s.Spending == nil {
		t.Error("Spending map is nil after restore")
	}
}

func TestSetGoals(t *testing.T) {
	start := baseState(t)
	goals := model.Goals{
		MonthlySavings: dec(t, "750"),
		DailyLimit:     dec(t, "20"),
		EmergencyFund:  dec(t, "3000"),
	}
	s := SetGoals(start, goals)
	if diff := cmp.Diff(goals, s.Goals, decimalEqual); diff != "" {
		t.Fatalf("goals (-want +got):\n%s", diff)
	}

	// A 30 expense is now overspending.
	s, err := ApplyTransaction(s, expense(t, "30", "food"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Points != 1 {
		t.Errorf("Points = %d, want 1", s.Points)
	}
}

func TestAddCategory(t *testing.T) {
	s, err := AddCategory(ResetState(), " Pets ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	amt, ok := s.Spending["pets"]
	if !ok || !amt.IsZero() {
		t.Fatalf("Spending = %v, want pets: 0", s.Spending)
	}

	if _, err := AddCategory(s, "PETS"); !errors.Is(err, ErrCategoryExists) {
		t.Errorf("duplicate err = %v, want ErrCategoryExists", err)
	}
	if _, err := AddCategory(s, "  "); !errors.Is(err, ErrEmptyCategory) {
		t.Errorf("blank err = %v, want ErrEmptyCategory", err)
	}
}

func TestApplyBonus(t *testing.T) {
	start := baseState(t)
	s, err := ApplyBonus(start, Bonus{Points: 7, Streak: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Points != 7 || s.Streak != 1 {
		t.Fatalf("Points/Streak = %d/%d, want 7/1", s.Points, s.Streak)
	}
	if _, err := ApplyBonus(s, Bonus{Points: -1}); !errors.Is(err, ErrInvalidBonus) {
		t.Errorf("err = %v, want ErrInvalidBonus", err)
	}
}

func TestApplyTransaction_PointsFloorExactly(t *testing.T) {
	tests := []struct {
		name   string
		kind   model.Kind
		amount string
		want   int64
	}{
		{"smart just under 5", model.Expense, "4.99999999999999999999", 0},
		{"smart exactly 5", model.Expense, "5", 1},
		{"smart just under 10", model.Expense, "9.9999999999999999999999", 1},
		{"overspend just under 80", model.Expense, "79.99999999999999999999", 3},
		{"overspend exactly 80", model.Expense, "80", 4},
		{"income just under 25", model.Income, "24.999999999999999999", 0},
		{"income exactly 25", model.Income, "25", 1},
		{"income just under 50", model.Income, "49.99999999999999999999999", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := model.Transaction{Kind: tt.kind, Amount: dec(t, tt.amount)}
			if tt.kind == model.Expense {
				tx.Category = "food"
			}
			s, err := ApplyTransaction(baseState(t), tx)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.Points != tt.want {
				t.Fatalf("Points = %d, want %d", s.Points, tt.want)
			}
		})
	}
}

func TestPointsSaturateInsteadOfWrapping(t *testing.T) {
	for _, bal := range []string{"9300000000000000000", "18446744073709551616", "1e20"} {
		if got := ConnectBankAccount(ResetState(), dec(t, bal)).Points; got != math.MaxInt64 {
			t.Errorf("ConnectBankAccount(%s).Points = %d, want MaxInt64", bal, got)
		}
	}

	s, err := ApplyTransaction(baseState(t), model.Transaction{Kind: model.Income, Amount: dec(t, "1e25")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Points != math.MaxInt64 {
		t.Fatalf("Points after huge income = %d, want MaxInt64", s.Points)
	}

	near := baseState(t)
	near.Points = math.MaxInt64 - 1
	s, err = ApplyTransaction(near, model.Transaction{Kind: model.Income, Amount: dec(t, "2500")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Points != math.MaxInt64 {
		t.Fatalf("Points after summing past the ceiling = %d, want MaxInt64", s.Points)
	}

	s, err = ApplyBonus(near, Bonus{Points: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Points != math.MaxInt64 {
		t.Fatalf("bonus Points = %d, want MaxInt64", s.Points)
	}
}
