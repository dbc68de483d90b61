package engine

import (
	"github.com/mm15146-Mahad/summit/internal/model"

	"github.com/shopspring/decimal"
)

const (
	// MinLevel is the level every state starts at and falls back to.
	MinLevel = 1
	// MaxLevel is the summit.
	MaxLevel = 10

	// pointsPerBand is the width of one progress band.
	pointsPerBand = 500
)

// Tier is one row of the level table. A state reaches the tier when all of
// its requirements hold at once.
type Tier struct {
	Level          int
	MinPoints      int64
	MinStreak      int
	MinSavingsRate decimal.Decimal
	// RequiresSavings is false for the lowest tiers, which ignore the rate.
	RequiresSavings bool
}

func pct(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

// tiers is ordered from the highest level down; the first satisfied row wins.
var tiers = []Tier{
	{Level: 10, MinPoints: 5000, MinStreak: 30, MinSavingsRate: pct(20), RequiresSavings: true},
	{Level: 9, MinPoints: 4500, MinStreak: 25, MinSavingsRate: pct(18), RequiresSavings: true},
	{Level: 8, MinPoints: 4000, MinStreak: 20, MinSavingsRate: pct(15), RequiresSavings: true},
	{Level: 7, MinPoints: 3500, MinStreak: 15, MinSavingsRate: pct(12), RequiresSavings: true},
	{Level: 6, MinPoints: 3000, MinStreak: 10, MinSavingsRate: pct(10), RequiresSavings: true},
	{Level: 5, MinPoints: 2500, MinStreak: 7, MinSavingsRate: pct(8), RequiresSavings: true},
	{Level: 4, MinPoints: 2000, MinStreak: 5, MinSavingsRate: pct(5), RequiresSavings: true},
	{Level: 3, MinPoints: 1500, MinStreak: 3, MinSavingsRate: pct(3), RequiresSavings: true},
	{Level: 2, MinPoints: 1000, MinStreak: 2},
}

// Tiers returns a copy of the level table, highest level first.
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}

// Satisfied reports whether the given inputs meet every requirement of t.
func (t Tier) Satisfied(points int64, streak int, savingsRate decimal.Decimal) bool {
	if points < t.MinPoints || streak < t.MinStreak {
		return false
	}
	return !t.RequiresSavings || savingsRate.GreaterThanOrEqual(t.MinSavingsRate)
}

// SavingsRate is the percentage of income not consumed by recorded spending.
// With no income recorded the rate is defined as zero.
func SavingsRate(s model.UserFinancialState) decimal.Decimal {
	if s.Income.IsZero() {
		return decimal.Zero
	}
	return s.Income.Sub(s.TotalSpent()).Div(s.Income).Mul(pct(100))
}

// RecomputeLevel derives (level, progress) from points, streak and savings
// rate. It never reads the stored Level or Progress.
func RecomputeLevel(s model.UserFinancialState) (int, float64) {
	rate := SavingsRate(s)
	level := MinLevel
	for _, t := range tiers {
		if t.Satisfied(s.Points, s.Streak, rate) {
			level = t.Level
			break
		}
	}
	progress := float64(s.Points%pointsPerBand) / pointsPerBand * 100
	return level, progress
}

// derive rewrites the derived fields of s in place.
func derive(s *model.UserFinancialState) {
	s.Level, s.Progress = RecomputeLevel(*s)
}

// tierFor returns the table row for level, if it has one.
func tierFor(level int) (Tier, bool) {
	for _, t := range tiers {
		if t.Level == level {
			return t, true
		}
	}
	return Tier{}, false
}
