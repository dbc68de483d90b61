package engine

import (
	"testing"

	"github.com/mm15146-Mahad/summit/internal/model"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

func stateWith(points int64, streak int, income, spent int64) model.UserFinancialState {
	s := ResetState()
	s.Points = points
	s.Streak = streak
	s.Income = decimal.NewFromInt(income)
	if spent > 0 {
		s.Spending["misc"] = decimal.NewFromInt(spent)
	}
	return s
}

func TestRecomputeLevel_Table(t *testing.T) {
	cases := []struct {
		name         string
		points       int64
		streak       int
		income       int64
		spent        int64
		wantLevel    int
		wantProgress float64
	}{
		{"fresh", 0, 0, 0, 0, 1, 0},
		{"level 6 with exact savings rate", 3000, 10, 10000, 9000, 6, 0},
		{"points short of level 2", 750, 50, 1000, 0, 1, 50},
		{"level 2 ignores savings", 1000, 2, 100, 500, 2, 0},
		{"streak holds back", 5000, 4, 1000, 0, 3, 0},
		{"savings hold back", 5000, 30, 1000, 990, 2, 0},
		{"summit", 5000, 30, 1000, 800, 10, 0},
		{"summit overshoot", 7250, 99, 1000, 0, 10, 50},
		{"just under 5 percent", 2000, 5, 10000, 9501, 3, 0},
		{"exactly 5 percent", 2000, 5, 10000, 9500, 4, 0},
		{"negative savings", 4000, 30, 1000, 2000, 2, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			level, progress := RecomputeLevel(stateWith(tc.points, tc.streak, tc.income, tc.spent))
			if level != tc.wantLevel {
				t.Errorf("level = %d, want %d", level, tc.wantLevel)
			}
			if progress != tc.wantProgress {
				t.Errorf("progress = %.2f, want %.2f", progress, tc.wantProgress)
			}
		})
	}
}

func TestRecomputeLevel_Idempotent(t *testing.T) {
	s := DemoState()
	level, progress := RecomputeLevel(s)
	s.Level, s.Progress = level, progress
	l2, p2 := RecomputeLevel(s)
	if l2 != level || p2 != progress {
		t.Fatalf("second recompute = (%d, %.2f), want (%d, %.2f)", l2, p2, level, progress)
	}
}

func TestRecomputeLevel_IgnoresStoredFields(t *testing.T) {
	s := stateWith(1200, 3, 0, 0)
	s.Level = 9
	s.Progress = 77
	level, progress := RecomputeLevel(s)
	if level != 2 || progress != 40 {
		t.Fatalf("recompute = (%d, %.2f), want (2, 40.00)", level, progress)
	}
}

func TestRecomputeLevel_ProgressInRange(t *testing.T) {
	for p := int64(0); p < 6000; p += 37 {
		_, progress := RecomputeLevel(stateWith(p, 0, 0, 0))
		if progress < 0 || progress >= 100 {
			t.Fatalf("points %d: progress = %.2f, want [0,100)", p, progress)
		}
	}
}

func TestSavingsRate(t *testing.T) {
	if got := SavingsRate(stateWith(0, 0, 0, 500)); !got.IsZero() {
		t.Errorf("no income: rate = %s, want 0", got)
	}
	if got := SavingsRate(stateWith(0, 0, 4500, 3500)); got.StringFixed(2) != "22.22" {
		t.Errorf("rate = %s, want 22.22", got.StringFixed(2))
	}
	if got := SavingsRate(stateWith(0, 0, 100, 150)); !got.Equal(decimal.NewFromInt(-50)) {
		t.Errorf("rate = %s, want -50", got)
	}
}

func TestTiers_OrderedAndCopied(t *testing.T) {
	ts := Tiers()
	if len(ts) != MaxLevel-MinLevel {
		t.Fatalf("len(Tiers) = %d, want %d", len(ts), MaxLevel-MinLevel)
	}
	for i := 1; i < len(ts); i++ {
		if ts[i].Level >= ts[i-1].Level || ts[i].MinPoints >= ts[i-1].MinPoints {
			t.Fatalf("tier %d out of order: %+v after %+v", i, ts[i], ts[i-1])
		}
	}
	ts[0].MinPoints = 0
	if Tiers()[0].MinPoints == 0 {
		t.Fatal("Tiers returned the shared table")
	}
}

func TestStandingOf(t *testing.T) {
	st := StandingOf(DemoState())
	if st.Level != 4 {
		t.Fatalf("Level = %d, want 4", st.Level)
	}
	if !st.HasNext || st.Next.Level != 5 {
		t.Fatalf("Next = %+v, want level 5", st.Next)
	}
	if st.PointsNeeded != 50 {
		t.Errorf("PointsNeeded = %d, want 50", st.PointsNeeded)
	}
	if st.StreakNeeded != 0 {
		t.Errorf("StreakNeeded = %d, want 0", st.StreakNeeded)
	}
	if !st.SavingsNeeded.IsZero() {
		t.Errorf("SavingsNeeded = %s, want 0", st.SavingsNeeded)
	}

	top := StandingOf(stateWith(6000, 40, 1000, 0))
	if top.Level != MaxLevel || top.HasNext {
		t.Fatalf("summit standing = %+v, want level %d with no next", top, MaxLevel)
	}
}

func TestNextTier(t *testing.T) {
	next, ok := NextTier(ResetState())
	if !ok || next.Level != 2 || next.MinPoints != 1000 {
		t.Fatalf("NextTier(fresh) = %+v, %v, want level 2 at 1000 points", next, ok)
	}
	if _, ok := NextTier(stateWith(5000, 30, 100, 0)); ok {
		t.Fatal("NextTier at the summit reported a next tier")
	}

	for _, s := range []model.UserFinancialState{ResetState(), DemoState(), stateWith(2600, 12, 1000, 300)} {
		next, ok := NextTier(s)
		st := StandingOf(s)
		if st.HasNext != ok || cmp.Diff(next, st.Next, decimalEqual) != "" {
			t.Fatalf("StandingOf next = %+v/%v, NextTier = %+v/%v", st.Next, st.HasNext, next, ok)
		}
	}
}
