package model

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := map[string]string{
		"42":        "42",
		" $42.10 ":  "42.1",
		"1,234.56":  "1234.56",
		"-20":       "-20",
		"1_000":     "1000",
		"$2,450.00": "2450",
	}
	for in, want := range cases {
		got, err := ParseAmount(in)
		if err != nil {
			t.Errorf("ParseAmount(%q): %v", in, err)
			continue
		}
		if !got.Equal(decimal.RequireFromString(want)) {
			t.Errorf("ParseAmount(%q) = %s, want %s", in, got, want)
		}
	}

	for _, bad := range []string{"", "  ", "$", "abc", "12x"} {
		if _, err := ParseAmount(bad); !errors.Is(err, ErrBadAmount) {
			t.Errorf("ParseAmount(%q) err = %v, want ErrBadAmount", bad, err)
		}
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind(" Income "); err != nil || k != Income {
		t.Fatalf("ParseKind(Income) = %v, %v", k, err)
	}
	if _, err := ParseKind("transfer"); err == nil {
		t.Fatal("ParseKind accepted transfer")
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := UserFinancialState{Spending: map[string]decimal.Decimal{"food": decimal.NewFromInt(5)}}
	c := s.Clone()
	c.Spending["food"] = decimal.NewFromInt(9)
	if !s.Spending["food"].Equal(decimal.NewFromInt(5)) {
		t.Fatal("Clone shares the spending map")
	}

	var empty UserFinancialState
	if empty.Clone().Spending == nil {
		t.Fatal("Clone of zero state left Spending nil")
	}
}
