package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind distinguishes money leaving from money arriving.
type Kind int

const (
	Expense Kind = iota
	Income
)

func (k Kind) String() string {
	switch k {
	case Expense:
		return "expense"
	case Income:
		return "income"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind accepts "expense" or "income" in any case.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "expense":
		return Expense, nil
	case "income":
		return Income, nil
	}
	return 0, fmt.Errorf("unknown transaction kind %q", s)
}

// Transaction is one user-logged event. It is not retained by the engine.
type Transaction struct {
	Kind     Kind
	Amount   decimal.Decimal
	Category string
	Note     string
}

// LedgerEntry records one committed change and what it did to the score.
// Kind, Category, Amount and Note are only set for transactions.
type LedgerEntry struct {
	ID          string
	Op          string
	Kind        Kind
	Category    string
	Amount      decimal.Decimal
	Note        string
	PointsDelta int64
	StreakAfter int
	LevelAfter  int
	RecordedAt  time.Time
}
