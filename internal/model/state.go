// Package model defines domain types for summit's financial state and events.
package model

import (
	"maps"

	"github.com/shopspring/decimal"
)

// Goals holds the user-configurable thresholds. They are never touched by
// transactions.
type Goals struct {
	MonthlySavings decimal.Decimal `json:"monthly_savings"`
	DailyLimit     decimal.Decimal `json:"daily_limit"`
	EmergencyFund  decimal.Decimal `json:"emergency_fund"`
}

// UserFinancialState is the aggregate the gamification engine reduces over.
// Level and Progress are derived from the other fields and are rewritten on
// every engine operation.
type UserFinancialState struct {
	Points        int64                      `json:"points"`
	Streak        int                        `json:"streak"`
	Level         int                        `json:"level"`
	Progress      float64                    `json:"progress"`
	BankBalance   decimal.Decimal            `json:"bank_balance"`
	BankConnected bool                       `json:"bank_connected"`
	Income        decimal.Decimal            `json:"income"`
	Spending      map[string]decimal.Decimal `json:"spending"`
	Goals         Goals                      `json:"goals"`
}

// Clone returns a deep copy; the spending map is never shared.
func (s UserFinancialState) Clone() UserFinancialState {
	cp := s
	cp.Spending = make(map[string]decimal.Decimal, len(s.Spending))
	maps.Copy(cp.Spending, s.Spending)
	return cp
}

// TotalSpent sums every spending bucket.
func (s UserFinancialState) TotalSpent() decimal.Decimal {
	total := decimal.Zero
	for _, amt := range s.Spending {
		total = total.Add(amt)
	}
	return total
}
