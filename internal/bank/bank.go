// Package bank links a financial state to an account balance. There is no
// real institution behind it: Simulated stands in for one and Manual takes
// the balance the user types.
package bank

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mm15146-Mahad/summit/internal/logger"

	"github.com/shopspring/decimal"
)

var (
	// ErrNoInstitution is returned when the account name is blank.
	ErrNoInstitution = errors.New("bank: institution name is empty")
	// ErrNegativeBalance is returned by Manual for a balance below zero.
	ErrNegativeBalance = errors.New("bank: balance must not be negative")
)

// Connection is the outcome of linking an account.
type Connection struct {
	Institution string
	Balance     decimal.Decimal
	ConnectedAt time.Time
}

// Provider links an account and reports its balance.
type Provider interface {
	Connect(ctx context.Context, institution string) (Connection, error)
}

// DefaultDelay is how long Simulated pretends to talk to the bank.
const DefaultDelay = 2 * time.Second

// Simulated returns a fixed balance after a delay.
type Simulated struct {
	Balance decimal.Decimal
	Delay   time.Duration
	now     func() time.Time
}

// NewSimulated returns a provider answering with balance after delay.
func NewSimulated(balance decimal.Decimal, delay time.Duration) *Simulated {
	return &Simulated{Balance: balance, Delay: delay, now: time.Now}
}

// Connect waits for the configured delay, or until ctx is done.
func (s *Simulated) Connect(ctx context.Context, institution string) (Connection, error) {
	name := strings.TrimSpace(institution)
	if name == "" {
		return Connection{}, ErrNoInstitution
	}
	log := logger.FromContext(ctx)
	log.Debug().Str("institution", name).Dur("delay", s.Delay).Msg("simulated bank handshake")

	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Connection{}, fmt.Errorf("bank: connecting to %s: %w", name, ctx.Err())
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return Connection{}, fmt.Errorf("bank: connecting to %s: %w", name, err)
	}

	now := time.Now
	if s.now != nil {
		now = s.now
	}
	log.Info().Str("institution", name).Str("balance", s.Balance.StringFixed(2)).Msg("bank connected")
	return Connection{Institution: name, Balance: s.Balance, ConnectedAt: now()}, nil
}

// Manual reports a balance the user entered.
type Manual struct {
	Balance decimal.Decimal
}

// Connect returns the entered balance immediately.
func (m Manual) Connect(ctx context.Context, institution string) (Connection, error) {
	if err := ctx.Err(); err != nil {
		return Connection{}, err
	}
	name := strings.TrimSpace(institution)
	if name == "" {
		name = "manual"
	}
	if m.Balance.IsNegative() {
		return Connection{}, ErrNegativeBalance
	}
	return Connection{Institution: name, Balance: m.Balance, ConnectedAt: time.Now()}, nil
}
