package bank

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestSimulated_ReturnsBalance(t *testing.T) {
	fixed := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	p := NewSimulated(decimal.RequireFromString("2450.00"), 0)
	p.now = func() time.Time { return fixed }

	conn, err := p.Connect(context.Background(), "  Alpine Credit Union ")
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if conn.Institution != "Alpine Credit Union" {
		t.Errorf("Institution = %q", conn.Institution)
	}
	if !conn.Balance.Equal(decimal.NewFromInt(2450)) {
		t.Errorf("Balance = %s, want 2450", conn.Balance)
	}
	if !conn.ConnectedAt.Equal(fixed) {
		t.Errorf("ConnectedAt = %v, want %v", conn.ConnectedAt, fixed)
	}
}

func TestSimulated_HonoursCancellation(t *testing.T) {
	p := NewSimulated(decimal.NewFromInt(1), time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := p.Connect(ctx, "bank")
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Connect did not return after cancel")
	}
}

func TestSimulated_WaitsForDelay(t *testing.T) {
	p := NewSimulated(decimal.NewFromInt(1), 20*time.Millisecond)
	start := time.Now()
	if _, err := p.Connect(context.Background(), "bank"); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Fatalf("returned after %v, want >= 20ms", elapsed)
	}
}

func TestSimulated_RequiresInstitution(t *testing.T) {
	_, err := NewSimulated(decimal.NewFromInt(1), 0).Connect(context.Background(), " ")
	if !errors.Is(err, ErrNoInstitution) {
		t.Fatalf("err = %v, want ErrNoInstitution", err)
	}
}

func TestManual(t *testing.T) {
	conn, err := Manual{Balance: decimal.NewFromInt(300)}.Connect(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if conn.Institution != "manual" || !conn.Balance.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("conn = %+v", conn)
	}

	_, err = Manual{Balance: decimal.NewFromInt(-1)}.Connect(context.Background(), "x")
	if !errors.Is(err, ErrNegativeBalance) {
		t.Fatalf("err = %v, want ErrNegativeBalance", err)
	}
}

func TestProvidersSatisfyInterface(t *testing.T) {
	var _ Provider = (*Simulated)(nil)
	var _ Provider = Manual{}
}
