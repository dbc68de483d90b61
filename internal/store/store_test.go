package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/mm15146-Mahad/summit/internal/engine"
	"github.com/mm15146-Mahad/summit/internal/logger"
	"github.com/mm15146-Mahad/summit/internal/model"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Path(t.TempDir()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLoadSnapshot_Empty(t *testing.T) {
	s := openTemp(t)
	_, _, ok, err := s.LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if ok {
		t.Fatal("LoadSnapshot reported a snapshot in an empty store")
	}
}

func TestSnapshot_RoundTrip(t *testing.T) {
	s := openTemp(t)
	want := engine.DemoState()
	want.BankBalance = decimal.RequireFromString("2450.37")

	before := time.Now().Add(-time.Second)
	if err := s.SaveSnapshot(want); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	got, savedAt, ok, err := s.LoadSnapshot()
	if err != nil || !ok {
		t.Fatalf("LoadSnapshot = ok %v, err %v", ok, err)
	}
	if diff := cmp.Diff(want, got, decimalEqual); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
	if savedAt.Before(before) {
		t.Errorf("savedAt = %v, want after %v", savedAt, before)
	}
}

func TestSnapshot_KeepsOnlyLatest(t *testing.T) {
	s := openTemp(t)
	first := engine.ResetState()
	first.Points = 1
	second := engine.ResetState()
	second.Points = 2

	if err := s.SaveSnapshot(first); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveSnapshot(second); err != nil {
		t.Fatal(err)
	}

	got, _, _, err := s.LoadSnapshot()
	if err != nil {
		t.Fatal(err)
	}
	if got.Points != 2 {
		t.Fatalf("Points = %d, want 2", got.Points)
	}
}

func TestDecodeSnapshot(t *testing.T) {
	st, err := DecodeSnapshot([]byte(`{"version":1,"state":{"points":12,"streak":3,"income":"100.50"}}`))
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}
	if st.Points != 12 || st.Streak != 3 || !st.Income.Equal(decimal.RequireFromString("100.5")) {
		t.Fatalf("decoded = %+v", st)
	}
	if st.Spending == nil {
		t.Fatal("Spending is nil")
	}

	if _, err := DecodeSnapshot([]byte(`{"version":9,"state":{}}`)); err == nil {
		t.Error("accepted unknown snapshot version")
	}
	if _, err := DecodeSnapshot([]byte(`not json`)); err == nil {
		t.Error("accepted malformed snapshot")
	}
}

func TestDecodeSnapshot_FlatState(t *testing.T) {
	st, err := DecodeSnapshot([]byte(`{"points":640,"streak":4,"income":"3000","spending":{"food":"120.25"},"bank_connected":true}`))
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}
	if st.Points != 640 || st.Streak != 4 || !st.Income.Equal(decimal.RequireFromString("3000")) {
		t.Fatalf("decoded = %+v", st)
	}
	if !st.Spending["food"].Equal(decimal.RequireFromString("120.25")) {
		t.Fatalf("Spending = %v", st.Spending)
	}
	if !st.BankConnected {
		t.Fatal("BankConnected = false")
	}

	blob, err := EncodeSnapshot(st)
	if err != nil {
		t.Fatalf("EncodeSnapshot: %v", err)
	}
	back, err := DecodeSnapshot(blob)
	if err != nil {
		t.Fatalf("DecodeSnapshot(re-encoded): %v", err)
	}
	if diff := cmp.Diff(st, back, decimalEqual); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}
}

func TestEntries_NewestFirstWithLimit(t *testing.T) {
	s := openTemp(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		e := model.LedgerEntry{
			ID:          string(rune('a' + i)),
			Op:          "transaction",
			Kind:        model.Expense,
			Category:    "food",
			Amount:      decimal.NewFromInt(int64(10 * (i + 1))),
			PointsDelta: int64(2 * (i + 1)),
			StreakAfter: i + 1,
			LevelAfter:  1,
			RecordedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.RecordEntry(e); err != nil {
			t.Fatalf("RecordEntry %d: %v", i, err)
		}
	}

	got, err := s.Entries(3)
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].ID != "e" || got[2].ID != "c" {
		t.Fatalf("order = %s,%s,%s, want e,d,c", got[0].ID, got[1].ID, got[2].ID)
	}
	if !got[0].Amount.Equal(decimal.NewFromInt(50)) || got[0].Kind != model.Expense {
		t.Fatalf("newest entry = %+v", got[0])
	}
	if !got[0].RecordedAt.Equal(base.Add(4 * time.Minute)) {
		t.Errorf("RecordedAt = %v", got[0].RecordedAt)
	}

	all, err := s.Entries(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 5 {
		t.Fatalf("len(all) = %d, want 5", len(all))
	}
}

func TestRecorder_PersistsCommits(t *testing.T) {
	s := openTemp(t)
	tr := engine.NewTracker(engine.NewState(model.Goals{DailyLimit: decimal.NewFromInt(50)}))
	tr.Observe(s.Recorder(logger.Nop()))

	if _, err := tr.Apply(model.Transaction{Kind: model.Expense, Amount: decimal.NewFromInt(40), Category: "Food", Note: "groceries"}); err != nil {
		t.Fatal(err)
	}
	tr.Connect(decimal.NewFromInt(1200))

	entries, err := s.Entries(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Op != "connect" || entries[0].PointsDelta != 1200-8 {
		t.Errorf("connect entry = %+v", entries[0])
	}
	tx := entries[1]
	if tx.Op != "transaction" || tx.Category != "food" || tx.Note != "groceries" || tx.PointsDelta != 8 {
		t.Errorf("transaction entry = %+v", tx)
	}

	snap, _, ok, err := s.LoadSnapshot()
	if err != nil || !ok {
		t.Fatalf("LoadSnapshot = ok %v, err %v", ok, err)
	}
	if diff := cmp.Diff(tr.State(), snap, decimalEqual); diff != "" {
		t.Fatalf("snapshot differs from tracker (-tracker +snapshot):\n%s", diff)
	}
}

func TestRecorder_ResetClearsLedger(t *testing.T) {
	s := openTemp(t)
	tr := engine.NewTracker(engine.DemoState())
	tr.Observe(s.Recorder(logger.Nop()))

	if _, err := tr.Bonus(engine.Bonus{Points: 3}); err != nil {
		t.Fatal(err)
	}
	tr.Reset()

	n, err := s.EntryCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("EntryCount = %d, want 1 (the reset itself)", n)
	}
	snap, err := s.Seed(engine.DemoState())
	if err != nil {
		t.Fatal(err)
	}
	if snap.Points != 0 {
		t.Fatalf("seed Points = %d, want 0 after reset", snap.Points)
	}
}

func TestSeed_FallbackWhenEmpty(t *testing.T) {
	s := openTemp(t)
	got, err := s.Seed(engine.DemoState())
	if err != nil {
		t.Fatal(err)
	}
	if got.Points != 2450 {
		t.Fatalf("Points = %d, want fallback 2450", got.Points)
	}
}

func TestOpen_CreatesNestedDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", FileName)
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_ = s.Close()

	// Reopening runs migrations again without error.
	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	_ = s.Close()
}
