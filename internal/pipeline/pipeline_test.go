package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mm15146-Mahad/summit/internal/engine"
	"github.com/mm15146-Mahad/summit/internal/logger"
	"github.com/mm15146-Mahad/summit/internal/model"
	"github.com/mm15146-Mahad/summit/internal/source"
	"github.com/mm15146-Mahad/summit/internal/store"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

func writeFile(t *testing.T, path string, lines ...string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
}

func statementDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "checking", "june.csv"),
		"date,amount,category,note",
		"2025-06-03,-30,food,groceries",
		"2025-06-01,3000,,salary",
		"2025-06-02,-75,transport,train pass",
	)
	writeFile(t, filepath.Join(root, "card", "june.jsonl"),
		`{"date":"2025-06-02","kind":"expense","amount":"12","category":"food"}`,
		`broken`,
	)
	return root
}

func TestLoad_SortsAcrossFiles(t *testing.T) {
	root := statementDir(t)

	var calls atomic.Int32
	res, err := Load(root, func(current, total int) {
		calls.Add(1)
		if total != 2 || current < 1 || current > 2 {
			t.Errorf("progress(%d, %d)", current, total)
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("progress calls = %d, want 2", n)
	}
	if res.TotalFiles != 2 || res.ParsedFiles != 2 || res.ParseErrors != 1 || res.AccountCount != 2 {
		t.Fatalf("result = %+v", res)
	}
	if len(res.Records) != 4 {
		t.Fatalf("len(Records) = %d, want 4", len(res.Records))
	}

	var notes []string
	for _, r := range res.Records {
		notes = append(notes, r.Date.Format("01-02")+" "+r.Tx.Kind.String())
	}
	want := []string{"06-01 income", "06-02 expense", "06-02 expense", "06-03 expense"}
	if diff := cmp.Diff(want, notes); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	// Same day: card/ sorts before checking/.
	if !strings.Contains(res.Records[1].File, "card") {
		t.Errorf("Records[1].File = %s, want the card statement", res.Records[1].File)
	}
}

func TestLoad_EmptyDir(t *testing.T) {
	res, err := Load(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.TotalFiles != 0 || len(res.Records) != 0 {
		t.Fatalf("result = %+v", res)
	}
}

func TestLoadNew_SkipsImportedFiles(t *testing.T) {
	root := statementDir(t)
	st, err := store.Open(store.Path(t.TempDir()))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	first, err := LoadNew(root, st, nil)
	if err != nil {
		t.Fatal(err)
	}
	if first.Reparsed != 2 || first.Unchanged != 0 {
		t.Fatalf("first = %+v", first)
	}
	if err := MarkLoaded(st, &first.LoadResult, time.Now()); err != nil {
		t.Fatal(err)
	}

	second, err := LoadNew(root, st, nil)
	if err != nil {
		t.Fatal(err)
	}
	if second.Reparsed != 0 || second.Unchanged != 2 || len(second.Records) != 0 {
		t.Fatalf("second = %+v", second)
	}

	// Appending to a statement makes it new again.
	writeFile(t, filepath.Join(root, "card", "june.jsonl"),
		`{"date":"2025-06-02","kind":"expense","amount":"12","category":"food"}`,
		`{"date":"2025-06-04","kind":"expense","amount":"8","category":"food"}`,
	)
	third, err := LoadNew(root, st, nil)
	if err != nil {
		t.Fatal(err)
	}
	if third.Reparsed != 1 || len(third.Records) != 2 {
		t.Fatalf("third = %+v", third)
	}
}

func TestAggregate(t *testing.T) {
	root := statementDir(t)
	res, err := Load(root, nil)
	if err != nil {
		t.Fatal(err)
	}

	tot := Aggregate(res.Records, decimal.NewFromInt(50))
	if tot.Records != 4 || tot.Expenses != 3 || tot.Incomes != 1 {
		t.Fatalf("counts = %+v", tot)
	}
	if !tot.Spent.Equal(decimal.NewFromInt(117)) || !tot.Earned.Equal(decimal.NewFromInt(3000)) {
		t.Fatalf("spent=%s earned=%s", tot.Spent, tot.Earned)
	}
	if tot.OverDailyCap != 1 {
		t.Errorf("OverDailyCap = %d, want 1", tot.OverDailyCap)
	}
	if tot.ActiveDays != 3 {
		t.Errorf("ActiveDays = %d, want 3", tot.ActiveDays)
	}
	if len(tot.Categories) != 2 || tot.Categories[0].Name != "transport" || tot.Categories[1].Count != 2 {
		t.Errorf("Categories = %+v", tot.Categories)
	}
}

func TestFilters(t *testing.T) {
	d := func(day int) time.Time { return time.Date(2025, 6, day, 0, 0, 0, 0, time.UTC) }
	recs := []source.Record{
		{Date: d(1), Tx: model.Transaction{Kind: model.Income, Amount: decimal.NewFromInt(10)}},
		{Date: d(2), Tx: model.Transaction{Kind: model.Expense, Amount: decimal.NewFromInt(5), Category: "Food"}},
		{Date: d(3), Tx: model.Transaction{Kind: model.Expense, Amount: decimal.NewFromInt(5), Category: "fast food"}},
	}

	if got := FilterByTime(recs, d(2), d(3)); len(got) != 1 || !got[0].Date.Equal(d(2)) {
		t.Errorf("FilterByTime = %+v", got)
	}
	if got := FilterByTime(recs, time.Time{}, time.Time{}); len(got) != 3 {
		t.Errorf("open FilterByTime = %d records", len(got))
	}
	if got := FilterByCategory(recs, "FOOD"); len(got) != 2 {
		t.Errorf("FilterByCategory = %d records, want 2", len(got))
	}
}

func TestPreviewMatchesReplay(t *testing.T) {
	root := statementDir(t)
	res, err := Load(root, nil)
	if err != nil {
		t.Fatal(err)
	}

	seed := engine.NewState(model.Goals{DailyLimit: decimal.NewFromInt(50)})
	preview := Preview(seed, res.Records)
	if seed.Points != 0 || len(seed.Spending) != 0 {
		t.Fatalf("Preview mutated the seed: %+v", seed)
	}

	st, err := store.Open(store.Path(t.TempDir()))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	tr := engine.NewTracker(seed)
	tr.Observe(st.Recorder(logger.Nop()))
	replay := Replay(tr, res.Records)

	if preview.Applied != 4 || replay.Applied != 4 || replay.Rejected != 0 {
		t.Fatalf("preview=%d replay=%d/%d", preview.Applied, replay.Applied, replay.Rejected)
	}
	eq := cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })
	if diff := cmp.Diff(preview.After, replay.After, eq); diff != "" {
		t.Fatalf("preview and replay disagree (-preview +replay):\n%s", diff)
	}
	// income 3000/25=120, 75 over limit: 75/20=3, 12/5=2, 30/5=6
	if got := replay.PointsGained(); got != 131 {
		t.Fatalf("PointsGained = %d, want 131", got)
	}
	n, err := st.EntryCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Fatalf("ledger entries = %d, want 4", n)
	}
}
