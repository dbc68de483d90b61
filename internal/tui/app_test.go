package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mm15146-Mahad/summit/internal/bank"
	"github.com/mm15146-Mahad/summit/internal/config"
	"github.com/mm15146-Mahad/summit/internal/engine"
	"github.com/mm15146-Mahad/summit/internal/logger"
	"github.com/mm15146-Mahad/summit/internal/model"
	"github.com/mm15146-Mahad/summit/internal/tui/components"
	"github.com/mm15146-Mahad/summit/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
)

type failingBank struct{}

func (failingBank) Connect(context.Context, string) (bank.Connection, error) {
	return bank.Connection{}, errors.New("institution offline")
}

func newTestApp(t *testing.T, seed model.UserFinancialState) (App, *engine.Tracker) {
	t.Helper()
	tr := engine.NewTracker(seed)
	a := NewApp(Options{
		Config:     config.DefaultConfig(),
		ConfigPath: filepath.Join(t.TempDir(), "config.toml"),
		Tracker:    tr,
		Bank:       bank.Manual{Balance: decimal.NewFromInt(2450)},
		Log:        logger.Nop(),
	})
	a.width, a.height = 130, 48
	m, _ := a.Update(HistoryLoadedMsg{})
	return m.(App), tr
}

// drain feeds every pending tracker change through Update.
func drain(t *testing.T, a App) App {
	t.Helper()
	for {
		select {
		case msg := <-a.changes:
			m, _ := a.Update(msg)
			a = m.(App)
		default:
			return a
		}
	}
}

func goals50() model.Goals {
	return model.Goals{DailyLimit: decimal.NewFromInt(50)}
}

func TestChangeUpdatesStateHistoryAndNotice(t *testing.T) {
	a, tr := newTestApp(t, engine.NewState(goals50()))

	if _, err := tr.Apply(model.Transaction{Kind: model.Expense, Amount: decimal.NewFromInt(45), Category: "Food"}); err != nil {
		t.Fatal(err)
	}
	a = drain(t, a)

	if a.state.Points != 9 || a.state.Streak != 1 {
		t.Fatalf("state = points %d streak %d, want 9/1", a.state.Points, a.state.Streak)
	}
	if len(a.history) != 1 || a.history[0].Category != "food" || a.history[0].PointsDelta != 9 {
		t.Fatalf("history = %+v", a.history)
	}
	if a.notice == nil || !strings.Contains(a.notice.Text, "+9 points") {
		t.Fatalf("notice = %+v", a.notice)
	}
}

func TestOverspendRaisesBudgetAlert(t *testing.T) {
	a, tr := newTestApp(t, engine.NewState(goals50()))

	if _, err := tr.Apply(model.Transaction{Kind: model.Expense, Amount: decimal.NewFromInt(100), Category: "shopping"}); err != nil {
		t.Fatal(err)
	}
	a = drain(t, a)
	if a.notice == nil || a.notice.Tone != components.ToneWarn || !strings.Contains(a.notice.Text, "daily limit") {
		t.Fatalf("notice = %+v", a.notice)
	}
}

func TestLevelUpNoticeRespectsAchievements(t *testing.T) {
	seed := engine.NewState(goals50())
	seed.Points, seed.Streak = 990, 2

	a, tr := newTestApp(t, seed)
	if _, err := tr.Bonus(engine.Bonus{Points: 20}); err != nil {
		t.Fatal(err)
	}
	a = drain(t, a)
	if a.notice == nil || !strings.Contains(a.notice.Text, "L2") {
		t.Fatalf("level-up notice = %+v", a.notice)
	}

	b, tr2 := newTestApp(t, seed)
	b.cfg.Notifications.Achievements = false
	if _, err := tr2.Bonus(engine.Bonus{Points: 20}); err != nil {
		t.Fatal(err)
	}
	b = drain(t, b)
	if b.notice != nil {
		t.Fatalf("notice with achievements off = %+v", b.notice)
	}
}

func TestNoticeExpiresOnlyForLatest(t *testing.T) {
	a, _ := newTestApp(t, engine.ResetState())
	a, _ = a.setNotice(components.Notice{Text: "first"})
	a, _ = a.setNotice(components.Notice{Text: "second"})

	m, _ := a.Update(noticeExpiredMsg{seq: 1})
	a = m.(App)
	if a.notice == nil || a.notice.Text != "second" {
		t.Fatalf("stale expiry cleared the notice: %+v", a.notice)
	}
	m, _ = a.Update(noticeExpiredMsg{seq: 2})
	if m.(App).notice != nil {
		t.Fatal("notice not cleared")
	}
}

func TestSubmitTransactionForm(t *testing.T) {
	a, tr := newTestApp(t, engine.NewState(goals50()))

	_, _ = a.submitForm(formTransaction, &formValues{kind: "income", amount: "$1,000", category: "ignored"})
	st := tr.State()
	if st.Points != 40 || !st.Income.Equal(decimal.NewFromInt(1000)) || len(st.Spending) != 0 {
		t.Fatalf("state after income = %+v", st)
	}

	m, _ := a.submitForm(formTransaction, &formValues{kind: "expense", amount: "20"})
	if got := m.(App); got.notice == nil || got.notice.Tone != components.ToneBad {
		t.Fatalf("expense without category: notice = %+v", got.notice)
	}
	if tr.State().Points != 40 {
		t.Fatal("rejected expense changed the state")
	}
}

func TestSubmitGoalsCategoryAndReset(t *testing.T) {
	a, tr := newTestApp(t, engine.DemoState())

	_, _ = a.submitForm(formGoals, &formValues{savings: "1,500", daily: "40", emergency: "0"})
	if g := tr.State().Goals; !g.MonthlySavings.Equal(decimal.NewFromInt(1500)) || !g.DailyLimit.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("goals = %+v", g)
	}

	_, _ = a.submitForm(formCategory, &formValues{newCategory: "  Travel "})
	if _, ok := tr.State().Spending["travel"]; !ok {
		t.Fatal("category not added")
	}

	_, _ = a.submitForm(formReset, &formValues{confirm: false})
	if tr.State().Points == 0 {
		t.Fatal("reset applied without confirmation")
	}
	_, _ = a.submitForm(formReset, &formValues{confirm: true})
	if st := tr.State(); st.Points != 0 || st.Level != 1 || len(st.Spending) != 0 {
		t.Fatalf("state after reset = %+v", st)
	}
}

func TestGoalsFromRejectsBadInput(t *testing.T) {
	if _, err := goalsFrom(&formValues{savings: "abc", daily: "1", emergency: "1"}); !errors.Is(err, model.ErrBadAmount) {
		t.Fatalf("err = %v, want ErrBadAmount", err)
	}
}

func TestBankResult(t *testing.T) {
	a, tr := newTestApp(t, engine.ResetState())
	a.connecting = true

	m, _ := a.Update(BankResultMsg{Conn: bank.Connection{Institution: "x", Balance: decimal.NewFromInt(2450)}})
	a = drain(t, m.(App))
	if a.connecting {
		t.Fatal("still connecting")
	}
	if st := tr.State(); st.Points != 2450 || !st.BankConnected {
		t.Fatalf("state after connect = %+v", st)
	}
	if a.notice == nil || !strings.Contains(a.notice.Text, "2450") {
		t.Fatalf("notice = %+v", a.notice)
	}
}

func TestConnectCmdReportsProviderError(t *testing.T) {
	msg := connectCmd(failingBank{}, "First Bank", logger.Nop())()
	res, ok := msg.(BankResultMsg)
	if !ok || res.Err == nil {
		t.Fatalf("msg = %#v", msg)
	}

	a, tr := newTestApp(t, engine.ResetState())
	a.connecting = true
	m, _ := a.Update(res)
	if got := m.(App); got.notice == nil || got.notice.Tone != components.ToneBad {
		t.Fatalf("notice = %+v", got.notice)
	}
	if tr.State().BankConnected {
		t.Fatal("failed connect changed the state")
	}
}

func TestSimTickAppliesBonusUnlessPaused(t *testing.T) {
	a, tr := newTestApp(t, engine.ResetState())
	a.sim = engine.NewSimulation(1, 1, 1, nil)

	a.simPaused = true
	_, _ = a.Update(simTickMsg{})
	if tr.State().Points != 0 {
		t.Fatal("paused simulation applied a bonus")
	}

	a.simPaused = false
	_, cmd := a.Update(simTickMsg{})
	if st := tr.State(); st.Points != 1 || st.Streak != 1 {
		t.Fatalf("state after tick = points %d streak %d", st.Points, st.Streak)
	}
	if cmd == nil {
		t.Fatal("tick did not reschedule")
	}
}

func TestSettingsSaveValidatesAndPersists(t *testing.T) {
	defer theme.SetActive(theme.Alpine.Name)
	a, _ := newTestApp(t, engine.ResetState())

	a.settings.cursor = 1 // Theme
	a.settingsSave("neon")
	if a.settings.saveErr == nil || a.cfg.Appearance.Theme != "alpine" {
		t.Fatalf("invalid theme accepted: err=%v theme=%q", a.settings.saveErr, a.cfg.Appearance.Theme)
	}

	a.settingsSave("glacier")
	if a.settings.saveErr != nil || !a.settings.saved {
		t.Fatalf("save failed: %v", a.settings.saveErr)
	}
	if theme.Active.Name != "glacier" {
		t.Fatalf("active theme = %q", theme.Active.Name)
	}
	cfg, err := config.LoadFile(a.configPath)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Appearance.Theme != "glacier" {
		t.Fatalf("saved theme = %q", cfg.Appearance.Theme)
	}
}

func TestSettingsToggle(t *testing.T) {
	a, _ := newTestApp(t, engine.ResetState())
	for i, f := range settingsFields {
		if f.label == "Show balance" {
			a.settings.cursor = i
		}
	}
	before := a.cfg.Privacy.ShowBalance

	m, _ := a.settingsStartEdit()
	a = m.(App)
	if a.cfg.Privacy.ShowBalance == before || a.settings.editing {
		t.Fatal("toggle did not flip or opened an editor")
	}
	if _, err := os.Stat(a.configPath); err != nil {
		t.Fatalf("config not written: %v", err)
	}
}

func TestSaveSetupConfigAppliesGoals(t *testing.T) {
	a, tr := newTestApp(t, engine.ResetState())
	a.setupVals = newSetupValues(a.cfg)
	a.setupVals.displayName = "Ada"
	a.setupVals.daily = "75"
	a.setupVals.budget = "4,000"

	if err := a.saveSetupConfig(); err != nil {
		t.Fatal(err)
	}
	if a.cfg.Profile.DisplayName != "Ada" || a.cfg.Budget.MonthlyTotal != 4000 {
		t.Fatalf("cfg = %+v", a.cfg)
	}
	if !tr.State().Goals.DailyLimit.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("goals = %+v", tr.State().Goals)
	}
}

func TestTabKeysSwitchTabs(t *testing.T) {
	a, _ := newTestApp(t, engine.ResetState())
	m, _ := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	if got := m.(App).activeTab; got != tabGoals {
		t.Fatalf("activeTab = %d, want %d", got, tabGoals)
	}
	m, _ = m.(App).Update(tea.KeyMsg{Type: tea.KeyRight})
	if got := m.(App).activeTab; got != tabSettings {
		t.Fatalf("activeTab = %d, want %d", got, tabSettings)
	}
}

func TestViewRendersEveryTab(t *testing.T) {
	a, _ := newTestApp(t, engine.DemoState())
	a.history = []model.LedgerEntry{{Op: "transaction", Category: "food", Amount: decimal.NewFromInt(45), PointsDelta: 9, RecordedAt: time.Now()}}

	want := map[int]string{
		tabDashboard: "The Mountain",
		tabSpending:  "Spending Range",
		tabGoals:     "Budget Check",
		tabSettings:  "Display name",
	}
	for tab, title := range want {
		a.activeTab = tab
		out := a.View()
		if !strings.Contains(out, title) {
			t.Errorf("tab %d view missing %q", tab, title)
		}
	}
}

func TestViewTooNarrow(t *testing.T) {
	a, _ := newTestApp(t, engine.ResetState())
	a.width = 40
	if out := a.View(); !strings.Contains(out, "too narrow") {
		t.Fatalf("narrow view = %q", out)
	}
}
