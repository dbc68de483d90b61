// Package tui provides the interactive Bubble Tea dashboard for summit.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mm15146-Mahad/summit/internal/bank"
	"github.com/mm15146-Mahad/summit/internal/config"
	"github.com/mm15146-Mahad/summit/internal/engine"
	"github.com/mm15146-Mahad/summit/internal/logger"
	"github.com/mm15146-Mahad/summit/internal/model"
	"github.com/mm15146-Mahad/summit/internal/store"
	"github.com/mm15146-Mahad/summit/internal/tui/components"
	"github.com/mm15146-Mahad/summit/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

// HistoryLoadedMsg carries the ledger read from the store at startup.
type HistoryLoadedMsg struct {
	Entries []model.LedgerEntry
	Err     error
}

// ChangeMsg is one commit observed on the tracker.
type ChangeMsg struct {
	Change engine.Change
	At     time.Time
}

// BankResultMsg is sent when a bank connection attempt finishes.
type BankResultMsg struct {
	Conn bank.Connection
	Err  error
}

type simTickMsg struct{}

type noticeExpiredMsg struct{ seq int }

// Options wires the App to its collaborators.
type Options struct {
	Config     config.Config
	ConfigPath string // where settings are saved; defaults to config.ConfigPath()
	Tracker    *engine.Tracker
	Store      *store.Store // optional; history starts empty without it
	Bank       bank.Provider
	Simulation *engine.Simulation // nil disables background activity
	Log        zerolog.Logger
	NeedSetup  bool
}

// App is the root Bubble Tea model.
type App struct {
	cfg        config.Config
	configPath string
	tracker    *engine.Tracker
	store      *store.Store
	bank       bank.Provider
	sim        *engine.Simulation
	log        zerolog.Logger

	// Data
	state   model.UserFinancialState
	history []model.LedgerEntry // newest first
	loaded  bool
	changes chan ChangeMsg

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	simPaused bool

	// Modal forms
	form     *huh.Form
	formKind formKind
	vals     *formValues

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *setupValues
	needSetup bool

	// Bank connection in flight
	spinner     spinner.Model
	connecting  bool
	institution string

	notice    *components.Notice
	noticeSeq int

	settings settingsState
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 160
	minContentHeight = 5

	historyLimit   = 60
	noticeDuration = 3 * time.Second
	connectTimeout = 30 * time.Second
	changeBuffer   = 64
)

// NewApp creates a new TUI app model and subscribes it to the tracker.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	path := opts.ConfigPath
	if path == "" {
		path = config.ConfigPath()
	}

	a := App{
		cfg:        opts.Config,
		configPath: path,
		tracker:    opts.Tracker,
		store:      opts.Store,
		bank:       opts.Bank,
		sim:        opts.Simulation,
		log:        opts.Log,
		state:      opts.Tracker.State(),
		changes:    make(chan ChangeMsg, changeBuffer),
		needSetup:  opts.NeedSetup,
		spinner:    sp,
		settings:   newSettingsState(),
	}

	// Observers run under the tracker lock, so never block here. A full
	// buffer drops the message; the next change carries the latest state.
	changes := a.changes
	opts.Tracker.Observe(func(c engine.Change) {
		select {
		case changes <- ChangeMsg{Change: c, At: time.Now()}:
		default:
		}
	})
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnableMouseCellMotion,
		loadHistoryCmd(a.store),
		waitForChange(a.changes),
		a.spinner.Tick,
	}
	if a.sim != nil {
		cmds = append(cmds, simTickCmd(a.cfg.Simulation.Interval()))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(min(msg.Width, 72))
		}
		if a.form != nil {
			a.form = a.form.WithWidth(formWidth(msg.Width))
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.modalActive() {
			return a, nil
		}
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			return a, tea.Quit
		}
		if !a.loaded {
			return a, nil
		}

		if a.needSetup && a.setupForm != nil {
			return a.updateSetupForm(msg)
		}
		if a.form != nil {
			if key == "esc" {
				a.closeForm()
				return a, nil
			}
			return a.updateForm(msg)
		}
		if a.connecting {
			return a, nil
		}
		if a.activeTab == tabSettings && a.settings.editing {
			return a.updateSettingsInput(msg)
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		if a.activeTab == tabSettings {
			switch key {
			case "j", "down":
				if a.settings.cursor < len(settingsFields)-1 {
					a.settings.cursor++
				}
				return a, nil
			case "k", "up":
				if a.settings.cursor > 0 {
					a.settings.cursor--
				}
				return a, nil
			case "enter":
				return a.settingsStartEdit()
			}
		}

		switch key {
		case "q":
			return a, tea.Quit
		case "a":
			return a.openForm(formTransaction)
		case "c":
			return a.openForm(formConnect)
		case "e":
			return a.openForm(formGoals)
		case "n":
			return a.openForm(formCategory)
		case "R":
			return a.openForm(formReset)
		case "p":
			if a.sim == nil {
				return a.withNotice("Background activity is off in the config", components.ToneWarn)
			}
			a.simPaused = !a.simPaused
			if a.simPaused {
				return a.withNotice("Background activity paused", components.ToneNeutral)
			}
			return a.withNotice("Background activity resumed", components.ToneNeutral)
		case "left", "shift+tab":
			a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
			return a, nil
		case "right", "tab":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
			return a, nil
		}
		if len(msg.Runes) == 1 {
			if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
				a.activeTab = idx
			}
		}
		return a, nil

	case HistoryLoadedMsg:
		a.loaded = true
		if msg.Err != nil {
			a.log.Warn().Err(msg.Err).Msg("loading ledger")
		}
		a.history = msg.Entries
		if a.needSetup {
			a.setupVals = newSetupValues(a.cfg)
			a.setupForm = newSetupForm(a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(min(a.width, 72))
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case ChangeMsg:
		a.state = msg.Change.After
		if msg.Change.Op == engine.OpReset {
			a.history = nil
		}
		a.history = append([]model.LedgerEntry{store.EntryFor(msg.Change, msg.At)}, a.history...)
		if len(a.history) > historyLimit {
			a.history = a.history[:historyLimit]
		}

		cmds := []tea.Cmd{waitForChange(a.changes)}
		if n := a.noticeFor(msg.Change); n != nil {
			var cmd tea.Cmd
			a, cmd = a.setNotice(*n)
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case BankResultMsg:
		a.connecting = false
		if msg.Err != nil {
			a.log.Warn().Err(msg.Err).Str("institution", a.institution).Msg("bank connect failed")
			return a.withNotice("Could not connect: "+msg.Err.Error(), components.ToneBad)
		}
		a.tracker.Connect(msg.Conn.Balance)
		return a, nil

	case simTickMsg:
		if a.sim == nil {
			return a, nil
		}
		if !a.simPaused && a.loaded && !a.needSetup {
			if _, _, err := a.sim.Tick(a.tracker); err != nil {
				a.log.Warn().Err(err).Msg("simulation tick")
			}
		}
		return a, simTickCmd(a.cfg.Simulation.Interval())

	case noticeExpiredMsg:
		if msg.seq == a.noticeSeq {
			a.notice = nil
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loaded || a.connecting {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the active form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.form != nil {
		return a.updateForm(msg)
	}
	if a.settings.editing {
		var cmd tea.Cmd
		a.settings.input, cmd = a.settings.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) modalActive() bool {
	return a.form != nil || a.connecting || (a.needSetup && a.setupForm != nil)
}

// setNotice shows n in the status bar and schedules its removal.
func (a App) setNotice(n components.Notice) (App, tea.Cmd) {
	a.noticeSeq++
	a.notice = &n
	seq := a.noticeSeq
	return a, tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

func (a App) withNotice(text string, tone components.Tone) (tea.Model, tea.Cmd) {
	next, cmd := a.setNotice(components.Notice{Text: text, Tone: tone})
	return next, cmd
}

// noticeFor picks the status-bar message for a commit, or nil for none.
// A level change outranks everything else.
func (a App) noticeFor(c engine.Change) *components.Notice {
	before, after := c.Before, c.After
	dPoints := after.Points - before.Points

	if after.Level > before.Level {
		if !a.cfg.Notifications.Achievements {
			return nil
		}
		return &components.Notice{
			Text: fmt.Sprintf("▲ Reached camp L%d! Keep climbing", after.Level),
			Tone: components.ToneAccent,
		}
	}
	if after.Level < before.Level && c.Op != engine.OpReset {
		return &components.Notice{Text: fmt.Sprintf("▼ Slipped back to L%d", after.Level), Tone: components.ToneWarn}
	}

	switch c.Op {
	case engine.OpTransaction:
		if c.Tx == nil {
			return nil
		}
		if c.Tx.Kind == model.Expense && c.Tx.Amount.GreaterThan(before.Goals.DailyLimit) && a.cfg.Notifications.BudgetAlerts {
			return &components.Notice{
				Text: fmt.Sprintf("Over the daily limit: %+d points, streak %d", dPoints, after.Streak),
				Tone: components.ToneWarn,
			}
		}
		return &components.Notice{
			Text: fmt.Sprintf("%+d points · streak %d", dPoints, after.Streak),
			Tone: components.ToneGood,
		}
	case engine.OpConnect:
		return &components.Notice{
			Text: fmt.Sprintf("Bank connected: points set to %d", after.Points),
			Tone: components.ToneGood,
		}
	case engine.OpGoals:
		return &components.Notice{Text: "Goals updated", Tone: components.ToneGood}
	case engine.OpCategory:
		added := ""
		for name := range after.Spending {
			if _, ok := before.Spending[name]; !ok {
				added = name
			}
		}
		return &components.Notice{Text: "Tracking " + added, Tone: components.ToneGood}
	case engine.OpBonus:
		var parts []string
		if dPoints > 0 {
			parts = append(parts, fmt.Sprintf("+%d points", dPoints))
		}
		if d := after.Streak - before.Streak; d > 0 {
			parts = append(parts, fmt.Sprintf("+%d streak", d))
		}
		if len(parts) == 0 {
			return nil
		}
		return &components.Notice{Text: "Trail bonus: " + strings.Join(parts, ", "), Tone: components.ToneAccent}
	case engine.OpReset:
		return &components.Notice{Text: "All progress reset", Tone: components.ToneWarn}
	}
	return nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		err := a.saveSetupConfig()
		a.needSetup = false
		a.setupForm = nil
		if err != nil {
			return a.withNotice("Could not save config: "+err.Error(), components.ToneBad)
		}
		return a.withNotice("All set. Happy climbing!", components.ToneGood)
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading("Loading your trail log...")
	}
	if a.needSetup && a.setupForm != nil {
		return a.viewModal("Welcome to summit", a.setupForm.View())
	}
	if a.connecting {
		return a.viewLoading(fmt.Sprintf("Connecting to %s...", a.institution))
	}
	if a.form != nil {
		return a.viewModal(a.formKind.title(), a.form.View())
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  summit needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading(label string) string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("▲ summit"))
	b.WriteString(subtitleStyle.Render(" · climb your budget"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	b.WriteString(subtitleStyle.Render(" " + label))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewModal(title, body string) string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 2)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	content := titleStyle.Render(title) + "\n\n" + body + "\n" + hintStyle.Render("esc to cancel")
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(content),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Hiker).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("▲ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []struct {
		name     string
		bindings [][2]string
	}{
		{"Navigation", [][2]string{
			{"d s g x", "Jump to tab"},
			{"← → tab", "Previous / Next tab"},
			{"j k", "Move in settings"},
		}},
		{"Actions", [][2]string{
			{"a", "Add expense or income"},
			{"c", "Connect bank account"},
			{"e", "Edit goals"},
			{"n", "New spending category"},
			{"p", "Pause background activity"},
			{"R", "Reset all progress"},
			{"Enter", "Edit setting"},
			{"Esc", "Cancel"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}
	for i, sec := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(sec.name))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind[0])),
				descStyle.Render(bind[1]))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	// 1. Header: tab bar + climber line
	pillStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accentStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	hikerStyle := lipgloss.NewStyle().Foreground(t.Hiker).Background(t.Surface).Bold(true)

	name := a.cfg.Profile.DisplayName
	if name == "" {
		name = "Hiker"
	}
	climber := pillStyle.Render(" ") +
		hikerStyle.Render(components.HikerGlyph(a.cfg.Appearance.Hiker)+" "+name) +
		pillStyle.Render(" │ ") + accentStyle.Render(fmt.Sprintf("L%d", a.state.Level)) +
		pillStyle.Render(" │ ") + accentStyle.Render(fmt.Sprintf("%d pts", a.state.Points)) +
		pillStyle.Render(" │ ") + accentStyle.Render(fmt.Sprintf("%d-day streak", a.state.Streak)) +
		pillStyle.Render(" ")
	climberRow := lipgloss.NewStyle().Background(t.Surface).Width(w).Render(climber)

	header := components.RenderTabBar(a.activeTab, w) + "\n" + climberRow

	// 2. Status bar
	statusBar := components.RenderStatusBar(w, components.StatusInfo{
		Notice:     a.notice,
		Simulating: a.sim != nil && !a.simPaused,
		Connected:  a.state.BankConnected,
		Saved:      a.savedLabel(),
	})

	// 3. Content zone
	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabDashboard:
		content = a.renderDashboardTab(cw)
	case tabSpending:
		content = a.renderSpendingTab(cw)
	case tabGoals:
		content = a.renderGoalsTab(cw)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) savedLabel() string {
	if a.store == nil {
		return "not persisted"
	}
	if len(a.history) == 0 {
		return ""
	}
	return "saved " + a.history[0].RecordedAt.Format("15:04:05")
}

// ─── Commands ───────────────────────────────────────────────────

func loadHistoryCmd(st *store.Store) tea.Cmd {
	return func() tea.Msg {
		if st == nil {
			return HistoryLoadedMsg{}
		}
		entries, err := st.Entries(historyLimit)
		return HistoryLoadedMsg{Entries: entries, Err: err}
	}
}

// waitForChange blocks until the tracker reports the next commit.
func waitForChange(sub chan ChangeMsg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

func simTickCmd(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(time.Time) tea.Msg {
		return simTickMsg{}
	})
}

func connectCmd(p bank.Provider, institution string, log zerolog.Logger) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(logger.WithContext(context.Background(), log), connectTimeout)
		defer cancel()
		conn, err := p.Connect(ctx, institution)
		return BankResultMsg{Conn: conn, Err: err}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		result.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg)))
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes use the same widths as RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i := range components.Tabs {
		tabW := components.TabVisualWidth(i, a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW
		if i < len(components.Tabs)-1 {
			pos += lipgloss.Width(components.TabSeparator)
		}
	}
	return -1
}
