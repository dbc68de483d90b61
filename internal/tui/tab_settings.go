package tui

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/mm15146-Mahad/summit/internal/config"
	"github.com/mm15146-Mahad/summit/internal/model"
	"github.com/mm15146-Mahad/summit/internal/tui/components"
	"github.com/mm15146-Mahad/summit/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// settingsField is one editable row. Toggle fields flip on Enter; the rest
// open a text input whose value is handed to set.
type settingsField struct {
	label       string
	placeholder string
	get         func(config.Config) string
	set         func(*config.Config, string) error
	toggle      func(*config.Config)
}

func boolLabel(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func parseMoneySetting(val string) (float64, error) {
	d, err := model.ParseAmount(val)
	if err != nil {
		return 0, err
	}
	if d.IsNegative() {
		return 0, errors.New("must not be negative")
	}
	return d.InexactFloat64(), nil
}

func oneOf(val string, allowed []string) error {
	if !slices.Contains(allowed, val) {
		return fmt.Errorf("choose one of %s", strings.Join(allowed, ", "))
	}
	return nil
}

var settingsFields = []settingsField{
	{
		label:       "Display name",
		placeholder: "Budget Hiker",
		get:         func(c config.Config) string { return c.Profile.DisplayName },
		set: func(c *config.Config, v string) error {
			if v == "" {
				return errors.New("name is empty")
			}
			c.Profile.DisplayName = v
			return nil
		},
	},
	{
		label:       "Theme",
		placeholder: strings.Join(theme.Names(), ", "),
		get:         func(c config.Config) string { return c.Appearance.Theme },
		set: func(c *config.Config, v string) error {
			if err := oneOf(v, theme.Names()); err != nil {
				return err
			}
			c.Appearance.Theme = v
			theme.SetActive(v)
			return nil
		},
	},
	{
		label:       "Mountain",
		placeholder: strings.Join(components.MountainStyles, ", "),
		get:         func(c config.Config) string { return c.Appearance.Mountain },
		set: func(c *config.Config, v string) error {
			if err := oneOf(v, components.MountainStyles); err != nil {
				return err
			}
			c.Appearance.Mountain = v
			return nil
		},
	},
	{
		label:       "Hiker",
		placeholder: "hiker, flag, star, diamond",
		get:         func(c config.Config) string { return c.Appearance.Hiker },
		set: func(c *config.Config, v string) error {
			if _, ok := components.Hikers[v]; !ok {
				return errors.New("choose one of hiker, flag, star, diamond")
			}
			c.Appearance.Hiker = v
			return nil
		},
	},
	{
		label:       "Currency",
		placeholder: "$",
		get:         func(c config.Config) string { return c.General.CurrencySymbol },
		set: func(c *config.Config, v string) error {
			if v == "" {
				return errors.New("symbol is empty")
			}
			c.General.CurrencySymbol = v
			return nil
		},
	},
	{
		label:       "Monthly budget",
		placeholder: "3000",
		get:         func(c config.Config) string { return formatFloat(c.Budget.MonthlyTotal) },
		set: func(c *config.Config, v string) error {
			f, err := parseMoneySetting(v)
			if err != nil {
				return err
			}
			c.Budget.MonthlyTotal = f
			return nil
		},
	},
	{
		label:       "Disposable income",
		placeholder: "500",
		get:         func(c config.Config) string { return formatFloat(c.Budget.Disposable) },
		set: func(c *config.Config, v string) error {
			f, err := parseMoneySetting(v)
			if err != nil {
				return err
			}
			c.Budget.Disposable = f
			return nil
		},
	},
	{
		label:  "Show balance",
		get:    func(c config.Config) string { return boolLabel(c.Privacy.ShowBalance) },
		toggle: func(c *config.Config) { c.Privacy.ShowBalance = !c.Privacy.ShowBalance },
	},
	{
		label:  "Budget alerts",
		get:    func(c config.Config) string { return boolLabel(c.Notifications.BudgetAlerts) },
		toggle: func(c *config.Config) { c.Notifications.BudgetAlerts = !c.Notifications.BudgetAlerts },
	},
	{
		label:  "Achievements",
		get:    func(c config.Config) string { return boolLabel(c.Notifications.Achievements) },
		toggle: func(c *config.Config) { c.Notifications.Achievements = !c.Notifications.Achievements },
	},
	{
		label:  "Trail bonuses",
		get:    func(c config.Config) string { return boolLabel(c.Simulation.Enabled) + " (next launch)" },
		toggle: func(c *config.Config) { c.Simulation.Enabled = !c.Simulation.Enabled },
	},
	{
		label:       "Bonus interval",
		placeholder: "5 (seconds)",
		get:         func(c config.Config) string { return strconv.Itoa(c.Simulation.IntervalSec) + "s" },
		set: func(c *config.Config, v string) error {
			n, err := strconv.Atoi(strings.TrimSuffix(v, "s"))
			if err != nil || n < 1 {
				return errors.New("interval must be a whole number of seconds, at least 1")
			}
			c.Simulation.IntervalSec = n
			return nil
		},
	},
}

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool  // flash "saved" message briefly
	saveErr error // non-nil if last save failed
}

func newSettingsState() settingsState {
	return settingsState{input: newSettingsInput()}
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 40
	return ti
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	f := settingsFields[a.settings.cursor]
	a.settings.saved = false
	a.settings.saveErr = nil

	if f.toggle != nil {
		f.toggle(&a.cfg)
		a.persistSettings()
		return a, nil
	}

	ti := newSettingsInput()
	ti.Placeholder = f.placeholder
	ti.SetValue(f.get(a.cfg))
	ti.Focus()
	a.settings.input = ti
	a.settings.editing = true
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settings.editing = false
		a.settingsSave(strings.TrimSpace(a.settings.input.Value()))
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsSave validates val for the selected field and writes the config.
// An invalid value leaves the config untouched.
func (a *App) settingsSave(val string) {
	f := settingsFields[a.settings.cursor]
	next := a.cfg
	if err := f.set(&next, val); err != nil {
		a.settings.saved = false
		a.settings.saveErr = err
		return
	}
	a.cfg = next
	a.persistSettings()
}

func (a *App) persistSettings() {
	a.settings.saveErr = config.SaveFile(a.configPath, a.cfg)
	a.settings.saved = a.settings.saveErr == nil
	if a.settings.saveErr != nil {
		a.log.Warn().Err(a.settings.saveErr).Str("path", a.configPath).Msg("saving settings")
	}
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	cfg := a.cfg

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	innerW := components.CardInnerWidth(cw)

	var formBody strings.Builder
	for i, f := range settingsFields {
		if a.settings.editing && i == a.settings.cursor {
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-18s ", f.label)))
			formBody.WriteString(a.settings.input.View())
			formBody.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-18s ", f.label+":"))
			value := selectedStyle.Render(f.get(cfg))
			formBody.WriteString(marker + label + value)
			if padLen := innerW - lipgloss.Width(marker) - lipgloss.Width(label) - lipgloss.Width(value); padLen > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", padLen)))
			}
		} else {
			formBody.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			formBody.WriteString(labelStyle.Render(fmt.Sprintf("%-18s ", f.label+":")))
			formBody.WriteString(valueStyle.Render(f.get(cfg)))
		}
		formBody.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		formBody.WriteString("\n")
		formBody.WriteString(warnStyle.Render(fmt.Sprintf("Not saved: %s", a.settings.saveErr)))
	} else if a.settings.saved {
		formBody.WriteString("\n")
		formBody.WriteString(greenStyle.Render("Saved!"))
	}
	formBody.WriteString("\n")
	formBody.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit/toggle  [Esc] cancel"))

	var infoBody strings.Builder
	infoBody.WriteString(labelStyle.Render("Data directory:  ") + valueStyle.Render(config.DataDir(cfg)) + "\n")
	infoBody.WriteString(labelStyle.Render("Config file:     ") + valueStyle.Render(a.configPath) + "\n")
	infoBody.WriteString(labelStyle.Render("Ledger entries:  ") + valueStyle.Render(strconv.Itoa(len(a.history))) + "\n")
	infoBody.WriteString(labelStyle.Render("Reset progress:  ") + valueStyle.Render("[R] keeps these settings"))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", formBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("General", infoBody.String(), cw))
	return b.String()
}
