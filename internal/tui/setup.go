package tui

import (
	"strconv"
	"strings"

	"github.com/mm15146-Mahad/summit/internal/config"
	"github.com/mm15146-Mahad/summit/internal/model"
	"github.com/mm15146-Mahad/summit/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// setupValues backs the first-run wizard.
type setupValues struct {
	displayName string
	theme       string
	currency    string
	budget      string
	savings     string
	daily       string
	emergency   string
	simulate    bool
}

func newSetupValues(cfg config.Config) *setupValues {
	return &setupValues{
		displayName: cfg.Profile.DisplayName,
		theme:       cfg.Appearance.Theme,
		currency:    cfg.General.CurrencySymbol,
		budget:      formatFloat(cfg.Budget.MonthlyTotal),
		savings:     formatFloat(cfg.Goals.MonthlySavings),
		daily:       formatFloat(cfg.Goals.DailyLimit),
		emergency:   formatFloat(cfg.Goals.EmergencyFund),
		simulate:    cfg.Simulation.Enabled,
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func newSetupForm(v *setupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to summit").
				Description("Every smart spending choice moves you up the mountain.\nLet's set up a few things."),
			huh.NewInput().
				Title("What should we call you?").
				Value(&v.displayName),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&v.theme),
			huh.NewInput().
				Title("Currency symbol").
				CharLimit(3).
				Value(&v.currency),
		),
		huh.NewGroup(
			huh.NewInput().Title("Total monthly budget").Validate(validateGoal).Value(&v.budget),
			huh.NewInput().Title("Monthly savings goal").Validate(validateGoal).Value(&v.savings),
			huh.NewInput().
				Title("Daily spending limit").
				Description("Expenses at or under this keep your streak alive").
				Validate(validateGoal).
				Value(&v.daily),
			huh.NewInput().Title("Emergency fund goal").Validate(validateGoal).Value(&v.emergency),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Enable background trail bonuses?").
				Description("Small random point and streak bonuses while the dashboard is open.").
				Value(&v.simulate),
		),
	).WithShowHelp(false)
}

// apply returns cfg updated with the wizard answers. Blank or invalid
// answers keep the existing value.
func (v *setupValues) apply(cfg config.Config) config.Config {
	if name := strings.TrimSpace(v.displayName); name != "" {
		cfg.Profile.DisplayName = name
	}
	if theme.Valid(v.theme) {
		cfg.Appearance.Theme = v.theme
	}
	if sym := strings.TrimSpace(v.currency); sym != "" {
		cfg.General.CurrencySymbol = sym
	}
	if d, err := model.ParseAmount(v.budget); err == nil && !d.IsNegative() {
		cfg.Budget.MonthlyTotal = d.InexactFloat64()
	}

	for _, f := range []struct {
		raw string
		dst *float64
	}{
		{v.savings, &cfg.Goals.MonthlySavings},
		{v.daily, &cfg.Goals.DailyLimit},
		{v.emergency, &cfg.Goals.EmergencyFund},
	} {
		if d, err := model.ParseAmount(f.raw); err == nil && !d.IsNegative() {
			*f.dst = d.InexactFloat64()
		}
	}
	cfg.Simulation.Enabled = v.simulate
	return cfg
}

// RunSetup runs the wizard on its own terminal screen and returns the
// updated config. The caller decides where to save it.
func RunSetup(cfg config.Config) (config.Config, error) {
	v := newSetupValues(cfg)
	if err := newSetupForm(v).Run(); err != nil {
		return cfg, err
	}
	return v.apply(cfg), nil
}

// saveSetupConfig writes the wizard answers to the config file and applies
// the goals to the current state.
func (a *App) saveSetupConfig() error {
	a.cfg = a.setupVals.apply(a.cfg)
	theme.SetActive(a.cfg.Appearance.Theme)
	a.tracker.SetGoals(a.cfg.Goals.ModelGoals())
	return config.SaveFile(a.configPath, a.cfg)
}
