package cmd

import (
	"fmt"

	"github.com/mm15146-Mahad/summit/internal/bank"
	"github.com/mm15146-Mahad/summit/internal/config"
	"github.com/mm15146-Mahad/summit/internal/engine"
	"github.com/mm15146-Mahad/summit/internal/logger"
	"github.com/mm15146-Mahad/summit/internal/tui"
	"github.com/mm15146-Mahad/summit/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var (
	flagTUIBalance  string
	flagTUISimulate bool
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&flagTUIBalance, "simulated-balance", "2450", "Balance the simulated bank reports on connect")
	tuiCmd.Flags().BoolVar(&flagTUISimulate, "simulate", false, "Enable trail bonuses for this run regardless of the config")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	balance, err := parseMoney(flagTUIBalance)
	if err != nil {
		return fmt.Errorf("--simulated-balance: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := ensureNoDaemon(cfg); err != nil {
		return err
	}

	// Console logs would tear the alt screen.
	logf, err := openLogFile(cfg, "summit.log")
	if err != nil {
		return err
	}
	defer func() { _ = logf.Close() }()

	sess, err := openSessionWith(cfg, logger.NewJSON(logf, flagLogLevel))
	if err != nil {
		return err
	}
	defer sess.Close()

	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	var sim *engine.Simulation
	if cfg.Simulation.Enabled || flagTUISimulate {
		sc := cfg.Simulation
		sim = engine.NewSimulation(sc.PointChance, sc.StreakChance, sc.MaxPoints, nil)
	}

	app := tui.NewApp(tui.Options{
		Config:     cfg,
		ConfigPath: config.ConfigPath(),
		Tracker:    sess.tracker,
		Store:      sess.store,
		Bank:       bank.NewSimulated(balance, bank.DefaultDelay),
		Simulation: sim,
		Log:        sess.log,
		NeedSetup:  !config.Exists(),
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
