// Package cmd implements the summit CLI commands.
package cmd

import (
	"fmt"

	"github.com/mm15146-Mahad/summit/internal/config"
	"github.com/mm15146-Mahad/summit/internal/store"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println(config.ConfigPath())
	},
}

func init() {
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Printf("  Data file:   %s\n", store.Path(dataDir(cfg)))
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Currency:        %s\n", cfg.General.CurrencySymbol)
	fmt.Printf("    Seed demo data:  %s\n", onOff(cfg.General.SeedDemo))
	fmt.Println()

	fmt.Println("  [Profile]")
	fmt.Printf("    Display name:    %s\n", cfg.Profile.DisplayName)
	fmt.Println()

	fmt.Println("  [Goals] (for a fresh start)")
	fmt.Printf("    Monthly savings: %.2f\n", cfg.Goals.MonthlySavings)
	fmt.Printf("    Daily limit:     %.2f\n", cfg.Goals.DailyLimit)
	fmt.Printf("    Emergency fund:  %.2f\n", cfg.Goals.EmergencyFund)
	fmt.Println()

	fmt.Println("  [Budget]")
	fmt.Printf("    Monthly total:   %.2f\n", cfg.Budget.MonthlyTotal)
	fmt.Printf("    Disposable:      %.2f\n", cfg.Budget.Disposable)
	fmt.Println()

	fmt.Println("  [Notifications]")
	fmt.Printf("    Budget alerts:   %s\n", onOff(cfg.Notifications.BudgetAlerts))
	fmt.Printf("    Achievements:    %s\n", onOff(cfg.Notifications.Achievements))
	fmt.Println()

	fmt.Println("  [Privacy]")
	fmt.Printf("    Show balance:    %s\n", onOff(cfg.Privacy.ShowBalance))
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme:           %s\n", cfg.Appearance.Theme)
	fmt.Printf("    Mountain:        %s\n", cfg.Appearance.Mountain)
	fmt.Printf("    Hiker:           %s\n", cfg.Appearance.Hiker)
	fmt.Println()

	fmt.Println("  [Simulation]")
	fmt.Printf("    Enabled:         %s\n", onOff(cfg.Simulation.Enabled))
	fmt.Printf("    Interval:        %s\n", cfg.Simulation.Interval())
	fmt.Printf("    Chances:         %.0f%% points, %.0f%% streak\n", cfg.Simulation.PointChance*100, cfg.Simulation.StreakChance*100)
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:         %s\n", cfg.Daemon.Addr)
	fmt.Println()

	fmt.Println("  Run `summit setup` to reconfigure.")
	return nil
}
